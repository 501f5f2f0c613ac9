package main

import (
	"fmt"
	"os"
	"strings"

	"blogplatform/service"
)

const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches the command line and exits with the command's status.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help", "-h", "--help":
		printHelp()
	case "version":
		fmt.Printf("blogplatform version %s\n", CliVersion)
	case "serve":
		if code := service.RunAppServer(os.Args[2:]); code != 0 {
			exit(code)
		}
	case "db":
		if code := service.HandleCommand(os.Args[2:]); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: blogplatform <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve [--port <port>]          Run the blog REST API.
  db <command>                   Manage the database (init, clean, backup, restore, migrate, status).

Configuration is read from the environment and an optional .env file
(PORT, DATABASE_URL, DATA_DIR, UPLOAD_DIR, SMTP_HOST, ...).
`
	fmt.Println(helpText)
}
