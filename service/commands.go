package service

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"blogplatform/app/config"
	"blogplatform/app/database"
	"blogplatform/app/repositories"
	"blogplatform/app/repositories/postgres"

	_ "github.com/lib/pq"
)

// HandleCommand handles database subcommands and returns an exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printDbHelp()
		osExit(1)
		return 1
	}

	cmd := args[0]
	if cmd == "help" {
		printDbHelp()
		return 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stdout, "Failed to load configuration: %v\n", err)
		osExit(1)
		return 1
	}

	switch cmd {
	case "init":
		return initDb(cfg)
	case "clean":
		return clean(cfg)
	case "backup":
		return backup(cfg)
	case "restore":
		if len(args) < 2 {
			fmt.Fprintln(stdout, "Error: backup file path required for restore")
			osExit(1)
			return 1
		}
		return restore(cfg, args[1])
	case "migrate":
		return migrate(cfg)
	case "status":
		return status(cfg)
	default:
		fmt.Fprintf(stdout, "Unknown db command: %s\n\n", cmd)
		printDbHelp()
		osExit(1)
		return 1
	}
}

// printDbHelp prints help for database subcommands.
func printDbHelp() {
	helpText := `Usage: blogplatform db <command>

Commands:
  init                            Initialize a new empty database (PostgreSQL: apply migrations)
  clean                           Delete the embedded database
  backup                          Create a backup of the embedded database
  restore <file>                  Restore the embedded database from a backup
  migrate                         Apply pending PostgreSQL migrations
  status                          Show database connectivity, schema version and record counts
  help                            Display this help message
`
	fmt.Fprintln(stdout, helpText)
}

func confirm(prompt string) bool {
	fmt.Fprint(stdout, prompt+" [y/N] ")
	var response string
	fmt.Fscanln(stdin, &response)
	return response == "y" || response == "Y"
}

func requireEmbedded(cfg config.Config, cmd string) bool {
	if cfg.Database.Driver == config.DriverBadger {
		return true
	}
	fmt.Fprintf(stdout, "The %s command only applies to the embedded database; DATABASE_URL selects PostgreSQL\n", cmd)
	return false
}

func openPostgres(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initDb initializes a new empty database.
func initDb(cfg config.Config) int {
	if cfg.Database.Driver == config.DriverPostgres {
		return migrate(cfg)
	}

	dbPath := cfg.Database.Path
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Fprintln(stdout, "Database already exists. Use 'clean' first if you want to reinitialize.")
		return 0
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Fprintf(stdout, "Failed to create database directory: %v\n", err)
		return 1
	}

	db, err := repositories.OpenBadger(dbPath)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to initialize database: %v\n", err)
		return 1
	}
	defer db.Close()

	fmt.Fprintln(stdout, "Database initialized successfully")
	return 0
}

// clean removes the database.
func clean(cfg config.Config) int {
	if !requireEmbedded(cfg, "clean") {
		return 1
	}

	dbPath := cfg.Database.Path
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(stdout, "Database is already clean (does not exist)")
		return 0
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(stdout, "Operation cancelled")
		return 1
	}

	if err := os.RemoveAll(dbPath); err != nil {
		fmt.Fprintf(stdout, "Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "Database cleaned successfully")
	return 0
}

// backup creates a backup of the database.
func backup(cfg config.Config) int {
	if !requireEmbedded(cfg, "backup") {
		return 1
	}

	dbPath := cfg.Database.Path
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(stdout, "No database exists to backup")
		return 1
	}

	if err := os.MkdirAll(cfg.BackupDir, 0755); err != nil {
		fmt.Fprintf(stdout, "Failed to create backup directory: %v\n", err)
		return 1
	}

	db, err := repositories.OpenBadger(dbPath)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	backupFile := filepath.Join(cfg.BackupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to create backup file: %v\n", err)
		return 1
	}

	_, err = db.Backup(f, 0)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(backupFile)
		fmt.Fprintf(stdout, "Failed to backup database: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Database backed up successfully to %s\n", backupFile)
	return 0
}

// restore restores the database from a backup. The backup is loaded into a
// scratch directory first; the live database is only replaced once the load
// succeeded.
func restore(cfg config.Config, backupFile string) int {
	if !requireEmbedded(cfg, "restore") {
		return 1
	}

	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Fprintf(stdout, "Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stdout, "Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Fprintf(stdout, "Backup file is empty: %s\n", backupFile)
		return 1
	}

	dbPath := filepath.Clean(cfg.Database.Path)
	_, err = os.Stat(dbPath)
	exists := err == nil
	if exists && !confirm("Existing database found. Do you want to replace it?") {
		fmt.Fprintln(stdout, "Operation cancelled")
		return 1
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		fmt.Fprintf(stdout, "Failed to create database directory: %v\n", err)
		return 1
	}
	suffix := strconv.FormatInt(time.Now().UnixNano(), 10)
	staging := dbPath + ".restore-" + suffix
	if err := loadBackup(staging, backupFile); err != nil {
		os.RemoveAll(staging)
		fmt.Fprintf(stdout, "Failed to restore database: %v\n", err)
		return 1
	}

	previous := dbPath + ".previous-" + suffix
	if exists {
		if err := os.Rename(dbPath, previous); err != nil {
			os.RemoveAll(staging)
			fmt.Fprintf(stdout, "Failed to move existing database aside: %v\n", err)
			return 1
		}
	}
	if err := os.Rename(staging, dbPath); err != nil {
		if exists {
			os.Rename(previous, dbPath)
		}
		os.RemoveAll(staging)
		fmt.Fprintf(stdout, "Failed to install restored database: %v\n", err)
		return 1
	}
	if exists {
		os.RemoveAll(previous)
	}

	fmt.Fprintln(stdout, "Database restored successfully")
	return 0
}

// loadBackup creates a Badger database at dir and loads backupFile into it.
func loadBackup(dir, backupFile string) (err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	db, err := repositories.OpenBadger(dir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()

	f, err := os.Open(backupFile)
	if err != nil {
		return err
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred during restore: %v", r)
		}
	}()
	return db.Load(f, 4)
}

// migrate applies pending PostgreSQL migrations.
func migrate(cfg config.Config) int {
	if cfg.Database.Driver != config.DriverPostgres {
		fmt.Fprintln(stdout, "The embedded database has no schema; nothing to migrate")
		return 0
	}

	db, err := openPostgres(cfg)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		fmt.Fprintf(stdout, "%v\n", err)
		return 1
	}
	version, err := postgres.MigrationVersion(db)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to read schema version: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Database initialized successfully (schema version %d)\n", version)
	return 0
}

// status reports connectivity and record counts.
func status(cfg config.Config) int {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.Database.Driver == config.DriverBadger {
		if _, err := os.Stat(cfg.Database.Path); os.IsNotExist(err) {
			fmt.Fprintf(stdout, "No database exists at %s\n", cfg.Database.Path)
			return 1
		}
	}

	store, err := database.Open(ctx, cfg.Database, false, newLogger(stdout))
	if err != nil {
		fmt.Fprintf(stdout, "Database unreachable: %v\n", err)
		return 1
	}
	defer store.Close()

	info := store.Info()
	fmt.Fprintf(stdout, "Database: %s (%s)\n", info.Database, info.URL)

	if db := store.SQL(); db != nil {
		if err := postgres.MigrationStatus(db); err != nil {
			fmt.Fprintf(stdout, "Failed to read migration status: %v\n", err)
			return 1
		}
	}

	posts, err := store.Posts.List(ctx)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to count posts: %v\n", err)
		return 1
	}
	subscribers, err := store.Subscribers.ListActive(ctx)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to count subscribers: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Posts: %d\n", len(posts))
	fmt.Fprintf(stdout, "Active subscribers: %d\n", len(subscribers))
	return 0
}
