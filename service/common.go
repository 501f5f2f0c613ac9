package service

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"blogplatform/app/config"
)

// Indirections so tests can capture output and feed confirmations.
var (
	osExit               = os.Exit
	stdout     io.Writer = processStdout{}
	stdin      io.Reader = processStdin{}
	loadConfig           = config.Load
)

// processStdout resolves os.Stdout on every write so redirections made
// after start-up are honoured.
type processStdout struct{}

func (processStdout) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

type processStdin struct{}

func (processStdin) Read(p []byte) (int, error) { return os.Stdin.Read(p) }

// newLogger builds the process logger. LOG_LEVEL selects the minimum level.
func newLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			level = slog.LevelInfo
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
