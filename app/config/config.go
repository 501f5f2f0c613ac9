package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

// Config holds the runtime settings of the blog service.
type Config struct {
	Port               string
	Database           Database
	BackupDir          string
	UploadDir          string
	StaticDir          string
	SiteURL            string
	CorsAllowedOrigins []string
	RunMigrations      bool
	Mail               Mail
}

// Database selects and addresses the persistence store.
type Database struct {
	Driver string
	// DSN is the PostgreSQL connection URL.
	DSN string
	// Path is the directory of the embedded store.
	Path string
	// Redacted is a display form of the location with credentials masked.
	Redacted string
}

// Mail configures the outgoing mail transport. An empty Host selects the
// console transport.
type Mail struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from environment variables alone.
func FromEnv() (Config, error) {
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	db, err := ParseDatabaseURL(getEnv("DATABASE_URL", ""), getEnv("DATA_DIR", "data/badger"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		Database:           db,
		BackupDir:          getEnv("BACKUP_DIR", "data/backups"),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		StaticDir:          getEnv("STATIC_DIR", "static"),
		SiteURL:            getEnv("SITE_URL", "https://manas-gunti-blog.up.railway.app/"),
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RunMigrations:      getEnv("RUN_MIGRATIONS", "true") != "false",
		Mail: Mail{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     smtpPort,
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("EMAIL_FROM", "noreply@blog.com"),
		},
	}
	return cfg, nil
}

// ParseDatabaseURL maps DATABASE_URL onto a store. postgres:// and
// postgresql:// URLs select PostgreSQL; anything else falls back to the
// embedded store at dataDir.
func ParseDatabaseURL(raw, dataDir string) (Database, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return badgerDatabase(dataDir), nil
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		slog.Warn("DATABASE_URL is not a PostgreSQL URL, using embedded store", "path", dataDir)
		return badgerDatabase(dataDir), nil
	}
	if u.Host == "" || strings.TrimPrefix(u.Path, "/") == "" {
		return Database{}, errors.New("invalid DATABASE_URL format: host and database name are required")
	}

	return Database{
		Driver:   DriverPostgres,
		DSN:      raw,
		Redacted: redact(u),
	}, nil
}

func badgerDatabase(dataDir string) Database {
	return Database{
		Driver:   DriverBadger,
		Path:     dataDir,
		Redacted: "badger://" + dataDir,
	}
}

// redact masks the password in the userinfo and in a password query parameter.
func redact(u *url.URL) string {
	cp := *u
	if cp.User != nil {
		if _, ok := cp.User.Password(); ok {
			cp.User = url.UserPassword(cp.User.Username(), "***")
		}
	}
	q := cp.Query()
	if q.Has("password") {
		q.Set("password", "***")
		cp.RawQuery = q.Encode()
	}
	// url.String escapes the mask, undo it for display.
	return strings.ReplaceAll(cp.String(), "%2A%2A%2A", "***")
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
