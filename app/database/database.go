// Package database opens the configured persistence store and exposes its
// repositories.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"blogplatform/app/config"
	"blogplatform/app/repositories"
	"blogplatform/app/repositories/postgres"

	"github.com/dgraph-io/badger/v4"
	_ "github.com/lib/pq"
)

// Store bundles the repositories of one backing database.
type Store struct {
	Posts       repositories.PostRepository
	Comments    repositories.CommentRepository
	Subscribers repositories.SubscriberRepository

	info   Info
	sqlDB  *sql.DB
	kvDB   *badger.DB
	logger *slog.Logger
}

// Info describes the backing database for status reporting.
type Info struct {
	Database string `json:"database"`
	Driver   string `json:"driver"`
	URL      string `json:"url"`
}

// Open connects to the database selected by cfg. PostgreSQL schemas are
// migrated when migrate is set.
func Open(ctx context.Context, cfg config.Database, migrate bool, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, migrate, logger)
	case config.DriverBadger:
		db, err := repositories.OpenBadger(cfg.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("opened embedded database", "path", cfg.Path)
		return NewBadgerStore(db, cfg.Redacted, logger), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.Database, migrate bool, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("connected to database", "url", cfg.Redacted)

	if migrate {
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("migrations completed successfully")
	}

	return NewPostgresStore(db, cfg.Redacted, logger), nil
}

// NewPostgresStore wraps an open PostgreSQL connection pool.
func NewPostgresStore(db *sql.DB, redactedURL string, logger *slog.Logger) *Store {
	return &Store{
		Posts:       postgres.NewPostRepository(db),
		Comments:    postgres.NewCommentRepository(db),
		Subscribers: postgres.NewSubscriberRepository(db),
		info:        Info{Database: "PostgreSQL", Driver: "lib/pq", URL: redactedURL},
		sqlDB:       db,
		logger:      logger,
	}
}

// NewBadgerStore wraps an open Badger database.
func NewBadgerStore(db *badger.DB, location string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		Posts:       repositories.NewBadgerPostRepository(db),
		Comments:    repositories.NewBadgerCommentRepository(db),
		Subscribers: repositories.NewBadgerSubscriberRepository(db),
		info:        Info{Database: "Badger", Driver: "badger/v4", URL: location},
		kvDB:        db,
		logger:      logger,
	}
}

// Info returns the static description of the store.
func (s *Store) Info() Info {
	return s.info
}

// Ping verifies the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	switch {
	case s.sqlDB != nil:
		return s.sqlDB.PingContext(ctx)
	case s.kvDB != nil:
		if s.kvDB.IsClosed() {
			return errors.New("badger database is closed")
		}
		return nil
	default:
		return errors.New("no database configured")
	}
}

// SQL returns the PostgreSQL pool, or nil for the embedded store.
func (s *Store) SQL() *sql.DB {
	return s.sqlDB
}

// Badger returns the embedded database, or nil for PostgreSQL.
func (s *Store) Badger() *badger.DB {
	return s.kvDB
}

// Close releases the underlying database.
func (s *Store) Close() error {
	switch {
	case s.sqlDB != nil:
		return s.sqlDB.Close()
	case s.kvDB != nil:
		return s.kvDB.Close()
	}
	return nil
}
