package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/felixgeelhaar/nightshift/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/nightshift/internal/shared/infrastructure/migrations"
)

// Open opens (creating if needed) the SQLite ledger at path and applies
// the schema migrations.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = database.DefaultSQLitePath()
	}
	if path != ":memory:" {
		if err := database.EnsureDirectory(path); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// - journal_mode=WAL: readers do not block the single writer
	// - busy_timeout=5000: wait 5s on lock instead of failing immediately
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?"
	} else {
		dsn += "&"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite doesn't support multiple writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
