package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

// RunSQLiteMigrations executes all SQLite migrations in order.
func RunSQLiteMigrations(ctx context.Context, db *sql.DB) error {
	return run(ctx, "sqlite", func(ctx context.Context, stmt string) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	})
}

// RunPostgresMigrations executes all PostgreSQL migrations in order.
func RunPostgresMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	return run(ctx, "postgres", func(ctx context.Context, stmt string) error {
		_, err := pool.Exec(ctx, stmt)
		return err
	})
}

// upFiles lists the .up.sql files of dir in name order.
func upFiles(dir string) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func run(ctx context.Context, dir string, exec func(ctx context.Context, stmt string) error) error {
	files, err := upFiles(dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		migration, err := migrationsFS.ReadFile(dir + "/" + file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		// Statements use IF NOT EXISTS, so reruns are harmless.
		for _, stmt := range splitStatements(string(migration)) {
			if err := exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", file, err)
			}
		}
	}
	return nil
}

func splitStatements(script string) []string {
	var stmts []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
