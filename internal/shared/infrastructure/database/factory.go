package database

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds ledger database configuration.
type Config struct {
	// Driver selects the backend. Empty or "auto" detects it from URL.
	Driver Driver

	// URL is the PostgreSQL connection string, or a SQLite path.
	URL string

	// SQLitePath is the SQLite database file. Defaults to ~/.nightshift/runs.db.
	SQLitePath string

	// MaxConns caps the PostgreSQL pool.
	MaxConns int
}

// ResolvedDriver returns the configured driver, detecting it when unset.
func (c Config) ResolvedDriver() Driver {
	if c.Driver == "" || c.Driver == "auto" {
		return DetectDriver(c.URL)
	}
	return c.Driver
}

// ResolvedSQLitePath returns the SQLite file to open.
func (c Config) ResolvedSQLitePath() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	if c.URL != "" && DetectDriver(c.URL) == DriverSQLite {
		return strings.TrimPrefix(c.URL, "sqlite://")
	}
	return DefaultSQLitePath()
}

// DefaultSQLitePath returns the default ledger location.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".nightshift", "runs.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
