package database

import "strings"

// Driver names a ledger database backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// IsValid returns true if the driver is a known type.
func (d Driver) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLite
}

// DetectDriver picks a driver from a connection string. Anything that is
// not a postgres URL is treated as a SQLite path, and an empty URL selects
// the local SQLite ledger.
func DetectDriver(url string) Driver {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}
