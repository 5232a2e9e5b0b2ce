package gormstore

import (
	"gorm.io/gorm/logger"
)

// Driver selects the relational backend
type Driver string

// Supported drivers
const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Options holds store configuration
type Options struct {
	// Driver selects the dialect.
	Driver Driver
	// Path is the SQLite database file.
	Path string
	// DSN is the Postgres connection string.
	DSN string
	// LogLevel controls GORM's own logging.
	LogLevel logger.LogLevel
}

// DefaultOptions returns a SQLite store in the working directory, matching
// the CLI default database file
func DefaultOptions() Options {
	return Options{
		Driver:   DriverSQLite,
		Path:     "queuectl.db",
		LogLevel: logger.Warn,
	}
}
