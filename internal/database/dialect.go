package database

import (
	"database/sql"
	"strconv"
	"strings"
)

// Dialect abstracts the differences between the supported database engines
type Dialect interface {
	// DriverName returns the driver name registered with database/sql
	DriverName() string

	// DSN builds the data source name for sql.Open
	DSN(config DialectConfig) string

	// RewriteQuery converts ? placeholders to the engine's native syntax
	RewriteQuery(query string) string

	// SupportsLastInsertID reports whether the driver implements LastInsertId()
	SupportsLastInsertID() bool

	// ConfigureConnection applies engine-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the subdirectory name for migrations (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL for the migration tracking table
	CreateMigrationsTableQuery() string
}

// DialectConfig holds connection parameters for a dialect
type DialectConfig struct {
	// Path is the database file path (SQLite only)
	Path string

	// URL is the connection URL (PostgreSQL/MySQL)
	URL string
}

// rewriteToNumbered converts ? placeholders to $1, $2, ... for PostgreSQL
func rewriteToNumbered(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
