package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds database configuration.
type Config struct {
	// Driver is detected from URL when empty.
	Driver Driver
	// URL is the PostgreSQL connection string.
	URL string
	// SQLitePath is the database file used by the SQLite driver.
	SQLitePath string
	// MaxConns caps the PostgreSQL pool.
	MaxConns int
}

// NewConnection opens a connection for the configured driver. The driver
// package must be imported for its side effect of registering a factory.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DetectDriver(cfg.URL)
	}

	var factory ConnectionFactory
	switch driver {
	case DriverPostgres:
		factory = newPostgresConnection
	case DriverSQLite:
		factory = newSQLiteConnection
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if factory == nil {
		return nil, fmt.Errorf("database driver %s is not registered", driver)
	}
	return factory(ctx, cfg)
}

// SQLitePath returns the database file inside the data directory.
func SQLitePath(dataDir string) string {
	if dataDir == "" {
		dataDir = "data"
	}
	return filepath.Join(dataDir, "app.db")
}

// EnsureDirectory creates the parent directory for a file path if it doesn't exist.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// ConnectionFactory opens a Connection for one driver.
type ConnectionFactory func(ctx context.Context, cfg Config) (Connection, error)

var (
	newPostgresConnection ConnectionFactory
	newSQLiteConnection   ConnectionFactory
)

// RegisterPostgresDriver registers the PostgreSQL connection factory.
func RegisterPostgresDriver(fn ConnectionFactory) {
	newPostgresConnection = fn
}

// RegisterSQLiteDriver registers the SQLite connection factory.
func RegisterSQLiteDriver(fn ConnectionFactory) {
	newSQLiteConnection = fn
}
