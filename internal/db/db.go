package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverCGO  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// TimeLayout is the fixed-width UTC layout used for stored timestamps so
// that lexical order matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// DSN builds a connection string for the driver. Every connection gets a busy
// timeout, foreign keys and immediate write transactions, so racing writers
// queue on the lock and the version checks decide the outcome.
func DSN(driver, path string) (string, error) {
	q := url.Values{}
	switch driver {
	case DriverCGO:
		q.Set("_busy_timeout", "5000")
		q.Set("_foreign_keys", "on")
		q.Set("_txlock", "immediate")
	case DriverPure:
		q.Add("_pragma", "busy_timeout(5000)")
		q.Add("_pragma", "foreign_keys(1)")
		q.Set("_txlock", "immediate")
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
	return "file:" + path + "?" + q.Encode(), nil
}

// Open opens the database at path, creating its directory, and brings the
// schema up to date.
func Open(driver, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn, err := DSN(driver, path)
	if err != nil {
		return nil, err
	}

	database, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := InitSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}
