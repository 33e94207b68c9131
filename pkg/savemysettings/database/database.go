package database

import (
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrUnconfigured is returned when the database cannot be opened because
// required configuration is missing. Surfacing it distinctly lets
// operators tell a misconfigured deployment apart from a runtime store
// failure.
var ErrUnconfigured = errors.New("database is not configured: set SAVEMYSETTINGS_DB_PATH")

// Config holds the settings needed to open the database.
type Config struct {
	// Path is the SQLite database file path, or ":memory:" for tests.
	Path string
}

// Open validates the configuration and opens the database connection.
// The returned handle is the single long-lived client for the process;
// it is constructed once at startup and passed explicitly to every
// handler rather than held in a package global.
func Open(cfg Config) (*gorm.DB, error) {
	if cfg.Path == "" {
		return nil, ErrUnconfigured
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}
