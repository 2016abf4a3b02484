package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"slidecast/internal/logger"
)

var DB *sql.DB

// InitDatabase opens the SQLite database and creates tables
func InitDatabase(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	var err error
	DB, err = sql.Open("sqlite3", dbPath+"?_foreign_keys=1&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Log.Info().Str("path", dbPath).Msg("database initialized")
	return nil
}

// createTables creates all necessary tables
func createTables() error {
	createSettingsTable := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := DB.Exec(createSettingsTable); err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}

	createRecentShowsTable := `
	CREATE TABLE IF NOT EXISTS recent_shows (
		path TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		opened_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := DB.Exec(createRecentShowsTable); err != nil {
		return fmt.Errorf("failed to create recent_shows table: %w", err)
	}

	// Recent list is always read newest first
	createIndex := `CREATE INDEX IF NOT EXISTS idx_recent_opened_at ON recent_shows(opened_at);`
	if _, err := DB.Exec(createIndex); err != nil {
		return fmt.Errorf("failed to create opened_at index: %w", err)
	}

	logger.Log.Debug().Msg("database tables created")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
