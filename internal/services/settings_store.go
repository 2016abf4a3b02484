package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"slidecast/internal/models"
)

// SQLSettingsStore persists settings as key/value rows
type SQLSettingsStore struct {
	database *sql.DB
}

// NewSQLSettingsStore creates a settings store on database
func NewSQLSettingsStore(database *sql.DB) *SQLSettingsStore {
	return &SQLSettingsStore{
		database: database,
	}
}

// LoadSettings reads the stored settings. Missing keys keep their defaults;
// found is false when nothing has been stored yet.
func (ss *SQLSettingsStore) LoadSettings() (models.Settings, bool, error) {
	settings := models.DefaultSettings()

	rows, err := ss.database.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return settings, false, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, false, fmt.Errorf("failed to scan setting: %w", err)
		}
		found = true

		switch key {
		case SettingWidth:
			settings.Width = atoiOr(value, settings.Width)
		case SettingHeight:
			settings.Height = atoiOr(value, settings.Height)
		case SettingPaddingSize:
			settings.PaddingSize = atoiOr(value, settings.PaddingSize)
		case SettingBackgroundColor:
			settings.BackgroundColor = value
		}
	}

	return settings, found, rows.Err()
}

// SaveSettings writes every field in one transaction
func (ss *SQLSettingsStore) SaveSettings(settings models.Settings) error {
	tx, err := ss.database.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	now := time.Now()
	values := map[string]string{
		SettingWidth:           strconv.Itoa(settings.Width),
		SettingHeight:          strconv.Itoa(settings.Height),
		SettingPaddingSize:     strconv.Itoa(settings.PaddingSize),
		SettingBackgroundColor: settings.BackgroundColor,
	}
	for key, value := range values {
		if _, err := tx.Exec(query, key, value, now); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}

func atoiOr(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
