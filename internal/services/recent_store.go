package services

import (
	"database/sql"
	"fmt"
	"time"

	"slidecast/internal/models"
)

// SQLRecentShowStore keeps the recently opened shows
type SQLRecentShowStore struct {
	database *sql.DB
}

// NewSQLRecentShowStore creates a recent-shows store on database
func NewSQLRecentShowStore(database *sql.DB) *SQLRecentShowStore {
	return &SQLRecentShowStore{
		database: database,
	}
}

// Touch records show as opened now, inserting it if needed
func (rs *SQLRecentShowStore) Touch(show models.RecentShow) error {
	if show.OpenedAt.IsZero() {
		show.OpenedAt = time.Now()
	}

	query := `INSERT INTO recent_shows (path, name, opened_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET name = excluded.name, opened_at = excluded.opened_at`

	if _, err := rs.database.Exec(query, show.Path, show.Name, show.OpenedAt.UTC()); err != nil {
		return fmt.Errorf("failed to record recent show: %w", err)
	}
	return nil
}

// List returns up to limit shows, most recently opened first
func (rs *SQLRecentShowStore) List(limit int) ([]models.RecentShow, error) {
	query := `SELECT path, name, opened_at FROM recent_shows ORDER BY opened_at DESC LIMIT ?`

	rows, err := rs.database.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent shows: %w", err)
	}
	defer rows.Close()

	shows := []models.RecentShow{}
	for rows.Next() {
		var show models.RecentShow
		if err := rows.Scan(&show.Path, &show.Name, &show.OpenedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent show: %w", err)
		}
		shows = append(shows, show)
	}

	return shows, rows.Err()
}

// Remove deletes path from the list
func (rs *SQLRecentShowStore) Remove(path string) error {
	result, err := rs.database.Exec(`DELETE FROM recent_shows WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("failed to delete recent show: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("recent show not found: %s", path)
	}
	return nil
}
