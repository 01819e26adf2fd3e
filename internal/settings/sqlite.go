package settings

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"vellum/internal/logger"
)

const createSettingsTable = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteStore keeps settings as rows of a key/value table
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the settings database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}
	if _, err := db.Exec(createSettingsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create settings table: %w", err)
	}
	logger.Info("Settings database opened: %s", path)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load() (Settings, error) {
	data := Default()
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return data, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Default(), fmt.Errorf("failed to scan setting: %w", err)
		}
		if err := apply(&data, key, value); err != nil {
			return Default(), err
		}
	}
	if err := rows.Err(); err != nil {
		return Default(), fmt.Errorf("failed to read settings: %w", err)
	}
	return data, nil
}

func (s *SQLiteStore) Save(data Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin settings transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("failed to prepare settings upsert: %w", err)
	}
	defer stmt.Close()

	for key, value := range fields(data) {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to store setting %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
