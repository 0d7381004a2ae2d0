package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const settingInstallID = "install_id"

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT '',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// GetSetting returns the stored value for key, or "" when unset
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err != nil {
		return ""
	}
	return v
}

// SetSetting stores value under key
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("saving setting %s: %w", key, err)
	}
	return nil
}

// InstallID returns the server's persistent id, creating it on first use
func (db *DB) InstallID() (string, error) {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", settingInstallID).Scan(&v)
	switch {
	case err == nil && v != "":
		return v, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("loading install id: %w", err)
	}
	id := uuid.NewString()
	if err := db.SetSetting(settingInstallID, id); err != nil {
		return "", err
	}
	return id, nil
}
