package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

//go:embed migration.sql
var migrationSQL string

// DB wraps the SQLite database holding conversations, facts,
// preferences, settings, and analysis logs.
type DB struct {
	conn *sql.DB
	path string
}

// New opens (creating if needed) the database at dbPath and runs
// migrations. The driver is pure Go, no system SQLite required.
func New(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	db := &DB{conn: conn, path: dbPath}

	if err := db.Migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}

// Migrate applies the embedded schema.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(migrationSQL); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// GetSetting retrieves a setting value; missing keys return "".
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting updates or inserts a setting.
func (db *DB) SetSetting(key, value, description string) error {
	_, err := db.conn.Exec(`
		INSERT INTO settings (key, value, description) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = strftime('%s', 'now')
	`, key, value, description, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// LogAnalysis records the start of a command analysis and returns the
// log row ID for the later status update.
func (db *DB) LogAnalysis(sessionID, input, intent, action string, confidence float64, method string) (int64, error) {
	result, err := db.conn.Exec(`
		INSERT INTO analysis_logs (session_id, input, intent, action, confidence, method, status)
		VALUES (?, ?, ?, ?, ?, ?, 'started')
	`, sessionID, input, intent, action, confidence, method)
	if err != nil {
		return 0, fmt.Errorf("failed to log analysis: %w", err)
	}
	return result.LastInsertId()
}

// UpdateLogStatus finalizes an analysis log entry.
func (db *DB) UpdateLogStatus(logID int64, status, errorMsg string, durationMs int64) error {
	_, err := db.conn.Exec(`
		UPDATE analysis_logs SET status = ?, error_message = ?, duration_ms = ?
		WHERE id = ?
	`, status, errorMsg, durationMs, logID)
	if err != nil {
		return fmt.Errorf("failed to update log status: %w", err)
	}
	return nil
}
