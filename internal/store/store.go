// Package store manages the bot's SQLite database. The installer creates the
// schema the bot process expects and records its own provisioning runs in the
// same database so `botstrap history` can show what happened on this host.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps the bot database connection.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the database at path, applying WAL and busy-timeout
// pragmas and creating the schema when needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) applySchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Schema the bot process reads and writes. Table and column names must stay
// in sync with the runtime; the installer only creates them.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY,
		username TEXT,
		first_name TEXT,
		last_name TEXT,
		language TEXT DEFAULT 'fa',
		default_quality TEXT DEFAULT '1080',
		is_vip INTEGER DEFAULT 0,
		vip_expiry TEXT,
		is_banned INTEGER DEFAULT 0,
		ban_reason TEXT,
		total_downloads INTEGER DEFAULT 0,
		successful_downloads INTEGER DEFAULT 0,
		failed_downloads INTEGER DEFAULT 0,
		total_size INTEGER DEFAULT 0,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		last_active TEXT DEFAULT CURRENT_TIMESTAMP,
		daily_downloads INTEGER DEFAULT 0,
		daily_reset TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS downloads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		url TEXT,
		title TEXT,
		platform TEXT,
		quality TEXT,
		file_size INTEGER,
		duration INTEGER,
		status TEXT,
		error_message TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		completed_at TEXT,
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cookies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		platform TEXT,
		cookie_data TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		expires_at TEXT,
		is_valid INTEGER DEFAULT 1,
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS statistics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT UNIQUE,
		total_downloads INTEGER DEFAULT 0,
		successful_downloads INTEGER DEFAULT 0,
		failed_downloads INTEGER DEFAULT 0,
		unique_users INTEGER DEFAULT 0,
		total_size INTEGER DEFAULT 0,
		top_platform TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_downloads_user ON downloads(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_downloads_date ON downloads(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_cookies_user ON cookies(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cookies_platform ON cookies(platform)`,
	`CREATE TABLE IF NOT EXISTS setup_runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		succeeded INTEGER DEFAULT 0,
		tool_version TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS setup_steps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT,
		duration_ms INTEGER DEFAULT 0,
		FOREIGN KEY (run_id) REFERENCES setup_runs(id)
	)`,
}

// Counts returns row counts for the bot tables, used by `botstrap db stats`.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 4)
	for _, table := range []string{"users", "downloads", "cookies", "statistics"} {
		var count int
		// Table names come from the fixed list above, never from input.
		row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table)
		if err := row.Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}
