package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
)

// Open opens the SQLite database at path with the standard DSN options.
// Callers own the handle and pass it to RunMigrations and NewSQLiteStore.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	// _foreign_keys rides on the DSN so every pooled connection enforces
	// referential integrity, not just the one the pragma ran on.
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000&_foreign_keys=on", filepath.ToSlash(path))
	return sql.Open("sqlite3", dsn)
}

// Foreign keys carry no ON DELETE clause: with foreign_keys=ON, deleting a
// referenced section or question is rejected. No deletion API exists in
// this subsystem.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]ssections (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	tag TEXT NOT NULL UNIQUE,
	url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS %[1]squestions (
	id TEXT PRIMARY KEY,
	section_id TEXT NOT NULL,
	question_choices TEXT NOT NULL DEFAULT '',
	question_number INTEGER NOT NULL DEFAULT 0,
	question TEXT NOT NULL DEFAULT '',
	question_type TEXT NOT NULL DEFAULT '',
	unique_hash TEXT NOT NULL UNIQUE,
	FOREIGN KEY (section_id) REFERENCES %[1]ssections(id)
);

CREATE TABLE IF NOT EXISTS %[1]sanswers (
	id TEXT PRIMARY KEY,
	question_id TEXT NOT NULL,
	user_id INTEGER NOT NULL,
	group_id INTEGER NOT NULL,
	answer TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (question_id, user_id, group_id),
	FOREIGN KEY (question_id) REFERENCES %[1]squestions(id)
);

CREATE INDEX IF NOT EXISTS idx_%[1]squestions_section ON %[1]squestions(section_id);
CREATE INDEX IF NOT EXISTS idx_%[1]sanswers_group ON %[1]sanswers(group_id);
`

// RunMigrations creates the profile tables if they do not exist. The prefix
// is prepended to every table name and must match the one given to
// NewSQLiteStore. Safe to run repeatedly.
func RunMigrations(sqlDB *sql.DB, prefix string) error {
	if sqlDB == nil {
		return errors.New("nil db")
	}
	if _, err := sqlDB.Exec(fmt.Sprintf(schemaTemplate, prefix)); err != nil {
		return fmt.Errorf("create profile tables: %w", err)
	}
	return nil
}
