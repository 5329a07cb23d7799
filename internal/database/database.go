// Package database provides SQLite persistence for generated maps and for
// the diagnostics of aborted runs.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Memory opens a private in-memory store that vanishes on Close.
const Memory = ":memory:"

// DB wraps the SQLite database connection.
type DB struct {
	conn    *sql.DB
	version int
}

// New opens the map store at path, creating the file and its directory when
// missing. An empty path or Memory keeps everything in memory.
func New(path string) (*DB, error) {
	dsn, err := dataSource(path)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory store lives exactly as long as its single connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}
	if db.version, err = db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func dataSource(path string) (string, error) {
	if path == "" || path == Memory {
		return "file::memory:?_pragma=foreign_keys(1)", nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Version is the newest schema migration applied to the store.
func (db *DB) Version() int {
	return db.version
}

// migrate applies the pending migrations in order and returns the schema
// version the store ends up at.
func (db *DB) migrate() (int, error) {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return 0, err
	}

	var version int
	if err := db.conn.QueryRow(`SELECT COALESCE(MAX(id), 0) FROM migrations`).Scan(&version); err != nil {
		return 0, err
	}
	for _, m := range migrations {
		if m.id <= version {
			continue
		}
		if err := db.apply(m); err != nil {
			return version, fmt.Errorf("migration %d (%s) failed: %w", m.id, m.name, err)
		}
		version = m.id
	}
	return version, nil
}

func (db *DB) apply(m migration) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO migrations (id, name) VALUES (?, ?)", m.id, m.name); err != nil {
		return err
	}
	return tx.Commit()
}
