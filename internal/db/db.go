// Package db provides the SQLite connection and schema for sctoggle.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// Open opens the database and initializes the schema
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if dbPath == Memory {
		db.SetMaxOpenConns(1)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

// initSchema creates all required tables
func initSchema(db *sql.DB) error {
	// Selection ledger - append-only history of applied selection changes
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS selection_ledger (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			button_id TEXT NOT NULL,
			group_name TEXT,
			selected INTEGER NOT NULL,
			source TEXT,
			payload TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_selection_button_ts ON selection_ledger(button_id, timestamp);
		CREATE INDEX IF NOT EXISTS idx_selection_group_ts ON selection_ledger(group_name, timestamp)
			WHERE group_name IS NOT NULL AND group_name != '';
	`)
	if err != nil {
		return fmt.Errorf("failed to create selection_ledger table: %w", err)
	}

	// Resource state - generic JSON state store keyed by (kind, id)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS resource_state (
			kind TEXT NOT NULL,
			id TEXT NOT NULL,
			payload TEXT NOT NULL,
			version INTEGER DEFAULT 1,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (kind, id)
		);
		CREATE INDEX IF NOT EXISTS idx_resource_state_kind ON resource_state(kind);
	`)
	if err != nil {
		return fmt.Errorf("failed to create resource_state table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
