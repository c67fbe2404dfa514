// Package storage persists versioned JSON documents in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Store keeps JSON payloads keyed by (kind, id). Every write bumps the row's version.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a store over the resource_state table.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the payload and version of a document, or nil and 0 if absent.
func (s *Store) Get(kind, id string) (payload []byte, version int64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err = s.db.QueryRow(`
		SELECT payload, version FROM resource_state
		WHERE kind = ? AND id = ?
	`, kind, id).Scan(&raw, &version)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return []byte(raw), version, nil
}

// Set upserts a document and returns its new version.
func (s *Store) Set(kind, id string, payload []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var version int64
	err := s.db.QueryRow(`
		INSERT INTO resource_state (kind, id, payload, version, updated_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			payload = excluded.payload,
			version = version + 1,
			updated_at = excluded.updated_at
		RETURNING version
	`, kind, id, string(payload), time.Now().UTC().Unix()).Scan(&version)
	if err != nil {
		return 0, err
	}

	log.Debug().Str("kind", kind).Str("id", id).Int64("version", version).Msg("State saved")
	return version, nil
}

// Delete removes one document.
func (s *Store) Delete(kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM resource_state WHERE kind = ? AND id = ?`, kind, id)
	return err
}

// Clear removes every document of kind, or everything when kind is empty.
func (s *Store) Clear(kind string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		res sql.Result
		err error
	)
	if kind == "" {
		res, err = s.db.Exec(`DELETE FROM resource_state`)
	} else {
		res, err = s.db.Exec(`DELETE FROM resource_state WHERE kind = ?`, kind)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetAll returns every document of kind with its version.
func (s *Store) GetAll(kind string) (map[string][]byte, map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, payload, version FROM resource_state WHERE kind = ?
	`, kind)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	payloads := make(map[string][]byte)
	versions := make(map[string]int64)
	for rows.Next() {
		var (
			id, raw string
			version int64
		)
		if err := rows.Scan(&id, &raw, &version); err != nil {
			return nil, nil, err
		}
		payloads[id] = []byte(raw)
		versions[id] = version
	}
	return payloads, versions, rows.Err()
}
