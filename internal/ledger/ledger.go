// Package ledger keeps an append-only history of applied selection changes.
package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Source says what caused a recorded change.
type Source string

const (
	// SourceButton is a transition of an ungrouped button.
	SourceButton Source = "button"
	// SourceGroup is a transition requested on a group member. The payload
	// carries the group's selection after coordination.
	SourceGroup Source = "group"
	// SourceRestore is a state loaded from storage.
	SourceRestore Source = "restore"
)

// Entry is a single recorded change.
type Entry struct {
	ID        int64
	Timestamp time.Time
	ButtonID  string
	Group     string
	Selected  bool
	Source    Source
	Payload   map[string]any
}

// Ledger appends and queries selection history.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a Ledger using the provided database connection
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// Record appends a change. payload may be nil.
func (l *Ledger) Record(buttonID, group string, selected bool, source Source, payload map[string]any) error {
	var data []byte
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
	}

	_, err := l.db.Exec(`
		INSERT INTO selection_ledger (timestamp, button_id, group_name, selected, source, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`, l.now().UTC().UnixMilli(), buttonID, group, selected, string(source), string(data))
	if err != nil {
		return fmt.Errorf("failed to record selection: %w", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (l *Ledger) Recent(limit int) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, timestamp, button_id, group_name, selected, source, payload
		FROM selection_ledger
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ForGroup returns the newest entries of one group first.
func (l *Ledger) ForGroup(group string, limit int) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, timestamp, button_id, group_name, selected, source, payload
		FROM selection_ledger
		WHERE group_name = ?
		ORDER BY id DESC
		LIMIT ?
	`, group, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// DeleteOlderThan removes entries older than retention.
func (l *Ledger) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := l.now().Add(-retention).UTC().UnixMilli()
	result, err := l.db.Exec(`DELETE FROM selection_ledger WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var (
			entry          Entry
			ts             int64
			group, payload sql.NullString
			source         sql.NullString
		)
		if err := rows.Scan(&entry.ID, &ts, &entry.ButtonID, &group, &entry.Selected, &source, &payload); err != nil {
			return nil, err
		}

		entry.Timestamp = time.UnixMilli(ts).UTC()
		entry.Group = group.String
		entry.Source = Source(source.String)

		if payload.Valid && payload.String != "" {
			entry.Payload = make(map[string]any)
			if err := json.Unmarshal([]byte(payload.String), &entry.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
