package storage

import (
	"encoding/json"
	"fmt"
)

// Typed is a Store view holding values of one Go type under one kind.
type Typed[T any] struct {
	store *Store
	kind  string
}

// NewTyped creates a typed view for kind.
func NewTyped[T any](store *Store, kind string) *Typed[T] {
	return &Typed[T]{store: store, kind: kind}
}

// Kind returns the kind this view reads and writes.
func (s *Typed[T]) Kind() string {
	return s.kind
}

// Load returns the value for id. ok is false when nothing is stored.
func (s *Typed[T]) Load(id string) (value T, ok bool, err error) {
	payload, _, err := s.store.Get(s.kind, id)
	if err != nil || payload == nil {
		return value, false, err
	}
	if err := json.Unmarshal(payload, &value); err != nil {
		return value, false, fmt.Errorf("failed to unmarshal %s %q: %w", s.kind, id, err)
	}
	return value, true, nil
}

// Save stores value under id and returns the new version.
func (s *Typed[T]) Save(id string, value T) (int64, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal %s %q: %w", s.kind, id, err)
	}
	return s.store.Set(s.kind, id, payload)
}

// LoadAll returns every stored value.
func (s *Typed[T]) LoadAll() (map[string]T, error) {
	payloads, _, err := s.store.GetAll(s.kind)
	if err != nil {
		return nil, err
	}

	values := make(map[string]T, len(payloads))
	for id, payload := range payloads {
		var value T
		if err := json.Unmarshal(payload, &value); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s %q: %w", s.kind, id, err)
		}
		values[id] = value
	}
	return values, nil
}

// Delete removes the value for id.
func (s *Typed[T]) Delete(id string) error {
	return s.store.Delete(s.kind, id)
}

// Clear removes every value of this kind and returns how many were removed.
func (s *Typed[T]) Clear() (int64, error) {
	return s.store.Clear(s.kind)
}
