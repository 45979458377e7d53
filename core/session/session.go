// Package session persists the record of the currently authenticated user.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// DefaultKey is the fixed key of a client's single session slot.
const DefaultKey = "user"

var ErrNoSession = errors.New("no session")

// Store is a key/value store holding serialized sessions.
type Store interface {
	// Get returns ErrNoSession when `key` is unknown or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores `val` under `key`. A zero ttl never expires.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	// Delete is a no-op when `key` is unknown.
	Delete(ctx context.Context, key string) error
}

// Slot is a single persisted session record.
type Slot struct {
	store Store
	key   string
	ttl   time.Duration
}

func NewSlot(store Store, key string, ttl time.Duration) *Slot {
	return &Slot{store: store, key: key, ttl: ttl}
}

func (s *Slot) Key() string { return s.key }

// Save replaces the slot's record with v.
func (s *Slot) Save(ctx context.Context, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshalling session")
	}
	return errors.Wrap(s.store.Set(ctx, s.key, data, s.ttl), "saving session")
}

// Load decodes the slot's record into dest. It returns false when the slot is empty.
func (s *Slot) Load(ctx context.Context, dest interface{}) (bool, error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return false, nil
		}
		return false, errors.Wrap(err, "loading session")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, errors.Wrap(err, "unmarshalling session")
	}
	return true, nil
}

// Clear empties the slot.
func (s *Slot) Clear(ctx context.Context) error {
	return errors.Wrap(s.store.Delete(ctx, s.key), "clearing session")
}
