// Package memstore keeps sessions in process memory.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/studyhub/core/session"
)

type entry struct {
	val       []byte
	expiresAt time.Time // zero: never
}

type Store struct {
	sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

var _ session.Store = (*Store)(nil)

func New() *Store {
	return &Store{entries: make(map[string]entry), now: time.Now}
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Get drops the entry of key once expired.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.Lock()
	defer s.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, session.ErrNoSession
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		return nil, session.ErrNoSession
	}
	val := make([]byte, len(e.val))
	copy(val, e.val)
	return val, nil
}

// Set also sweeps the expired entries of keys never read again.
func (s *Store) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	s.Lock()
	defer s.Unlock()

	now := s.now()
	for k, old := range s.entries {
		if old.expired(now) {
			delete(s.entries, k)
		}
	}

	e := entry{val: make([]byte, len(val))}
	copy(e.val, val)
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.Lock()
	defer s.Unlock()
	delete(s.entries, key)
	return nil
}
