// Package filestore keeps one session per file in a directory, so sessions survive restarts.
package filestore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core/session"
)

var nowFunc = time.Now // mockable

type record struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

type Store struct {
	mu  sync.Mutex
	dir string
}

var _ session.Store = (*Store)(nil)

// New returns a Store writing into dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "creating session dir %s", dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, base64.RawURLEncoding.EncodeToString([]byte(key))+".json")
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, session.ErrNoSession
		}
		return nil, errors.Wrap(err, "reading session file")
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "decoding session file")
	}
	if !rec.ExpiresAt.IsZero() && !nowFunc().Before(rec.ExpiresAt) {
		_ = os.Remove(s.path(key))
		return nil, session.ErrNoSession
	}
	return rec.Value, nil
}

func (s *Store) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := record{Value: val}
	if ttl > 0 {
		rec.ExpiresAt = nowFunc().Add(ttl)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encoding session file")
	}

	// write then rename so readers never see a partial file
	tmp, err := os.CreateTemp(s.dir, ".session-*")
	if err != nil {
		return errors.Wrap(err, "creating session file")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "writing session file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "closing session file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path(key)), "renaming session file")
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
