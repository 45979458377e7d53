// Package redisstore keeps sessions in redis.
package redisstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/studyhub/core/session"
)

const keyPrefix = "session:"

type Store struct {
	client *redis.Client
}

var _ session.Store = (*Store)(nil)

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Open connects to the redis server at addr.
func Open(ctx context.Context, addr string) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "pinging redis at %s", addr)
	}
	return New(client), nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNoSession
		}
		return nil, errors.Wrap(err, "redis get")
	}
	return data, nil
}

func (s *Store) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return errors.Wrap(s.client.Set(ctx, keyPrefix+key, val, ttl).Err(), "redis set")
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return errors.Wrap(s.client.Del(ctx, keyPrefix+key).Err(), "redis del")
}

func (s *Store) Close() error {
	return s.client.Close()
}
