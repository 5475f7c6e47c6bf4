// Package redisstore persists the snapshot as a single Redis string.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/idilsaglam/todolist/internal/store"
)

const backendName = "redis"

type Store struct {
	client  redis.UniversalClient
	key     string
	timeout time.Duration
}

// New wraps an existing client. The stored key is prefix+key.
func New(client redis.UniversalClient, prefix, key string, timeout time.Duration) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redisstore: nil client")
	}
	if key == "" {
		return nil, fmt.Errorf("redisstore: empty key")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{client: client, key: prefix + key, timeout: timeout}, nil
}

// Dial connects to addr and pings it before returning.
func Dial(addr, prefix, key string, timeout time.Duration) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	s, err := New(client, prefix, key, timeout)
	if err != nil {
		client.Close()
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return s, nil
}

// Key is the full Redis key, prefix included.
func (s *Store) Key() string { return s.key }

func (s *Store) Load() (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	v, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, store.Fail("load", backendName, s.key, err)
	}
	return v, true, nil
}

func (s *Store) Save(value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.key, value, 0).Err(); err != nil {
		return store.Fail("save", backendName, s.key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
