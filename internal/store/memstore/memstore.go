// Package memstore keeps the snapshot in process memory.
package memstore

import (
	"errors"
	"sync"

	"github.com/idilsaglam/todolist/internal/store"
)

const backendName = "memory"

// ErrUnavailable is returned by Save while FailSaves is on.
var ErrUnavailable = errors.New("storage unavailable")

type Store struct {
	mu    sync.Mutex
	key   string
	value string
	set   bool
	fail  bool
	saves int
}

func New(key string) *Store {
	return &Store{key: key}
}

// Prime stores value without counting it as a save.
func (s *Store) Prime(value string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value, s.set = value, true
	return s
}

// FailSaves makes every following Save fail until switched off.
func (s *Store) FailSaves(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

// Saves counts successful and failed Save calls.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *Store) Load() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set, nil
}

func (s *Store) Save(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.fail {
		return store.Fail("save", backendName, s.key, ErrUnavailable)
	}
	s.value, s.set = value, true
	return nil
}
