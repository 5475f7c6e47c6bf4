// Package store defines the key-value contract the todo list persists through.
//
// Every backend is bound to a single fixed key when it is constructed, so
// callers only ever see Load and Save. Backends live in subpackages.
package store

import (
	"errors"
	"fmt"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "todos"

// Adapter is a synchronous key-value slot for one serialized snapshot.
type Adapter interface {
	// Load returns the stored value. A missing key is ok=false with a nil error.
	Load() (value string, ok bool, err error)
	// Save overwrites the stored value.
	Save(value string) error
}

// ErrStorage matches any *StorageError with errors.Is.
var ErrStorage = errors.New("storage error")

// StorageError reports that a backend could not read or write its slot.
type StorageError struct {
	Op      string // "load" | "save"
	Backend string
	Key     string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s[%s]: %v", e.Op, e.Backend, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Fail builds a *StorageError; nil err yields nil.
func Fail(op, backend, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Backend: backend, Key: key, Err: err}
}
