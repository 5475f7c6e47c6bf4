package todolist

import (
	"errors"
	"fmt"
)

var (
	// ErrDataCorruption matches any *DataCorruptionError.
	ErrDataCorruption = errors.New("snapshot is corrupt")
	// ErrIndexOutOfRange matches any *IndexError.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInitialized is returned by a second call to Initialize.
	ErrInitialized = errors.New("todo list already initialized")
)

// DataCorruptionError means a stored snapshot existed but could not be decoded.
// The list was started empty; Raw holds what was discarded.
type DataCorruptionError struct {
	Raw string
	Err error
}

func (e *DataCorruptionError) Error() string {
	return fmt.Sprintf("discarded corrupt snapshot (%d bytes): %v", len(e.Raw), e.Err)
}

func (e *DataCorruptionError) Unwrap() error { return e.Err }

func (e *DataCorruptionError) Is(target error) bool { return target == ErrDataCorruption }

// IndexError is a toggle or delete aimed outside the list.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index out of range: have %d, got %d", e.Op, e.Len, e.Index)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }
