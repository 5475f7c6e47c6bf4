package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/todolist/internal/store"
)

// Each key is one <key>.json file holding the snapshot exactly as saved.
// Saves go to a temp file in the same directory which is then renamed over
// the old one. There is no cross-process locking; the last writer wins.

const backendName = "file"

// Store keeps the snapshot in <dir>/<key>.json.
type Store struct {
	dir string
	key string
}

// New returns a file store rooted at dir. An empty dir means the working directory.
func New(dir, key string) (*Store, error) {
	if key == "" {
		return nil, fmt.Errorf("filestore: empty key")
	}
	if err := CheckKey(key); err != nil {
		return nil, err
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		dir = wd
	}
	return &Store{dir: dir, key: key}, nil
}

// CheckKey rejects keys that are not a plain file name.
func CheckKey(key string) error {
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("filestore: key %q must be a plain file name", key)
	}
	return nil
}

// Path is the file backing the key.
func (s *Store) Path() string {
	return filepath.Join(s.dir, s.key+".json")
}

func (s *Store) Load() (string, bool, error) {
	b, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, store.Fail("load", backendName, s.key, fmt.Errorf("read file: %w", err))
	}
	return string(b), true, nil
}

func (s *Store) Save(value string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return store.Fail("save", backendName, s.key, fmt.Errorf("mkdir: %w", err))
	}
	// write to a sibling temp file and rename so readers never see half a snapshot
	tmp, err := os.CreateTemp(s.dir, "."+s.key+"-*.tmp")
	if err != nil {
		return store.Fail("save", backendName, s.key, fmt.Errorf("create temp: %w", err))
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return store.Fail("save", backendName, s.key, fmt.Errorf("write file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return store.Fail("save", backendName, s.key, fmt.Errorf("close file: %w", err))
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return store.Fail("save", backendName, s.key, fmt.Errorf("chmod: %w", err))
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		os.Remove(tmpName)
		return store.Fail("save", backendName, s.key, fmt.Errorf("rename: %w", err))
	}
	return nil
}
