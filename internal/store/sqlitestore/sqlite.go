// Package sqlitestore persists the snapshot in a SQLite key-value table
// using modernc.org/sqlite.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/idilsaglam/todolist/internal/store"
)

const backendName = "sqlite"

// Store implements store.Adapter over a single row of the kv table.
type Store struct {
	db      *sql.DB
	key     string
	timeout time.Duration
	logger  *log.Logger
}

// Open creates or opens the database at path. The schema is created if it
// doesn't exist, and parent directories are created if needed.
func Open(path, key string, timeout time.Duration, logger *log.Logger) (*Store, error) {
	if key == "" {
		return nil, fmt.Errorf("sqlitestore: empty key")
	}
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("component", "store", "backend", backendName)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one writer; the list is only ever touched by one session
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger.Debug("sqlite store initialized", "path", path)
	return &Store{db: db, key: key, timeout: timeout, logger: logger}, nil
}

func (s *Store) Load() (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, store.Fail("load", backendName, s.key, fmt.Errorf("querying snapshot: %w", err))
	}
	return value, true, nil
}

// Save uses INSERT OR REPLACE so the first write and every later one share a path.
func (s *Store) Save(value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `
		INSERT OR REPLACE INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, s.key, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return store.Fail("save", backendName, s.key, fmt.Errorf("saving snapshot: %w", err))
	}
	s.logger.Debug("saved snapshot", "key", s.key, "size", len(value))
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
