// Package backends picks a store.Adapter from configuration.
package backends

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/store"
	"github.com/idilsaglam/todolist/internal/store/filestore"
	"github.com/idilsaglam/todolist/internal/store/memstore"
	"github.com/idilsaglam/todolist/internal/store/redisstore"
	"github.com/idilsaglam/todolist/internal/store/sqlitestore"
)

// Open builds the adapter named by cfg.Store.Backend. The returned close
// func is never nil.
func Open(cfg *config.Config, logger *log.Logger) (store.Adapter, func() error, error) {
	noop := func() error { return nil }
	sc := cfg.Store

	switch sc.Backend {
	case config.BackendFile:
		s, err := filestore.New(sc.DataDir, sc.Key)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("using file store", "path", s.Path())
		return s, noop, nil

	case config.BackendSQLite:
		s, err := sqlitestore.Open(sc.SQLitePath, sc.Key, cfg.StoreTimeout, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("sqlite store: %w", err)
		}
		return s, s.Close, nil

	case config.BackendRedis:
		s, err := redisstore.Dial(sc.RedisAddr, sc.RedisPrefix, sc.Key, cfg.StoreTimeout)
		if err != nil {
			return nil, noop, fmt.Errorf("redis store: %w", err)
		}
		logger.Debug("using redis store", "addr", sc.RedisAddr, "key", s.Key())
		return s, s.Close, nil

	case config.BackendMemory:
		logger.Debug("using memory store; nothing will be kept")
		return memstore.New(sc.Key), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown store backend %q", sc.Backend)
}
