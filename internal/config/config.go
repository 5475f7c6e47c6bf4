// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file ($XDG_CONFIG_HOME/todolist/todolist.toml or ~/.config/todolist/todolist.toml)
// 3. Project config file (todolist.toml or .todolist.toml in the working directory),
//    or the file named by --config
// 4. Environment variables (TODOLIST_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/idilsaglam/todolist/internal/store/filestore"
)

// Backend names accepted by store.backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const (
	userConfigDirName = "todolist"
	configFileName    = "todolist.toml"
	sqliteFileName    = "todolist.db"
)

// Config is the full runtime configuration.
type Config struct {
	Store StoreConfig `toml:"store"`
	Log   LogConfig   `toml:"log"`
	UI    UIConfig    `toml:"ui"`

	// Resolved values, not read from files.
	StoreTimeout time.Duration `toml:"-"`
	ConfigFiles  []string      `toml:"-"`
}

// StoreConfig selects and parameterizes the snapshot backend.
type StoreConfig struct {
	Backend     string `toml:"backend"`
	Key         string `toml:"key"`
	DataDir     string `toml:"data_dir"`
	SQLitePath  string `toml:"sqlite_path"`
	RedisAddr   string `toml:"redis_addr"`
	RedisPrefix string `toml:"redis_prefix"`
	Timeout     string `toml:"timeout"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // empty: stderr (discarded while the TUI owns the screen)
}

type UIConfig struct {
	Theme string `toml:"theme"` // classic | neon | mono
	Group bool   `toml:"group"`
}

func setDefaults(cfg *Config) {
	cfg.Store = StoreConfig{
		Backend:     BackendFile,
		Key:         "todos",
		RedisAddr:   "localhost:6379",
		RedisPrefix: "todolist:",
		Timeout:     "5s",
	}
	cfg.Log = LogConfig{Level: "info"}
	cfg.UI = UIConfig{Theme: "classic"}
}

// finalizeConfig validates and computes derived values.
func finalizeConfig(cfg *Config) error {
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	switch cfg.Store.Backend {
	case BackendFile, BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if strings.TrimSpace(cfg.Store.Key) == "" {
		return fmt.Errorf("store key is empty")
	}
	if cfg.Store.Backend == BackendFile {
		if err := filestore.CheckKey(cfg.Store.Key); err != nil {
			return err
		}
	}

	cfg.Store.DataDir = expandPath(cfg.Store.DataDir)
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = filepath.Join(cfg.Store.DataDir, sqliteFileName)
	}
	cfg.Store.SQLitePath = expandPath(cfg.Store.SQLitePath)
	cfg.Log.File = expandPath(cfg.Log.File)

	d, err := time.ParseDuration(cfg.Store.Timeout)
	if err != nil {
		return fmt.Errorf("store timeout %q: %w", cfg.Store.Timeout, err)
	}
	if d <= 0 {
		return fmt.Errorf("store timeout must be positive, got %s", d)
	}
	cfg.StoreTimeout = d
	return nil
}
