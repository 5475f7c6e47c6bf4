package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Flags holds the root flag values bound to a FlagSet by BindFlags.
type Flags struct {
	fs        *flag.FlagSet
	config    *string
	backend   *string
	dataDir   *string
	key       *string
	logLevel  *string
	theme     *string
	group     *bool
	ephemeral *bool
}

// BindFlags registers the root flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:        fs,
		config:    fs.String("config", "", "path to a config file (replaces the project config lookup)"),
		backend:   fs.String("backend", "", "storage backend: file, sqlite, redis, memory"),
		dataDir:   fs.String("data-dir", "", "directory for file and sqlite backends"),
		key:       fs.String("key", "", "storage key for the snapshot"),
		logLevel:  fs.String("log-level", "", "log level: debug, info, warn, error"),
		theme:     fs.String("theme", "", "output theme: classic, neon, mono"),
		group:     fs.Bool("group", false, "group output by pending/done"),
		ephemeral: fs.Bool("ephemeral", false, "keep the list in memory only"),
	}
}

// Load parses args into the flag set and builds the config from every source.
// It returns the positional arguments left after the flags.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	f := BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}
	cfg, err := f.Resolve()
	if err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

// Resolve layers defaults, files, env and the already-parsed flags.
func (f *Flags) Resolve() (*Config, error) {
	cfg := &Config{}

	// 1. Defaults
	setDefaults(cfg)

	// 2. User config file
	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}

	// 3. Explicit or project config file
	projectFile := findProjectConfigFile()
	if *f.config != "" {
		projectFile = expandPath(*f.config)
		if _, err := os.Stat(projectFile); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}
	if projectFile != "" {
		if err := loadConfigFile(cfg, projectFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectFile, err)
		}
	}

	// 4. Environment
	loadFromEnv(cfg)

	// 5. Flags, only those set explicitly
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "backend":
			cfg.Store.Backend = *f.backend
		case "data-dir":
			cfg.Store.DataDir = *f.dataDir
		case "key":
			cfg.Store.Key = *f.key
		case "log-level":
			cfg.Log.Level = *f.logLevel
		case "theme":
			cfg.UI.Theme = *f.theme
		case "group":
			cfg.UI.Group = *f.group
		case "ephemeral":
			if *f.ephemeral {
				cfg.Store.Backend = BackendMemory
			}
		}
	})

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.ConfigFiles = append(cfg.ConfigFiles, path)
	return nil
}

// loadFromEnv overrides config from TODOLIST_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODOLIST_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("TODOLIST_DATA_DIR"); v != "" {
		cfg.Store.DataDir = v
	}
	if v := os.Getenv("TODOLIST_KEY"); v != "" {
		cfg.Store.Key = v
	}
	if v := os.Getenv("TODOLIST_SQLITE_PATH"); v != "" {
		cfg.Store.SQLitePath = v
	}
	if v := os.Getenv("TODOLIST_REDIS_ADDR"); v != "" {
		cfg.Store.RedisAddr = v
	}
	if v := os.Getenv("TODOLIST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TODOLIST_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

func findUserConfigFile() string {
	dir := userConfigDir()
	if dir == "" {
		return ""
	}
	p := filepath.Join(dir, userConfigDirName, configFileName)
	if fileExists(p) {
		return p
	}
	return ""
}

func findProjectConfigFile() string {
	for _, name := range []string{configFileName, "." + configFileName} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

func userConfigDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

// expandPath expands ~/ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
