package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at an empty temp dir, clears
// TODOLIST_* and runs from a fresh working directory.
func isolate(t *testing.T) (userDir, workDir string) {
	t.Helper()
	userDir = t.TempDir()
	workDir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", userDir)
	for _, k := range []string{
		"TODOLIST_BACKEND", "TODOLIST_DATA_DIR", "TODOLIST_KEY", "TODOLIST_SQLITE_PATH",
		"TODOLIST_REDIS_ADDR", "TODOLIST_LOG_LEVEL", "TODOLIST_THEME",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(workDir)
	return userDir, workDir
}

func load(t *testing.T, args ...string) (*Config, []string, error) {
	t.Helper()
	return Load(flag.NewFlagSet("test", flag.ContinueOnError), args)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg, rest, err := load(t, "ls")
	require.NoError(t, err)

	assert.Equal(t, []string{"ls"}, rest)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "todos", cfg.Store.Key)
	assert.Equal(t, "todolist.db", cfg.Store.SQLitePath)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "classic", cfg.UI.Theme)
	assert.False(t, cfg.UI.Group)
	assert.Empty(t, cfg.ConfigFiles)
}

func TestLayering(t *testing.T) {
	userDir, _ := isolate(t)

	writeFile(t, filepath.Join(userDir, "todolist", "todolist.toml"), `
[store]
backend = "sqlite"
key = "user-key"
data_dir = "/tmp/user"

[ui]
theme = "neon"
`)
	writeFile(t, "todolist.toml", `
[store]
key = "project-key"

[log]
level = "debug"
`)
	t.Setenv("TODOLIST_THEME", "mono")

	cfg, _, err := load(t, "--key", "flag-key", "ls")
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend, "from user file")
	assert.Equal(t, "/tmp/user", cfg.Store.DataDir, "from user file")
	assert.Equal(t, filepath.Join("/tmp/user", "todolist.db"), cfg.Store.SQLitePath)
	assert.Equal(t, "debug", cfg.Log.Level, "from project file")
	assert.Equal(t, "mono", cfg.UI.Theme, "env beats files")
	assert.Equal(t, "flag-key", cfg.Store.Key, "flags beat everything")
	assert.Len(t, cfg.ConfigFiles, 2)
}

func TestExplicitConfigFile(t *testing.T) {
	isolate(t)
	writeFile(t, "todolist.toml", "[store]\nkey = \"project\"\n")
	other := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, other, "[store]\nkey = \"custom\"\n")

	cfg, _, err := load(t, "--config", other)
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Store.Key)

	_, _, err = load(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestEphemeral(t *testing.T) {
	isolate(t)
	t.Setenv("TODOLIST_BACKEND", "sqlite")

	cfg, _, err := load(t, "--ephemeral")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
}

func TestGroupFlag(t *testing.T) {
	isolate(t)
	cfg, _, err := load(t, "--group", "ls")
	require.NoError(t, err)
	assert.True(t, cfg.UI.Group)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		args []string
	}{
		{"unknown backend", "", []string{"--backend", "etcd"}},
		{"empty key", "", []string{"--key", " "}},
		{"file key with separator", "", []string{"--key", "team/todos"}},
		{"file key with dots", "", []string{"--key", "../todos"}},
		{"bad timeout", "[store]\ntimeout = \"soon\"\n", nil},
		{"negative timeout", "[store]\ntimeout = \"-1s\"\n", nil},
		{"unknown key", "[store]\nbackend = \"file\"\ncolour = \"red\"\n", nil},
		{"bad toml", "[store\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if tt.file != "" {
				writeFile(t, "todolist.toml", tt.file)
			}
			_, _, err := load(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestNestedKeyOutsideFileBackend(t *testing.T) {
	isolate(t)
	cfg, _, err := load(t, "--backend", "sqlite", "--key", "team/todos")
	require.NoError(t, err)
	assert.Equal(t, "team/todos", cfg.Store.Key)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("TODOLIST_TEST_DIR", "/srv/todo")

	assert.Equal(t, "", expandPath(""))
	assert.Equal(t, home, expandPath("~"))
	assert.Equal(t, filepath.Join(home, "todos"), expandPath("~/todos"))
	assert.Equal(t, "/srv/todo/data", expandPath("$TODOLIST_TEST_DIR/data"))
	assert.Equal(t, "relative/dir", expandPath("relative/dir"))
}
