package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/store/memstore"
	"github.com/idilsaglam/todolist/internal/todolist"
	"github.com/idilsaglam/todolist/internal/ui"
)

type result struct {
	code           int
	stdout, stderr string
}

// setup isolates config discovery and returns a data dir for the file backend.
func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"TODOLIST_BACKEND", "TODOLIST_DATA_DIR", "TODOLIST_KEY", "TODOLIST_SQLITE_PATH", "TODOLIST_LOG_LEVEL", "TODOLIST_THEME"} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
	return t.TempDir()
}

func run(t *testing.T, dataDir string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--data-dir", dataDir, "--theme", "mono"}, args...)
	code := Run(full, Options{Stdout: &out, Stderr: &errOut})
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func snapshot(t *testing.T, dataDir string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dataDir, "todos.json"))
	require.NoError(t, err)
	return string(b)
}

func TestAddToggleRemoveClear(t *testing.T) {
	dir := setup(t)

	r := run(t, dir, "add", "Buy", "milk")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added")
	assert.Equal(t, `[{"text":"Buy milk","completed":false}]`, snapshot(t, dir))

	r = run(t, dir, "done", "1")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "toggled")
	assert.Equal(t, `[{"text":"Buy milk","completed":true}]`, snapshot(t, dir))

	require.Equal(t, 0, run(t, dir, "add", "Walk dog").code)
	assert.Equal(t, `[{"text":"Buy milk","completed":true},{"text":"Walk dog","completed":false}]`, snapshot(t, dir))

	r = run(t, dir, "rm", "1")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, `[{"text":"Walk dog","completed":false}]`, snapshot(t, dir))

	r = run(t, dir, "clear")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "cleared 1 item(s)")
	assert.Equal(t, `[]`, snapshot(t, dir))
}

func TestAddKeepsWhitespace(t *testing.T) {
	dir := setup(t)

	r := run(t, dir, "add", "  ")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, `[{"text":"  ","completed":false}]`, snapshot(t, dir))
}

func TestAddEmpty(t *testing.T) {
	dir := setup(t)

	assert.Equal(t, 2, run(t, dir, "add").code)
	r := run(t, dir, "add", "")
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.stderr, "empty text")
	_, err := os.Stat(filepath.Join(dir, "todos.json"))
	assert.True(t, os.IsNotExist(err), "nothing should be written")
}

func TestIndexArguments(t *testing.T) {
	dir := setup(t)
	require.Equal(t, 0, run(t, dir, "add", "a").code)
	require.Equal(t, 0, run(t, dir, "add", "b").code)
	before := snapshot(t, dir)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"out of range", []string{"done", "5"}, "index out of range: have 2, got 5"},
		{"zero", []string{"rm", "0"}, "index out of range: have 2, got 0"},
		{"not a number", []string{"done", "two"}, "done: not a number: two"},
		{"missing", []string{"rm"}, "usage: todo rm <index>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, dir, tt.args...)
			assert.Equal(t, 2, r.code)
			assert.Contains(t, r.stderr, tt.want)
		})
	}
	assert.Equal(t, before, snapshot(t, dir))
}

func TestList(t *testing.T) {
	dir := setup(t)
	require.Equal(t, 0, run(t, dir, "add", "Buy milk").code)
	require.Equal(t, 0, run(t, dir, "add", "Walk dog").code)
	require.Equal(t, 0, run(t, dir, "done", "1").code)

	r := run(t, dir, "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Todos  x 1  - 1  Total 2")
	assert.Contains(t, r.stdout, " 1. [x] Buy milk")
	assert.Contains(t, r.stdout, " 2. [ ] Walk dog")
}

func TestListGroupedKeepsNumbers(t *testing.T) {
	dir := setup(t)
	require.Equal(t, 0, run(t, dir, "add", "first").code)
	require.Equal(t, 0, run(t, dir, "add", "second").code)
	require.Equal(t, 0, run(t, dir, "done", "1").code)

	r := run(t, dir, "--group", "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Pending")
	assert.Contains(t, r.stdout, " 2. [ ] second")
	assert.Contains(t, r.stdout, "Done")
	assert.Contains(t, r.stdout, " 1. [x] first")
}

func TestListEmpty(t *testing.T) {
	dir := setup(t)
	r := run(t, dir, "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "no items")
}

func TestCorruptSnapshot(t *testing.T) {
	dir := setup(t)
	path := filepath.Join(dir, "todos.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	r := run(t, dir, "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stderr, "stored list was unreadable")
	assert.Contains(t, r.stdout, "no items")
	assert.Equal(t, "not json", snapshot(t, dir), "reading alone must not rewrite")

	r = run(t, dir, "export")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "not json\n", r.stdout, "export shows the unreadable value as stored")

	require.Equal(t, 0, run(t, dir, "add", "fresh start").code)
	assert.Equal(t, `[{"text":"fresh start","completed":false}]`, snapshot(t, dir))
}

func TestUnreadableStore(t *testing.T) {
	setup(t)
	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	r := run(t, filepath.Join(blocked, "data"), "add", "lost")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "load:")
}

func TestSaveFailureReported(t *testing.T) {
	var out, errOut bytes.Buffer
	r := &runner{out: ui.NewPrinter(&out, &errOut, ui.ThemeByName("mono"), false)}

	st := memstore.New("todos")
	m := todolist.New(st, todolist.WithLogger(log.New(io.Discard)))
	require.NoError(t, m.Initialize())

	st.FailSaves(true)
	m.SetPendingInput("lost")
	require.True(t, m.Commit())
	assert.Equal(t, 1, r.persisted(m, "added"))
	assert.Contains(t, errOut.String(), "save:")
	assert.Contains(t, errOut.String(), "the change was not stored")
	assert.Empty(t, out.String())

	st.FailSaves(false)
	m.DeleteAll()
	assert.Equal(t, 0, r.persisted(m, "cleared"))
	assert.Contains(t, out.String(), "cleared")
}

func TestExport(t *testing.T) {
	dir := setup(t)
	require.Equal(t, 0, run(t, dir, "add", "a <b>").code)

	r := run(t, dir, "export")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, `[{"text":"a <b>","completed":false}]`+"\n", r.stdout)
}

func TestEphemeral(t *testing.T) {
	dir := setup(t)
	r := run(t, dir, "--ephemeral", "add", "gone")
	require.Equal(t, 0, r.code, r.stderr)

	_, err := os.Stat(filepath.Join(dir, "todos.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestKeyWithSeparatorRejected(t *testing.T) {
	dir := setup(t)
	r := run(t, dir, "--key", "team/todos", "add", "x")
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.stderr, "plain file name")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSQLiteBackend(t *testing.T) {
	dir := setup(t)
	require.Equal(t, 0, run(t, dir, "--backend", "sqlite", "add", "in a table").code)

	r := run(t, dir, "--backend", "sqlite", "export")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, `[{"text":"in a table","completed":false}]`+"\n", r.stdout)
}

func TestUsage(t *testing.T) {
	dir := setup(t)

	r := run(t, dir)
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.stderr, "Usage:")

	r = run(t, dir, "frobnicate")
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.stderr, "unknown subcommand: frobnicate")

	r = run(t, dir, "help")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "Subcommands:")

	r = run(t, dir, "--backend", "etcd", "ls")
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.stderr, "unknown store backend")
}
