package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/store"
	"github.com/idilsaglam/todolist/internal/store/storetest"
)

func TestConformance(t *testing.T) {
	s, err := New(t.TempDir(), "todos")
	require.NoError(t, err)
	storetest.Run(t, s)
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := New(dir, "todos")
	require.NoError(t, err)

	require.NoError(t, s.Save("[]"))
	assert.Equal(t, filepath.Join(dir, "todos.json"), s.Path())

	b, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, "todos")
	require.NoError(t, err)
	require.NoError(t, s.Save(`[{"text":"a","completed":true}]`))

	again, err := New(dir, "todos")
	require.NoError(t, err)
	v, ok, err := again.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"text":"a","completed":true}]`, v)
}

func TestKeysAreSeparate(t *testing.T) {
	dir := t.TempDir()
	a, _ := New(dir, "work")
	b, _ := New(dir, "home")
	require.NoError(t, a.Save("[]"))

	_, ok, err := b.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveFailure(t *testing.T) {
	// a regular file where the directory should be
	parent := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	s, err := New(filepath.Join(parent, "data"), "todos")
	require.NoError(t, err)
	err = s.Save("[]")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStorage)
}

func TestEmptyKey(t *testing.T) {
	_, err := New(t.TempDir(), "")
	assert.Error(t, err)
}

func TestKeyMustBeFileName(t *testing.T) {
	for _, key := range []string{"team/todos", `team\todos`, "..", "../todos", "a..b"} {
		_, err := New(t.TempDir(), key)
		assert.Error(t, err, key)
	}
	for _, key := range []string{"todos", "work-2024", "a.b"} {
		s, err := New(t.TempDir(), key)
		require.NoError(t, err, key)
		assert.NoError(t, s.Save("[]"), key)
	}
}
