// Package storetest checks that a store.Adapter behaves like a single
// overwrite-in-place slot.
package storetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/store"
)

// Run exercises a fresh, empty adapter.
func Run(t *testing.T, s store.Adapter) {
	t.Helper()

	v, ok, err := s.Load()
	require.NoError(t, err, "missing key must not error")
	assert.False(t, ok)
	assert.Equal(t, "", v)

	first := `[{"text":"Buy milk","completed":false}]`
	require.NoError(t, s.Save(first))
	v, ok, err = s.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, v)

	second := `[]`
	require.NoError(t, s.Save(second))
	v, ok, err = s.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, second, v, "save overwrites")

	require.NoError(t, s.Save(""))
	v, ok, err = s.Load()
	require.NoError(t, err)
	assert.True(t, ok, "an empty value is still a stored value")
	assert.Equal(t, "", v)
}
