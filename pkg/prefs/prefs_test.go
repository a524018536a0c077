package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := NewMemory()

	got, err := m.Get("!00000001")
	require.NoError(t, err)
	assert.Equal(t, Default("!00000001"), got)

	got.RespondToTesting = true
	require.NoError(t, m.Put(got))

	again, err := m.Get("!00000001")
	require.NoError(t, err)
	assert.True(t, again.RespondToTesting)

	again.RespondToTesting = false

	stored, err := m.Get("!00000001")
	require.NoError(t, err)
	assert.True(t, stored.RespondToTesting, "callers get a copy")
}
