package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, expiration time.Duration) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "cache.db"), expiration)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestPutGet(t *testing.T) {
	m := newTestManager(t, 0)

	_, ok, err := m.Get("laps?session_key=9158")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put("laps?session_key=9158", []byte(`[{"lap_number":1}]`)))
	body, ok, err := m.Get("laps?session_key=9158")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"lap_number":1}]`, string(body))
}

func TestPutReplaces(t *testing.T) {
	m := newTestManager(t, 0)
	require.NoError(t, m.Put("k", []byte("a")))
	require.NoError(t, m.Put("k", []byte("b")))
	body, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", string(body))
}

func TestExpiration(t *testing.T) {
	m := newTestManager(t, time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	require.NoError(t, m.Put("k", []byte("a")))

	now = now.Add(30 * time.Minute)
	_, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Hour)
	_, ok, err = m.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPurge(t *testing.T) {
	m := newTestManager(t, 0)
	require.NoError(t, m.Put("a", []byte("1")))
	require.NoError(t, m.Put("b", []byte("2")))

	n, err := m.Purge()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, ok, err := m.Get("a")
	require.NoError(t, err)
	assert.False(t, ok)
}
