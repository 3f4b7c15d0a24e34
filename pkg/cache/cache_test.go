package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movement struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

//values whose decimal form is long, to catch lossy encodings
var sample = []movement{{0, 0}, {0.1 + 0.2, -1.0 / 3.0}, {12345.678901234567, 5e-324}}

func TestStoresRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sqlite, err := OpenSQLite(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	stores := map[string]Store{
		"file":   FileStore{},
		"sqlite": sqlite,
	}

	for name, store := range stores {
		name, store := name, store
		t.Run(name, func(t *testing.T) {
			key := filepath.Join(dir, name, "camera_movement.json")

			var got []movement
			found, err := store.Load(key, &got)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Save(key, sample))

			found, err = store.Load(key, &got)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, sample, got)

			require.NoError(t, store.Save(key, sample[:1]))
			found, err = store.Load(key, &got)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, sample[:1], got)
		})
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	s, err := Open("none", "")
	require.NoError(t, err)
	require.NoError(t, s.Save("k", 1))
	var v int
	found, err := s.Load("k", &v)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = Open("redis", "")
	assert.Error(t, err)

	_, err = Open("", "")
	assert.Error(t, err, "backend has to be named")
}
