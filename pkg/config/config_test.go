package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.True(t, cfg.Cache.Read)
	assert.Equal(t, 640, cfg.Landmark.InputSize)
	assert.Equal(t, []string{"python3", "tracker/track.py"}, cfg.Tracker.Command)
	assert.Equal(t, 24.0, cfg.Video.FPS)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
http:
  port: 9000
cache:
  backend: sqlite
  path: /tmp/cache.db
landmark:
  enabled: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	t.Setenv("PITCH_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, "/tmp/cache.db", cfg.Cache.Path)
	assert.False(t, cfg.Landmark.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("cache:\n  backend: redis\n"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}
