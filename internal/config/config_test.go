package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, int64(32768), cfg.ReadLimit)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 120, cfg.EventRateLimit)
	assert.Equal(t, time.Second, cfg.EventRateWindow)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: debug
port: 9090
static_path: ./public
ping_period: 30s
event_rate_limit: 10
event_rate_window: 500ms
secret: sekrit
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "./public", cfg.StaticPath)
	assert.Equal(t, 30*time.Second, cfg.PingPeriod)
	assert.Equal(t, 10, cfg.EventRateLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.EventRateWindow)
	assert.Equal(t, "sekrit", cfg.Secret)
}
