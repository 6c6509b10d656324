package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "auto", cfg.Compare.SortMode)
	assert.Equal(t, 4, cfg.Compare.QueueSize)
	assert.Equal(t, int64(100000), cfg.Compare.MaterializeLimit)
	assert.Equal(t, "webhook", cfg.Dispatch.Sink)
	assert.Equal(t, "X-API-Key", cfg.Dispatch.Webhook.APIKeyHeader)
	assert.Equal(t, "gzip", cfg.Storage.Compression)
	assert.False(t, cfg.Storage.Enabled)
	assert.True(t, cfg.Schedule.Enabled)
	assert.Equal(t, 30, cfg.Schedule.TickSeconds)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("COMPARE_QUEUE_SIZE", "16")
	t.Setenv("COMPARE_SORT_MODE", "memory")
	t.Setenv("DISPATCH_WEBHOOK_URL", "https://hooks.example.com/diff")
	t.Setenv("SCHEDULE_ENABLED", "false")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Compare.QueueSize)
	assert.Equal(t, "memory", cfg.Compare.SortMode)
	assert.Equal(t, "https://hooks.example.com/diff", cfg.Dispatch.Webhook.URL)
	assert.False(t, cfg.Schedule.Enabled)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nSTORAGE_ENABLED=true\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("STORAGE_ENABLED")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Storage.Enabled)
}
