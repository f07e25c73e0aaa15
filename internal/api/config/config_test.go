package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 500, cfg.Publish.FanoutChunkSize)
	assert.Equal(t, FanoutInline, cfg.Publish.FanoutMode)
	assert.Equal(t, int64(10<<20), cfg.Publish.MaxCoverBytes)
	assert.Equal(t, "@hourly", cfg.Cron.MediaSweep)
	assert.Equal(t, 24*60, int(cfg.Publish.SessionTTL().Minutes()))
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, "publish:\n  fanout_chunk_size: 100\n")
	t.Setenv("CHATTER_PUBLISH_FANOUT_CHUNK_SIZE", "50")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Publish.FanoutChunkSize)
}

func TestLoadConfigRejectsBadPublishSettings(t *testing.T) {
	dir := writeConfig(t, "publish:\n  fanout_mode: carrier-pigeon\n")

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
