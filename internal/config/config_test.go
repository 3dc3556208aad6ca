package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPopulatesEveryField(t *testing.T) {
	cfg := Default("/data", "/data/oneiros.sock")
	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, "/data/oneiros.sock", cfg.SocketPath)
	assert.Equal(t, 256, cfg.BroadcastBuffer)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "default", cfg.TenantName)
}

func TestLoadMissingFileReturnsBase(t *testing.T) {
	base := Default("/data", "/data/oneiros.sock")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`log_level = "debug"`+"\n"), 0o644))

	base := Default("/data", "/data/oneiros.sock")
	cfg, err := Load(path, base)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel, "present fields override the base")
	assert.Equal(t, base.DataDir, cfg.DataDir, "absent fields keep the base default")
	assert.Equal(t, base.BroadcastBuffer, cfg.BroadcastBuffer)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))

	_, err := Load(path, Default("/data", "/data/oneiros.sock"))
	assert.Error(t, err)
}
