package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHonorsXDGEnv(t *testing.T) {
	dataHome := t.TempDir()
	configHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("XDG_CONFIG_HOME", configHome)

	layout, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataHome, "oneiros"), layout.DataDir)
	assert.Equal(t, filepath.Join(configHome, "oneiros"), layout.ConfigDir)
}

func TestDerivedPaths(t *testing.T) {
	layout := Layout{DataDir: "/data", ConfigDir: "/config"}
	assert.Equal(t, "/data/oneiros.db", layout.SystemDBPath())
	assert.Equal(t, "/data/brains", layout.BrainsDir())
	assert.Equal(t, "/data/brains/alpha.db", layout.BrainPath("alpha"))
	assert.Equal(t, "/data/tickets", layout.TicketsDir())
	assert.Equal(t, "/data/tickets/alpha.json", layout.TicketPath("alpha"))
	assert.Equal(t, "/data/logs", layout.LogsDir())
	assert.Equal(t, "/data/oneiros.sock", layout.SocketPath())
	assert.Equal(t, "/config/config.toml", layout.ConfigPath())
}

func TestEnsureDirsCreatesEveryDirectoryExceptConfig(t *testing.T) {
	dir := t.TempDir()
	layout := Layout{DataDir: filepath.Join(dir, "data"), ConfigDir: filepath.Join(dir, "config")}

	require.NoError(t, layout.EnsureDirs())

	for _, want := range []string{layout.DataDir, layout.BrainsDir(), layout.TicketsDir(), layout.LogsDir()} {
		info, err := os.Stat(want)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	_, err := os.Stat(layout.ConfigDir)
	assert.True(t, os.IsNotExist(err), "EnsureDirs does not create the config directory, only data-side directories")
}
