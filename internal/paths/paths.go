// Package paths resolves the daemon's on-disk layout: a data directory
// holding the system database, brain files, issued-ticket records, and
// logs, plus a config directory holding the optional config file. No
// XDG-directories library appears anywhere in the example corpus, so
// this is deliberately a thin stdlib wrapper (os.UserHomeDir +
// os.Getenv of the XDG_* variables) rather than an imported dependency.
package paths

import (
	"os"
	"path/filepath"
)

// Layout is the resolved set of paths a running daemon needs.
type Layout struct {
	DataDir   string
	ConfigDir string
}

// Resolve computes the default layout, honoring XDG_DATA_HOME and
// XDG_CONFIG_HOME when set and falling back to ~/.local/share/oneiros
// and ~/.config/oneiros otherwise.
func Resolve() (Layout, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Layout{}, err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Layout{}, err
		}
		configHome = filepath.Join(home, ".config")
	}
	return Layout{
		DataDir:   filepath.Join(dataHome, "oneiros"),
		ConfigDir: filepath.Join(configHome, "oneiros"),
	}, nil
}

// SystemDBPath is <data_dir>/oneiros.db.
func (l Layout) SystemDBPath() string { return filepath.Join(l.DataDir, "oneiros.db") }

// BrainsDir is <data_dir>/brains.
func (l Layout) BrainsDir() string { return filepath.Join(l.DataDir, "brains") }

// BrainPath is <data_dir>/brains/<name>.db.
func (l Layout) BrainPath(name string) string {
	return filepath.Join(l.BrainsDir(), name+".db")
}

// TicketsDir is <data_dir>/tickets.
func (l Layout) TicketsDir() string { return filepath.Join(l.DataDir, "tickets") }

// TicketPath is <data_dir>/tickets/<brain>.json.
func (l Layout) TicketPath(brainName string) string {
	return filepath.Join(l.TicketsDir(), brainName+".json")
}

// LogsDir is <data_dir>/logs.
func (l Layout) LogsDir() string { return filepath.Join(l.DataDir, "logs") }

// SocketPath is <data_dir>/oneiros.sock.
func (l Layout) SocketPath() string { return filepath.Join(l.DataDir, "oneiros.sock") }

// ConfigPath is <config_dir>/config.toml.
func (l Layout) ConfigPath() string { return filepath.Join(l.ConfigDir, "config.toml") }

// EnsureDirs creates every directory the layout needs, if absent.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{l.DataDir, l.BrainsDir(), l.TicketsDir(), l.LogsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
