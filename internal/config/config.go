// Package config loads the daemon's optional TOML configuration file,
// applying defaults for anything the file omits or that is entirely
// absent. github.com/BurntSushi/toml is the example corpus's own TOML
// library (rakunlabs-at), adopted here rather than encoding/json or a
// hand-rolled parser for the one human-edited file in the whole system.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the daemon's full runtime configuration.
type Config struct {
	DataDir         string `toml:"data_dir"`
	SocketPath      string `toml:"socket_path"`
	BroadcastBuffer int    `toml:"broadcast_buffer"`
	LogLevel        string `toml:"log_level"`
	TenantName      string `toml:"tenant_name"`
}

// Default returns the configuration used when no config file exists,
// parameterized by the resolved default data/socket paths.
func Default(dataDir, socketPath string) Config {
	return Config{
		DataDir:         dataDir,
		SocketPath:      socketPath,
		BroadcastBuffer: 256,
		LogLevel:        "info",
		TenantName:      "default",
	}
}

// Load reads path, if present, decoding onto a copy of base so unset
// fields keep their defaults. A missing file is not an error: the
// daemon runs on defaults.
func Load(path string, base Config) (Config, error) {
	cfg := base
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
