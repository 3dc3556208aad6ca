// Command oneirosd is the Oneiros daemon: it opens the system database,
// resolves the on-disk layout, binds a UNIX domain socket, and serves
// the HTTP protocol described in internal/api.
package main

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/oneiros-project/oneiros/internal/api"
	"github.com/oneiros-project/oneiros/internal/config"
	"github.com/oneiros-project/oneiros/internal/paths"
	"github.com/oneiros-project/oneiros/internal/system"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("oneirosd exiting")
	}
}

func run() error {
	layout, err := paths.Resolve()
	if err != nil {
		return err
	}
	if err := layout.EnsureDirs(); err != nil {
		return err
	}

	cfg, err := config.Load(layout.ConfigPath(), config.Default(layout.DataDir, layout.SocketPath()))
	if err != nil {
		return err
	}

	configureLogging(cfg.LogLevel)

	sys, err := system.Open(layout.SystemDBPath())
	if err != nil {
		return err
	}
	defer sys.Close()
	if _, warnings, err := sys.Replay(); err != nil {
		return err
	} else if warnings > 0 {
		log.Warn().Int("warnings", warnings).Msg("system database replay reported warnings")
	}

	server := api.NewServer(cfg, layout, sys)
	router := api.NewRouter(server)

	socketPath := cfg.SocketPath
	if socketPath == "" {
		socketPath = layout.SocketPath()
	}
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}
	defer listener.Close()

	log.Info().Str("socket", socketPath).Msg("oneirosd listening")

	httpServer := &http.Server{
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE connections on /activity are long-lived.
	}
	return httpServer.Serve(listener)
}

// configureLogging sets the global zerolog level from the config's
// textual level name, falling back to info on anything unrecognized
// rather than failing startup over a typo in config.toml.
func configureLogging(levelName string) {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
