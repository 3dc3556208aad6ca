// Package api implements the HTTP-over-UNIX-socket protocol layer:
// routing, tag-content JSON encoding, bearer-token authentication, and
// the SSE broadcast of appended events.
package api

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/oneiros-project/oneiros/internal/apperr"
	"github.com/oneiros-project/oneiros/internal/brain"
	"github.com/oneiros-project/oneiros/internal/broadcast"
	"github.com/oneiros-project/oneiros/internal/config"
	"github.com/oneiros-project/oneiros/internal/paths"
	"github.com/oneiros-project/oneiros/internal/system"
)

// Server owns the process-wide state named in the concurrency model: a
// mutex-wrapped system database handle, the data directory layout, and
// the bounded broadcast hub. Per-request brain connections are opened
// on demand and never pooled across requests.
type Server struct {
	cfg    config.Config
	layout paths.Layout
	hub    *broadcast.Hub

	systemMu     sync.Mutex
	system       *system.Store
	systemPoisoned bool
}

// NewServer wires a Server around an already-open system store.
func NewServer(cfg config.Config, layout paths.Layout, sys *system.Store) *Server {
	return &Server{
		cfg:    cfg,
		layout: layout,
		hub:    broadcast.New(cfg.BroadcastBuffer),
		system: sys,
	}
}

// Hub exposes the broadcast hub so the daemon entrypoint can publish
// startup/shutdown markers if desired.
func (s *Server) Hub() *broadcast.Hub { return s.hub }

// withSystemWrite serializes access to the system database as a single
// mutex-guarded critical section. A panic inside fn poisons the server
// for its remaining lifetime, matching the non-recoverable
// DatabasePoisoned error named in the concurrency model.
func (s *Server) withSystemWrite(fn func(*system.Store) error) (err error) {
	s.systemMu.Lock()
	defer s.systemMu.Unlock()

	if s.systemPoisoned {
		return apperr.ErrDatabasePoisoned
	}
	defer func() {
		if r := recover(); r != nil {
			s.systemPoisoned = true
			log.Error().Interface("panic", r).Msg("system database mutex poisoned by panic")
			err = apperr.ErrDatabasePoisoned
		}
	}()
	return fn(s.system)
}

// openBrain opens a fresh connection to the brain database at path.
// Connections are never pooled across requests, matching the
// rationale in the concurrency model (simpler lifetime, easier
// brain-file hot-replacement).
func (s *Server) openBrain(path string) (*brain.Store, error) {
	return brain.Open(path)
}

// NewRouter builds the full chi router: public routes first, then the
// authenticated resource routes behind the bearer-token middleware.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Post("/brains", s.handleCreateBrain)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/activity", s.handleActivity)
		r.Get("/search", s.handleSearch)

		registerVocabRoutes(r, s)
		registerAgentRoutes(r, s)
		registerCognitionRoutes(r, s)
		registerMemoryRoutes(r, s)
		registerExperienceRoutes(r, s)
		registerConnectionRoutes(r, s)
		registerStorageRoutes(r, s)
		registerEventRoutes(r, s)
		registerLifecycleRoutes(r, s)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
		next.ServeHTTP(w, r)
	})
}
