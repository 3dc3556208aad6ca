package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oneiros-project/oneiros/internal/apperr"
)

func registerEventRoutes(r chi.Router, s *Server) {
	r.Get("/events", s.handleListEvents)
	r.Post("/events/import", s.handleImportEvents)
	r.Post("/events/replay", s.handleReplayEvents)
}

type eventView struct {
	ID        string          `json:"id"`
	Timestamp string          `json:"timestamp"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	events, err := ac.Store.Events.ReadAll()
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	views := make([]eventView, len(events))
	for i, ev := range events {
		views[i] = eventView{ID: ev.ID.String(), Timestamp: ev.Timestamp.String(), Type: ev.Type, Data: ev.Data}
	}
	writeJSON(w, http.StatusOK, views)
}

// importEventRequest mirrors the raw envelope written to the events
// table: a caller-supplied timestamp plus the already-encoded {type,
// data} JSON, accepted verbatim without running projections (§4.1's
// import is a migration primitive, not a mutation entrypoint).
type importEventRequest struct {
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func (s *Server) handleImportEvents(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	var reqs []importEventRequest
	if err := decodeJSON(r, &reqs); err != nil {
		writeError(w, err)
		return
	}
	for _, req := range reqs {
		if err := ac.Store.Events.Import(req.Timestamp, req.Data); err != nil {
			writeError(w, apperr.BadRequest("import event: %v", err))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(reqs)})
}

type replayResponse struct {
	Replayed int `json:"replayed"`
	Warnings int `json:"warnings"`
}

func (s *Server) handleReplayEvents(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	applied, warnings, err := ac.Store.Replay()
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, replayResponse{Replayed: applied, Warnings: warnings})
}
