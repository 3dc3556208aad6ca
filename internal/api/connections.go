package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oneiros-project/oneiros/internal/apperr"
	"github.com/oneiros-project/oneiros/internal/brain"
	"github.com/oneiros-project/oneiros/internal/ids"
	"github.com/oneiros-project/oneiros/internal/link"
	"github.com/oneiros-project/oneiros/internal/model"
)

func registerConnectionRoutes(r chi.Router, s *Server) {
	r.Get("/connections", s.handleListConnections)
	r.Post("/connections", s.handleCreateConnection)
	r.Get("/connections/{id}", s.handleGetConnection)
	r.Delete("/connections/{id}", s.handleDeleteConnection)
}

type createConnectionRequest struct {
	Nature string `json:"nature"`
	From   string `json:"from"`
	To     string `json:"to"`
}

func (s *Server) handleListConnections(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	var nature *model.NatureName
	if n := r.URL.Query().Get("nature"); n != "" {
		if exists, err := ac.Store.VocabExists("natures", n); err != nil {
			writeError(w, apperr.Internal(err))
			return
		} else if !exists {
			writeError(w, apperr.NotFound("Nature", n))
			return
		}
		name := model.NatureName(n)
		nature = &name
	}
	rows, err := ac.Store.ListConnections(nature)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCreateConnection(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	var req createConnectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if exists, err := ac.Store.VocabExists("natures", req.Nature); err != nil {
		writeError(w, apperr.Internal(err))
		return
	} else if !exists {
		writeError(w, apperr.NotFound("Nature", req.Nature))
		return
	}
	fromLink, err := link.Parse(req.From)
	if err != nil {
		writeError(w, apperr.BadRequest("malformed from link: %v", err))
		return
	}
	toLink, err := link.Parse(req.To)
	if err != nil {
		writeError(w, apperr.BadRequest("malformed to link: %v", err))
		return
	}

	connection := model.Connection{
		ID:        ids.NewConnectionID(),
		Nature:    model.NatureName(req.Nature),
		FromLink:  fromLink,
		ToLink:    toLink,
		CreatedAt: ids.Now(),
	}
	if _, _, err := s.appendEvent(ac, model.EventConnectionCreated, connection); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusCreated, connection)
}

func (s *Server) handleGetConnection(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	id, err := ids.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.BadRequest("malformed id: %v", err))
		return
	}
	connection, err := ac.Store.GetConnection(model.ConnectionID{ID: id})
	if err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Connection", id.String()))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, connection)
}

func (s *Server) handleDeleteConnection(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	rawID, err := ids.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.BadRequest("malformed id: %v", err))
		return
	}
	connectionID := model.ConnectionID{ID: rawID}
	if _, err := ac.Store.GetConnection(connectionID); err == brain.ErrNotFound {
		w.WriteHeader(http.StatusNoContent)
		return
	} else if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	payload := model.ConnectionRemoved{ID: connectionID}
	if _, _, err := s.appendEvent(ac, model.EventConnectionRemoved, payload); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
