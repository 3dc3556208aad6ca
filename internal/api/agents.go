package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oneiros-project/oneiros/internal/apperr"
	"github.com/oneiros-project/oneiros/internal/brain"
	"github.com/oneiros-project/oneiros/internal/ids"
	"github.com/oneiros-project/oneiros/internal/model"
	"github.com/oneiros-project/oneiros/internal/wire"
)

type createAgentRequest struct {
	Name        string `json:"name"`
	Persona     string `json:"persona"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

type updateAgentRequest struct {
	Persona     string `json:"persona"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

func registerAgentRoutes(r chi.Router, s *Server) {
	r.Get("/agents", s.handleListAgents)
	r.Post("/agents", s.handleCreateAgent)
	r.Get("/agents/{key}", s.handleGetAgent)
	r.Put("/agents/{key}", s.handleUpdateAgent)
	r.Delete("/agents/{key}", s.handleDeleteAgent)
}

// agentContentID derives Id::from_content over the deterministic
// (name, persona) tuple encoding, so recreating an agent with the same
// identity always yields the same id.
func agentContentID(name, persona string) model.AgentID {
	raw := wire.NewEncoder().String(name).String(persona).Finish()
	return ids.AgentIDFromContent(raw)
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	agents, err := ac.Store.ListAgents()
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	if agents == nil {
		agents = []model.Agent{}
	}
	writeJSON(w, http.StatusOK, agents)
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	var req createAgentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, apperr.BadRequest("agent name is required"))
		return
	}
	exists, err := ac.Store.VocabExists("personas", req.Persona)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	if !exists {
		writeError(w, apperr.NotFound("Persona", req.Persona))
		return
	}
	if taken, err := ac.Store.AgentNameExists(model.AgentName(req.Name)); err != nil {
		writeError(w, apperr.Internal(err))
		return
	} else if taken {
		writeError(w, apperr.Conflict("agent already exists: %s", req.Name))
		return
	}

	agent := model.Agent{
		ID:          agentContentID(req.Name, req.Persona),
		Name:        model.AgentName(req.Name),
		Persona:     model.PersonaName(req.Persona),
		Description: req.Description,
		Prompt:      req.Prompt,
	}
	if _, _, err := s.appendEvent(ac, model.EventAgentCreated, agent); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusCreated, agent)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	key, err := model.ParseKey(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, apperr.BadRequest("malformed key: %v", err))
		return
	}
	agent, err := ac.Store.GetAgentByKey(key)
	if err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Agent", key.String()))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

func (s *Server) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	key, err := model.ParseKey(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, apperr.BadRequest("malformed key: %v", err))
		return
	}
	existing, err := ac.Store.GetAgentByKey(key)
	if err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Agent", key.String()))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}

	var req updateAgentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Persona != "" {
		exists, err := ac.Store.VocabExists("personas", req.Persona)
		if err != nil {
			writeError(w, apperr.Internal(err))
			return
		}
		if !exists {
			writeError(w, apperr.NotFound("Persona", req.Persona))
			return
		}
		existing.Persona = model.PersonaName(req.Persona)
	}
	if req.Description != "" {
		existing.Description = req.Description
	}
	if req.Prompt != "" {
		existing.Prompt = req.Prompt
	}

	if _, _, err := s.appendEvent(ac, model.EventAgentUpdated, existing); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	key, err := model.ParseKey(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, apperr.BadRequest("malformed key: %v", err))
		return
	}
	agent, err := ac.Store.GetAgentByKey(key)
	if err == brain.ErrNotFound {
		w.WriteHeader(http.StatusOK)
		return
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	payload := model.AgentRemoved{Name: agent.Name}
	if _, _, err := s.appendEvent(ac, model.EventAgentRemoved, payload); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}
