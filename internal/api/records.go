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

func registerCognitionRoutes(r chi.Router, s *Server) {
	r.Get("/cognitions", s.handleListCognitions)
	r.Post("/cognitions", s.handleCreateCognition)
	r.Get("/cognitions/{id}", s.handleGetCognition)
}

func registerMemoryRoutes(r chi.Router, s *Server) {
	r.Get("/memories", s.handleListMemories)
	r.Post("/memories", s.handleCreateMemory)
	r.Get("/memories/{id}", s.handleGetMemory)
}

func registerExperienceRoutes(r chi.Router, s *Server) {
	r.Get("/experiences", s.handleListExperiences)
	r.Post("/experiences", s.handleCreateExperience)
	r.Get("/experiences/{id}", s.handleGetExperience)
	r.Post("/experiences/{id}/refs", s.handleAddExperienceRef)
	r.Put("/experiences/{id}/description", s.handleUpdateExperienceDescription)
	r.Put("/experiences/{id}/sensation", s.handleUpdateExperienceSensation)
}

type createCognitionRequest struct {
	Agent   string `json:"agent"`
	Texture string `json:"texture"`
	Content string `json:"content"`
}

func (s *Server) handleListCognitions(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	var agentID *model.AgentID
	if name := r.URL.Query().Get("agent"); name != "" {
		agent, err := ac.Store.GetAgentByName(model.AgentName(name))
		if err == brain.ErrNotFound {
			writeError(w, apperr.NotFound("Agent", name))
			return
		}
		if err != nil {
			writeError(w, apperr.Internal(err))
			return
		}
		agentID = &agent.ID
	}
	var texture *model.TextureName
	if t := r.URL.Query().Get("texture"); t != "" {
		if exists, err := ac.Store.VocabExists("textures", t); err != nil {
			writeError(w, apperr.Internal(err))
			return
		} else if !exists {
			writeError(w, apperr.NotFound("Texture", t))
			return
		}
		name := model.TextureName(t)
		texture = &name
	}
	rows, err := ac.Store.ListCognitions(agentID, texture)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCreateCognition(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	var req createCognitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	agent, err := ac.Store.GetAgentByName(model.AgentName(req.Agent))
	if err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Agent", req.Agent))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	if exists, err := ac.Store.VocabExists("textures", req.Texture); err != nil {
		writeError(w, apperr.Internal(err))
		return
	} else if !exists {
		writeError(w, apperr.NotFound("Texture", req.Texture))
		return
	}

	cognition := model.Cognition{
		ID:        ids.NewCognitionID(),
		AgentID:   agent.ID,
		Texture:   model.TextureName(req.Texture),
		Content:   req.Content,
		CreatedAt: ids.Now(),
	}
	if _, _, err := s.appendEvent(ac, model.EventCognitionAdded, cognition); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusCreated, cognition)
}

func (s *Server) handleGetCognition(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	id, err := ids.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.BadRequest("malformed id: %v", err))
		return
	}
	cognition, err := ac.Store.GetCognition(model.CognitionID{ID: id})
	if err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Cognition", id.String()))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, cognition)
}

type createMemoryRequest struct {
	Agent   string `json:"agent"`
	Level   string `json:"level"`
	Content string `json:"content"`
}

func (s *Server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	var agentID *model.AgentID
	if name := r.URL.Query().Get("agent"); name != "" {
		agent, err := ac.Store.GetAgentByName(model.AgentName(name))
		if err == brain.ErrNotFound {
			writeError(w, apperr.NotFound("Agent", name))
			return
		}
		if err != nil {
			writeError(w, apperr.Internal(err))
			return
		}
		agentID = &agent.ID
	}
	var level *model.LevelName
	if l := r.URL.Query().Get("level"); l != "" {
		if exists, err := ac.Store.VocabExists("levels", l); err != nil {
			writeError(w, apperr.Internal(err))
			return
		} else if !exists {
			writeError(w, apperr.NotFound("Level", l))
			return
		}
		name := model.LevelName(l)
		level = &name
	}
	rows, err := ac.Store.ListMemories(agentID, level)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCreateMemory(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	var req createMemoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	agent, err := ac.Store.GetAgentByName(model.AgentName(req.Agent))
	if err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Agent", req.Agent))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	if exists, err := ac.Store.VocabExists("levels", req.Level); err != nil {
		writeError(w, apperr.Internal(err))
		return
	} else if !exists {
		writeError(w, apperr.NotFound("Level", req.Level))
		return
	}

	memory := model.Memory{
		ID:        ids.NewMemoryID(),
		AgentID:   agent.ID,
		Level:     model.LevelName(req.Level),
		Content:   req.Content,
		CreatedAt: ids.Now(),
	}
	if _, _, err := s.appendEvent(ac, model.EventMemoryAdded, memory); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusCreated, memory)
}

func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	id, err := ids.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.BadRequest("malformed id: %v", err))
		return
	}
	memory, err := ac.Store.GetMemory(model.MemoryID{ID: id})
	if err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Memory", id.String()))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, memory)
}

type createExperienceRequest struct {
	Agent       string `json:"agent"`
	Sensation   string `json:"sensation"`
	Description string `json:"description"`
}

type experienceView struct {
	model.Experience
	Refs []model.ExperienceRef `json:"refs"`
}

func (s *Server) handleListExperiences(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	var agentID *model.AgentID
	if name := r.URL.Query().Get("agent"); name != "" {
		agent, err := ac.Store.GetAgentByName(model.AgentName(name))
		if err == brain.ErrNotFound {
			writeError(w, apperr.NotFound("Agent", name))
			return
		}
		if err != nil {
			writeError(w, apperr.Internal(err))
			return
		}
		agentID = &agent.ID
	}
	var sensation *model.SensationName
	if v := r.URL.Query().Get("sensation"); v != "" {
		if exists, err := ac.Store.VocabExists("sensations", v); err != nil {
			writeError(w, apperr.Internal(err))
			return
		} else if !exists {
			writeError(w, apperr.NotFound("Sensation", v))
			return
		}
		name := model.SensationName(v)
		sensation = &name
	}
	rows, err := ac.Store.ListExperiences(agentID, sensation)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCreateExperience(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	var req createExperienceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	agent, err := ac.Store.GetAgentByName(model.AgentName(req.Agent))
	if err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Agent", req.Agent))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	if exists, err := ac.Store.VocabExists("sensations", req.Sensation); err != nil {
		writeError(w, apperr.Internal(err))
		return
	} else if !exists {
		writeError(w, apperr.NotFound("Sensation", req.Sensation))
		return
	}

	experience := model.Experience{
		ID:          ids.NewExperienceID(),
		AgentID:     agent.ID,
		Sensation:   model.SensationName(req.Sensation),
		Description: req.Description,
		CreatedAt:   ids.Now(),
	}
	if _, _, err := s.appendEvent(ac, model.EventExperienceCreated, experience); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusCreated, experienceView{Experience: experience})
}

func (s *Server) handleGetExperience(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	id, err := ids.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.BadRequest("malformed id: %v", err))
		return
	}
	experience, refs, err := ac.Store.GetExperience(model.ExperienceID{ID: id})
	if err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Experience", id.String()))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, experienceView{Experience: experience, Refs: refs})
}

type addExperienceRefRequest struct {
	Link     string `json:"link"`
	Position int    `json:"position"`
}

func (s *Server) handleAddExperienceRef(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	rawID, err := ids.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.BadRequest("malformed id: %v", err))
		return
	}
	experienceID := model.ExperienceID{ID: rawID}
	if _, _, err := ac.Store.GetExperience(experienceID); err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Experience", experienceID.String()))
		return
	} else if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}

	var req addExperienceRefRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	lnk, err := link.Parse(req.Link)
	if err != nil {
		writeError(w, apperr.BadRequest("malformed link: %v", err))
		return
	}
	payload := model.ExperienceRefAdded{ExperienceID: experienceID, Link: lnk, Position: req.Position}
	if _, _, err := s.appendEvent(ac, model.EventExperienceRefAdded, payload); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type updateDescriptionRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleUpdateExperienceDescription(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	rawID, err := ids.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.BadRequest("malformed id: %v", err))
		return
	}
	experienceID := model.ExperienceID{ID: rawID}
	if _, _, err := ac.Store.GetExperience(experienceID); err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Experience", experienceID.String()))
		return
	} else if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}

	var req updateDescriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	payload := model.ExperienceDescriptionUpdated{ID: experienceID, Description: req.Description}
	if _, _, err := s.appendEvent(ac, model.EventExperienceDescriptionUpdated, payload); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateSensationRequest struct {
	Sensation string `json:"sensation"`
}

func (s *Server) handleUpdateExperienceSensation(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	rawID, err := ids.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.BadRequest("malformed id: %v", err))
		return
	}
	experienceID := model.ExperienceID{ID: rawID}
	if _, _, err := ac.Store.GetExperience(experienceID); err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Experience", experienceID.String()))
		return
	} else if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}

	var req updateSensationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if exists, err := ac.Store.VocabExists("sensations", req.Sensation); err != nil {
		writeError(w, apperr.Internal(err))
		return
	} else if !exists {
		writeError(w, apperr.NotFound("Sensation", req.Sensation))
		return
	}
	payload := model.ExperienceSensationUpdated{ID: experienceID, Sensation: model.SensationName(req.Sensation)}
	if _, _, err := s.appendEvent(ac, model.EventExperienceSensationUpdated, payload); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
