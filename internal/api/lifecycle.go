package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oneiros-project/oneiros/internal/apperr"
	"github.com/oneiros-project/oneiros/internal/brain"
	"github.com/oneiros-project/oneiros/internal/model"
)

// lifecycleAgentPayload is the shared audit-event shape for the
// wake/sleep/emerge/recede transitions: just enough to say which agent
// underwent the transition and when (the event timestamp already
// carries when). None of these events are projected — they exist
// purely so a client replaying /activity can reconstruct a session's
// narrative.
type lifecycleAgentPayload struct {
	Agent string `json:"agent"`
}

func registerLifecycleRoutes(r chi.Router, s *Server) {
	r.Post("/lifecycle/wake/{agent}", s.lifecycleTransition(model.EventWoke))
	r.Post("/lifecycle/sleep/{agent}", s.lifecycleTransition(model.EventSlept))
	r.Post("/lifecycle/emerge/{agent}", s.lifecycleTransition(model.EventEmerged))
	r.Post("/lifecycle/recede/{agent}", s.lifecycleTransition(model.EventReceded))

	r.Post("/introspect/{agent}", s.handleIntrospect)
	r.Post("/reflect/{agent}", s.handleReflect)
	r.Post("/dream/{agent}", s.handleDream)
	r.Post("/sense/{agent}", s.handleSense)
}

func (s *Server) resolveAgent(w http.ResponseWriter, r *http.Request) (model.Agent, bool) {
	ac, _ := authFromContext(r.Context())
	name := chi.URLParam(r, "agent")
	agent, err := ac.Store.GetAgentByName(model.AgentName(name))
	if err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Agent", name))
		return model.Agent{}, false
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return model.Agent{}, false
	}
	return agent, true
}

func (s *Server) lifecycleTransition(eventType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, _ := authFromContext(r.Context())
		agent, ok := s.resolveAgent(w, r)
		if !ok {
			return
		}
		if _, _, err := s.appendEvent(ac, eventType, lifecycleAgentPayload{Agent: agent.Name.String()}); err != nil {
			writeError(w, apperr.Internal(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// introspectionView is the body handed back to the client for
// /introspect and /reflect: the agent's own cognitions and memories, the
// raw material an introspective pass would fold over.
type introspectionView struct {
	Agent      string            `json:"agent"`
	Cognitions []model.Cognition `json:"cognitions"`
	Memories   []model.Memory    `json:"memories"`
}

func (s *Server) handleIntrospect(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	agent, ok := s.resolveAgent(w, r)
	if !ok {
		return
	}
	if _, _, err := s.appendEvent(ac, model.EventIntrospectionBegun, lifecycleAgentPayload{Agent: agent.Name.String()}); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	cognitions, err := ac.Store.ListCognitions(&agent.ID, nil)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	memories, err := ac.Store.ListMemories(&agent.ID, nil)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	if _, _, err := s.appendEvent(ac, model.EventIntrospectionComplete, lifecycleAgentPayload{Agent: agent.Name.String()}); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, introspectionView{Agent: agent.Name.String(), Cognitions: cognitions, Memories: memories})
}

// reflectionView mirrors introspection but over the agent's experiences,
// the material a reflective pass folds over instead.
type reflectionView struct {
	Agent       string              `json:"agent"`
	Experiences []model.Experience  `json:"experiences"`
}

func (s *Server) handleReflect(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	agent, ok := s.resolveAgent(w, r)
	if !ok {
		return
	}
	if _, _, err := s.appendEvent(ac, model.EventReflectionBegun, lifecycleAgentPayload{Agent: agent.Name.String()}); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	experiences, err := ac.Store.ListExperiences(&agent.ID, nil)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	if _, _, err := s.appendEvent(ac, model.EventReflectionComplete, lifecycleAgentPayload{Agent: agent.Name.String()}); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, reflectionView{Agent: agent.Name.String(), Experiences: experiences})
}

// dreamContext is the well-formed-even-when-empty body /dream returns:
// the full cross section of an agent's cognitive record, the raw
// material a dream pass free-associates over.
type dreamContext struct {
	Agent       string             `json:"agent"`
	Cognitions  []model.Cognition  `json:"cognitions"`
	Memories    []model.Memory     `json:"memories"`
	Experiences []model.Experience `json:"experiences"`
}

func (s *Server) handleDream(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	agent, ok := s.resolveAgent(w, r)
	if !ok {
		return
	}
	if _, _, err := s.appendEvent(ac, model.EventDreamBegun, lifecycleAgentPayload{Agent: agent.Name.String()}); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	cognitions, err := ac.Store.ListCognitions(&agent.ID, nil)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	memories, err := ac.Store.ListMemories(&agent.ID, nil)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	experiences, err := ac.Store.ListExperiences(&agent.ID, nil)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	if _, _, err := s.appendEvent(ac, model.EventDreamComplete, lifecycleAgentPayload{Agent: agent.Name.String()}); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, dreamContext{
		Agent:       agent.Name.String(),
		Cognitions:  cognitions,
		Memories:    memories,
		Experiences: experiences,
	})
}

type senseRequest struct {
	Sensation string `json:"sensation"`
}

func (s *Server) handleSense(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	agent, ok := s.resolveAgent(w, r)
	if !ok {
		return
	}
	var req senseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	payload := struct {
		Agent     string `json:"agent"`
		Sensation string `json:"sensation"`
	}{Agent: agent.Name.String(), Sensation: req.Sensation}
	if _, _, err := s.appendEvent(ac, model.EventSensed, payload); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
