package api

import (
	"net/http"

	"github.com/oneiros-project/oneiros/internal/apperr"
	"github.com/oneiros-project/oneiros/internal/model"
)

type searchResponse struct {
	Query   string             `json:"query"`
	Results []model.Expression `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, apperr.BadRequest("q is required"))
		return
	}
	var agentName *model.AgentName
	if a := r.URL.Query().Get("agent"); a != "" {
		name := model.AgentName(a)
		agentName = &name
	}
	results, err := ac.Store.Search(query, agentName)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: results})
}
