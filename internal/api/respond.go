package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/oneiros-project/oneiros/internal/apperr"
)

// errorBody is the wire shape named in the protocol's error format:
// {"status": <int>, "body": "<message>"}.
type errorBody struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encode response body")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, body := apperr.Translate(err)
	if status >= 500 {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeJSON(w, status, errorBody{Status: status, Body: body})
}

func decodeJSON(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return apperr.BadRequest("malformed request body: %v", err)
	}
	return nil
}
