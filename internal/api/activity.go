package api

import (
	"fmt"
	"net/http"
	"time"
)

// keepAliveInterval governs how often a comment-only SSE frame is sent
// to keep intermediaries (and clients) from timing out an otherwise
// idle /activity connection.
const keepAliveInterval = 15 * time.Second

// handleActivity streams every event published to this server's
// broadcast hub, for any brain, for the lifetime of the connection, as
// an SSE feed. Subscribing opens
// a channel on the broadcast hub; the handler blocks writing frames
// until the client disconnects.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	messages, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.EventType, msg.Data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
