package api

import (
	"encoding/json"

	"github.com/oneiros-project/oneiros/internal/brain"
	"github.com/oneiros-project/oneiros/internal/broadcast"
	"github.com/oneiros-project/oneiros/internal/eventstore"
	"github.com/oneiros-project/oneiros/internal/ids"
)

// appendEvent appends to the authenticated request's brain event log and,
// on success, offers the same envelope to every /activity subscriber.
// Every mutating handler goes through this instead of calling
// ac.Store.Events.Append directly so the broadcast hub sees exactly the
// events that actually committed.
func (s *Server) appendEvent(ac *authContext, eventType string, payload any) (ids.EventID, ids.Timestamp, error) {
	id, ts, err := ac.Store.Events.Append(eventType, payload, brain.Projections())
	if err != nil {
		return id, ts, err
	}
	if data, marshalErr := json.Marshal(eventstore.Envelope{Type: eventType, Data: mustMarshal(payload)}); marshalErr == nil {
		s.hub.Publish(broadcast.Message{EventType: eventType, Data: data})
	}
	return id, ts, nil
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return data
}
