package brain

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/eventstore"
	"github.com/oneiros-project/oneiros/internal/model"
)

// agentProjection materializes agent-created/updated/removed into the
// agents table. agent-created inserts; agent-updated replaces the row
// keyed by id; agent-removed deletes by name.
func agentProjection() eventstore.Projection {
	return eventstore.Projection{
		Name: "agents",
		Interested: eventstore.Interested(
			model.EventAgentCreated, model.EventAgentUpdated, model.EventAgentRemoved,
		),
		Reset: func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM agents`)
			return err
		},
		Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
			switch eventType {
			case model.EventAgentCreated:
				var a model.Agent
				if err := json.Unmarshal(data, &a); err != nil {
					return fmt.Errorf("decode agent-created: %w", err)
				}
				_, err := tx.Exec(
					`INSERT INTO agents (id, name, persona, description, prompt) VALUES (?, ?, ?, ?, ?)`,
					a.ID.String(), a.Name.String(), a.Persona.String(), a.Description, a.Prompt,
				)
				return err
			case model.EventAgentUpdated:
				var a model.Agent
				if err := json.Unmarshal(data, &a); err != nil {
					return fmt.Errorf("decode agent-updated: %w", err)
				}
				_, err := tx.Exec(
					`UPDATE agents SET name = ?, persona = ?, description = ?, prompt = ? WHERE id = ?`,
					a.Name.String(), a.Persona.String(), a.Description, a.Prompt, a.ID.String(),
				)
				return err
			case model.EventAgentRemoved:
				var p model.AgentRemoved
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode agent-removed: %w", err)
				}
				_, err := tx.Exec(`DELETE FROM agents WHERE name = ?`, p.Name.String())
				return err
			default:
				return nil
			}
		},
	}
}
