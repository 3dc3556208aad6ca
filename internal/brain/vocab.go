package brain

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/eventstore"
	"github.com/oneiros-project/oneiros/internal/model"
)

// vocabPayload is the shared shape of every persona/texture/level/
// sensation/nature set event: the entity structs in internal/model
// already carry exactly these json tags, so this local struct only
// exists to decode the name as a plain string regardless of which
// typed-name wrapper the specific event uses.
type vocabPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

type vocabRemovedPayload struct {
	Name string `json:"name"`
}

// vocabKind binds one vocabulary table to its set/removed event types.
type vocabKind struct {
	table        string
	setEvent     string
	removedEvent string
}

var vocabKinds = []vocabKind{
	{table: "personas", setEvent: model.EventPersonaSet, removedEvent: model.EventPersonaRemoved},
	{table: "textures", setEvent: model.EventTextureSet, removedEvent: model.EventTextureRemoved},
	{table: "levels", setEvent: model.EventLevelSet, removedEvent: model.EventLevelRemoved},
	{table: "sensations", setEvent: model.EventSensationSet, removedEvent: model.EventSensationRemoved},
	{table: "natures", setEvent: model.EventNatureSet, removedEvent: model.EventNatureRemoved},
}

// vocabProjections builds one projection per vocabulary table. They
// share a single generalized apply/reset pair parameterized by table
// name, mirroring the five near-identical tables named in the data
// model.
func vocabProjections() []eventstore.Projection {
	out := make([]eventstore.Projection, 0, len(vocabKinds))
	for _, kind := range vocabKinds {
		kind := kind
		out = append(out, eventstore.Projection{
			Name:       kind.table,
			Interested: eventstore.Interested(kind.setEvent, kind.removedEvent),
			Reset: func(tx *sql.Tx) error {
				_, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s`, kind.table))
				return err
			},
			Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
				switch eventType {
				case kind.setEvent:
					var p vocabPayload
					if err := json.Unmarshal(data, &p); err != nil {
						return fmt.Errorf("decode %s: %w", eventType, err)
					}
					_, err := tx.Exec(
						fmt.Sprintf(`INSERT INTO %s (name, description, prompt) VALUES (?, ?, ?)
							ON CONFLICT(name) DO UPDATE SET description = excluded.description, prompt = excluded.prompt`, kind.table),
						p.Name, p.Description, p.Prompt,
					)
					return err
				case kind.removedEvent:
					var p vocabRemovedPayload
					if err := json.Unmarshal(data, &p); err != nil {
						return fmt.Errorf("decode %s: %w", eventType, err)
					}
					_, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE name = ?`, kind.table), p.Name)
					return err
				default:
					return nil
				}
			},
		})
	}
	return out
}
