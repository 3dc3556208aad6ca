package brain

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/blob"
	"github.com/oneiros-project/oneiros/internal/eventstore"
	"github.com/oneiros-project/oneiros/internal/model"
)

// cognitionProjection materializes add-only cognition-added events.
// Cognitions are never mutated or removed.
func cognitionProjection() eventstore.Projection {
	return eventstore.Projection{
		Name:       "cognitions",
		Interested: eventstore.Interested(model.EventCognitionAdded),
		Reset: func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM cognitions`)
			return err
		},
		Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
			var c model.Cognition
			if err := json.Unmarshal(data, &c); err != nil {
				return fmt.Errorf("decode cognition-added: %w", err)
			}
			_, err := tx.Exec(
				`INSERT INTO cognitions (id, agent_id, texture, content, created_at) VALUES (?, ?, ?, ?, ?)`,
				c.ID.String(), c.AgentID.String(), c.Texture.String(), c.Content, c.CreatedAt.String(),
			)
			return err
		},
	}
}

// memoryProjection materializes add-only memory-added events.
func memoryProjection() eventstore.Projection {
	return eventstore.Projection{
		Name:       "memories",
		Interested: eventstore.Interested(model.EventMemoryAdded),
		Reset: func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM memories`)
			return err
		},
		Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
			var m model.Memory
			if err := json.Unmarshal(data, &m); err != nil {
				return fmt.Errorf("decode memory-added: %w", err)
			}
			_, err := tx.Exec(
				`INSERT INTO memories (id, agent_id, level, content, created_at) VALUES (?, ?, ?, ?, ?)`,
				m.ID.String(), m.AgentID.String(), m.Level.String(), m.Content, m.CreatedAt.String(),
			)
			return err
		},
	}
}

// experienceProjection materializes experience-created (insert),
// experience-ref-added (append-only ordered ref), and the two mutation
// events that update description/sensation independently.
func experienceProjection() eventstore.Projection {
	return eventstore.Projection{
		Name: "experiences",
		Interested: eventstore.Interested(
			model.EventExperienceCreated,
			model.EventExperienceRefAdded,
			model.EventExperienceDescriptionUpdated,
			model.EventExperienceSensationUpdated,
		),
		Reset: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`DELETE FROM experience_refs`); err != nil {
				return err
			}
			_, err := tx.Exec(`DELETE FROM experiences`)
			return err
		},
		Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
			switch eventType {
			case model.EventExperienceCreated:
				var e model.Experience
				if err := json.Unmarshal(data, &e); err != nil {
					return fmt.Errorf("decode experience-created: %w", err)
				}
				_, err := tx.Exec(
					`INSERT INTO experiences (id, agent_id, sensation, description, created_at) VALUES (?, ?, ?, ?, ?)`,
					e.ID.String(), e.AgentID.String(), e.Sensation.String(), e.Description, e.CreatedAt.String(),
				)
				return err
			case model.EventExperienceRefAdded:
				var p model.ExperienceRefAdded
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode experience-ref-added: %w", err)
				}
				_, err := tx.Exec(
					`INSERT INTO experience_refs (experience_id, link, position) VALUES (?, ?, ?)`,
					p.ExperienceID.String(), p.Link.String(), p.Position,
				)
				return err
			case model.EventExperienceDescriptionUpdated:
				var p model.ExperienceDescriptionUpdated
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode experience-description-updated: %w", err)
				}
				_, err := tx.Exec(
					`UPDATE experiences SET description = ? WHERE id = ?`,
					p.Description, p.ID.String(),
				)
				return err
			case model.EventExperienceSensationUpdated:
				var p model.ExperienceSensationUpdated
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode experience-sensation-updated: %w", err)
				}
				_, err := tx.Exec(
					`UPDATE experiences SET sensation = ? WHERE id = ?`,
					p.Sensation.String(), p.ID.String(),
				)
				return err
			default:
				return nil
			}
		},
	}
}

// connectionProjection materializes connection-created and
// connection-removed (hard delete).
func connectionProjection() eventstore.Projection {
	return eventstore.Projection{
		Name:       "connections",
		Interested: eventstore.Interested(model.EventConnectionCreated, model.EventConnectionRemoved),
		Reset: func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM connections`)
			return err
		},
		Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
			switch eventType {
			case model.EventConnectionCreated:
				var c model.Connection
				if err := json.Unmarshal(data, &c); err != nil {
					return fmt.Errorf("decode connection-created: %w", err)
				}
				_, err := tx.Exec(
					`INSERT INTO connections (id, nature, from_link, to_link, created_at) VALUES (?, ?, ?, ?, ?)`,
					c.ID.String(), c.Nature.String(), c.FromLink.String(), c.ToLink.String(), c.CreatedAt.String(),
				)
				return err
			case model.EventConnectionRemoved:
				var p model.ConnectionRemoved
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode connection-removed: %w", err)
				}
				_, err := tx.Exec(`DELETE FROM connections WHERE id = ?`, p.ID.String())
				return err
			default:
				return nil
			}
		},
	}
}

// storageProjection materializes storage-set (upserts the storage row
// and writes the blob with insert-or-ignore semantics, both inside
// this projection's transaction) and storage-removed (deletes the key
// row only; blobs are GC candidates, never auto-removed).
func storageProjection() eventstore.Projection {
	return eventstore.Projection{
		Name:       "storage",
		Interested: eventstore.Interested(model.EventStorageSet, model.EventStorageRemoved),
		Reset: func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM storage`)
			return err
		},
		Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
			switch eventType {
			case model.EventStorageSet:
				var p model.StorageSet
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode storage-set: %w", err)
				}
				if err := blob.Put(tx, p.Hash, p.CompressedBytes, p.OriginalSize); err != nil {
					return err
				}
				_, err := tx.Exec(
					`INSERT INTO storage (key, description, hash) VALUES (?, ?, ?)
						ON CONFLICT(key) DO UPDATE SET description = excluded.description, hash = excluded.hash`,
					p.Key.String(), p.Description, p.Hash,
				)
				return err
			case model.EventStorageRemoved:
				var p model.StorageRemoved
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode storage-removed: %w", err)
				}
				_, err := tx.Exec(`DELETE FROM storage WHERE key = ?`, p.Key.String())
				return err
			default:
				return nil
			}
		},
	}
}
