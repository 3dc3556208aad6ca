package brain

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/eventstore"
	"github.com/oneiros-project/oneiros/internal/model"
)

// searchProjection keeps the expressions/expressions_fts pair in sync
// with every textual field in the brain. It is registered first among
// the brain projections (see Store.Projections) so it observes an
// event before any resource table it might otherwise need to join
// against has been mutated.
func searchProjection() eventstore.Projection {
	interested := eventstore.Interested(
		model.EventPersonaSet, model.EventPersonaRemoved,
		model.EventTextureSet, model.EventTextureRemoved,
		model.EventLevelSet, model.EventLevelRemoved,
		model.EventSensationSet, model.EventSensationRemoved,
		model.EventNatureSet, model.EventNatureRemoved,
		model.EventAgentCreated, model.EventAgentUpdated, model.EventAgentRemoved,
		model.EventCognitionAdded,
		model.EventMemoryAdded,
		model.EventExperienceCreated, model.EventExperienceDescriptionUpdated,
		model.EventStorageSet, model.EventStorageRemoved,
	)
	return eventstore.Projection{
		Name:       "expressions",
		Interested: interested,
		Reset: func(tx *sql.Tx) error {
			// expressions_fts is an external-content FTS5 table: deleting
			// from expressions first lets its AFTER DELETE trigger retire
			// the matching index rows. Deleting expressions_fts directly
			// (even first) desyncs the two once the trigger fires again
			// for rows whose index entries are already gone, which SQLite
			// surfaces as a corrupt/malformed database error.
			_, err := tx.Exec(`DELETE FROM expressions`)
			return err
		},
		Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
			switch eventType {
			case model.EventPersonaSet:
				var p vocabPayload
				return decodeAndUpsertVocab(tx, data, &p, "persona", func() (model.Ref, string) {
					return model.RefPersona(model.PersonaName(p.Name)), vocabSearchText(p.Description, p.Prompt)
				})
			case model.EventPersonaRemoved:
				return deleteByName(tx, data, "persona")
			case model.EventTextureSet:
				var p vocabPayload
				return decodeAndUpsertVocab(tx, data, &p, "texture", func() (model.Ref, string) {
					return model.RefTexture(model.TextureName(p.Name)), vocabSearchText(p.Description, p.Prompt)
				})
			case model.EventTextureRemoved:
				return deleteByName(tx, data, "texture")
			case model.EventLevelSet:
				var p vocabPayload
				return decodeAndUpsertVocab(tx, data, &p, "level", func() (model.Ref, string) {
					return model.RefLevel(model.LevelName(p.Name)), vocabSearchText(p.Description, p.Prompt)
				})
			case model.EventLevelRemoved:
				return deleteByName(tx, data, "level")
			case model.EventSensationSet:
				var p vocabPayload
				return decodeAndUpsertVocab(tx, data, &p, "sensation", func() (model.Ref, string) {
					return model.RefSensation(model.SensationName(p.Name)), vocabSearchText(p.Description, p.Prompt)
				})
			case model.EventSensationRemoved:
				return deleteByName(tx, data, "sensation")
			case model.EventNatureSet:
				var p vocabPayload
				return decodeAndUpsertVocab(tx, data, &p, "nature", func() (model.Ref, string) {
					return model.RefNature(model.NatureName(p.Name)), vocabSearchText(p.Description, p.Prompt)
				})
			case model.EventNatureRemoved:
				return deleteByName(tx, data, "nature")

			case model.EventAgentCreated, model.EventAgentUpdated:
				var a model.Agent
				if err := json.Unmarshal(data, &a); err != nil {
					return fmt.Errorf("decode %s for search: %w", eventType, err)
				}
				return upsertExpression(tx, model.RefAgent(a.ID), "agent", vocabSearchText(a.Description, a.Prompt))
			case model.EventAgentRemoved:
				var p model.AgentRemoved
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode agent-removed for search: %w", err)
				}
				// agent-removed carries only the name; the projection order
				// guarantees search runs before the agents table is mutated,
				// so the id can still be resolved through it here.
				var idText string
				err := tx.QueryRow(`SELECT id FROM agents WHERE name = ?`, p.Name.String()).Scan(&idText)
				if err == sql.ErrNoRows {
					return nil
				}
				if err != nil {
					return fmt.Errorf("resolve removed agent id for search: %w", err)
				}
				_, err = tx.Exec(`DELETE FROM expressions WHERE resource_ref = ?`, model.Ref{Kind: "agent", Ident: idText}.String())
				return err

			case model.EventCognitionAdded:
				var c model.Cognition
				if err := json.Unmarshal(data, &c); err != nil {
					return fmt.Errorf("decode cognition-added for search: %w", err)
				}
				return upsertExpression(tx, model.RefCognition(c.ID), "cognition", c.Content)
			case model.EventMemoryAdded:
				var m model.Memory
				if err := json.Unmarshal(data, &m); err != nil {
					return fmt.Errorf("decode memory-added for search: %w", err)
				}
				return upsertExpression(tx, model.RefMemory(m.ID), "memory", m.Content)
			case model.EventExperienceCreated:
				var e model.Experience
				if err := json.Unmarshal(data, &e); err != nil {
					return fmt.Errorf("decode experience-created for search: %w", err)
				}
				return upsertExpression(tx, model.RefExperience(e.ID), "experience", e.Description)
			case model.EventExperienceDescriptionUpdated:
				var p model.ExperienceDescriptionUpdated
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode experience-description-updated for search: %w", err)
				}
				return upsertExpression(tx, model.RefExperience(p.ID), "experience", p.Description)

			case model.EventStorageSet:
				var p model.StorageSet
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode storage-set for search: %w", err)
				}
				return upsertExpression(tx, model.RefStorage(p.Key), "storage", p.Description)
			case model.EventStorageRemoved:
				var p model.StorageRemoved
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode storage-removed for search: %w", err)
				}
				_, err := tx.Exec(`DELETE FROM expressions WHERE resource_ref = ?`, model.RefStorage(p.Key).String())
				return err
			default:
				return nil
			}
		},
	}
}

func vocabSearchText(description, prompt string) string {
	if prompt == "" {
		return description
	}
	return description + "\n" + prompt
}

func decodeAndUpsertVocab(tx *sql.Tx, data json.RawMessage, p *vocabPayload, kind string, build func() (model.Ref, string)) error {
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("decode %s-set for search: %w", kind, err)
	}
	ref, content := build()
	return upsertExpression(tx, ref, kind, content)
}

func deleteByName(tx *sql.Tx, data json.RawMessage, kind string) error {
	var p vocabRemovedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode %s-removed for search: %w", kind, err)
	}
	_, err := tx.Exec(`DELETE FROM expressions WHERE resource_ref = ?`, model.Ref{Kind: kind, Ident: p.Name}.String())
	return err
}

func upsertExpression(tx *sql.Tx, ref model.Ref, kind, content string) error {
	_, err := tx.Exec(
		`INSERT INTO expressions (resource_ref, kind, content) VALUES (?, ?, ?)
			ON CONFLICT(resource_ref) DO UPDATE SET content = excluded.content`,
		ref.String(), kind, content,
	)
	return err
}
