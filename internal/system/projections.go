package system

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/eventstore"
	"github.com/oneiros-project/oneiros/internal/model"
)

// tenantCreatedPayload is the data half of a tenant-created event.
type tenantCreatedPayload struct {
	ID   model.TenantID   `json:"id"`
	Name model.TenantName `json:"name"`
}

// actorCreatedPayload is the data half of an actor-created event.
type actorCreatedPayload struct {
	ID       model.ActorID  `json:"id"`
	TenantID model.TenantID `json:"tenant_id"`
	Name     model.Label    `json:"name"`
}

// brainCreatedPayload is the data half of a brain-created event.
type brainCreatedPayload struct {
	ID       model.BrainID   `json:"id"`
	TenantID model.TenantID  `json:"tenant_id"`
	Name     model.BrainName `json:"name"`
	Path     string          `json:"path"`
}

// ticketIssuedPayload is the data half of a ticket-issued event.
type ticketIssuedPayload struct {
	ID        model.TicketID `json:"id"`
	TokenHash string         `json:"token_hash"`
	TenantID  model.TenantID `json:"tenant_id"`
	BrainID   model.BrainID  `json:"brain_id"`
	ActorID   model.ActorID  `json:"actor_id"`
}

// ticketRevokedPayload is the data half of a ticket-revoked event.
type ticketRevokedPayload struct {
	ID        model.TicketID  `json:"id"`
	RevokedAt model.Timestamp `json:"revoked_at"`
}

// Projections returns every projection that keeps the system tables in
// sync with the system event log, in the order Replay should reset them
// (tenants before actors/brains before tickets, matching the foreign
// key dependency order).
func Projections() []eventstore.Projection {
	return []eventstore.Projection{tenantProjection(), actorProjection(), brainProjection(), ticketProjection()}
}

func tenantProjection() eventstore.Projection {
	return eventstore.Projection{
		Name:       "tenants",
		Interested: eventstore.Interested(model.EventTenantCreated),
		Reset: func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM tenants`)
			return err
		},
		Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
			var p tenantCreatedPayload
			if err := json.Unmarshal(data, &p); err != nil {
				return fmt.Errorf("decode tenant-created: %w", err)
			}
			_, err := tx.Exec(
				`INSERT INTO tenants (id, name) VALUES (?, ?)`,
				p.ID.String(), p.Name.String(),
			)
			return err
		},
	}
}

func actorProjection() eventstore.Projection {
	return eventstore.Projection{
		Name:       "actors",
		Interested: eventstore.Interested(model.EventActorCreated),
		Reset: func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM actors`)
			return err
		},
		Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
			var p actorCreatedPayload
			if err := json.Unmarshal(data, &p); err != nil {
				return fmt.Errorf("decode actor-created: %w", err)
			}
			_, err := tx.Exec(
				`INSERT INTO actors (id, tenant_id, name) VALUES (?, ?, ?)`,
				p.ID.String(), p.TenantID.String(), p.Name.String(),
			)
			return err
		},
	}
}

func brainProjection() eventstore.Projection {
	return eventstore.Projection{
		Name:       "brains",
		Interested: eventstore.Interested(model.EventBrainCreated),
		Reset: func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM brains`)
			return err
		},
		Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
			var p brainCreatedPayload
			if err := json.Unmarshal(data, &p); err != nil {
				return fmt.Errorf("decode brain-created: %w", err)
			}
			_, err := tx.Exec(
				`INSERT INTO brains (id, tenant_id, name, path, status) VALUES (?, ?, ?, ?, ?)`,
				p.ID.String(), p.TenantID.String(), p.Name.String(), p.Path, string(model.BrainStatusActive),
			)
			return err
		},
	}
}

func ticketProjection() eventstore.Projection {
	return eventstore.Projection{
		Name:       "tickets",
		Interested: eventstore.Interested(model.EventTicketIssued, model.EventTicketRevoked),
		Reset: func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM tickets`)
			return err
		},
		Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
			switch eventType {
			case model.EventTicketIssued:
				var p ticketIssuedPayload
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode ticket-issued: %w", err)
				}
				_, err := tx.Exec(
					`INSERT INTO tickets (id, token_hash, tenant_id, brain_id, actor_id, revoked_at) VALUES (?, ?, ?, ?, ?, NULL)`,
					p.ID.String(), p.TokenHash, p.TenantID.String(), p.BrainID.String(), p.ActorID.String(),
				)
				return err
			case model.EventTicketRevoked:
				var p ticketRevokedPayload
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode ticket-revoked: %w", err)
				}
				_, err := tx.Exec(
					`UPDATE tickets SET revoked_at = ? WHERE id = ?`,
					p.RevokedAt.String(), p.ID.String(),
				)
				return err
			default:
				return nil
			}
		},
	}
}
