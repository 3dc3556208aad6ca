package api

import (
	"net/http"

	"github.com/oneiros-project/oneiros/internal/apperr"
	"github.com/oneiros-project/oneiros/internal/brain"
	"github.com/oneiros-project/oneiros/internal/eventstore"
	"github.com/oneiros-project/oneiros/internal/ids"
	"github.com/oneiros-project/oneiros/internal/model"
	"github.com/oneiros-project/oneiros/internal/system"
	"github.com/oneiros-project/oneiros/internal/token"
)

type createBrainRequest struct {
	Name string `json:"name"`
}

type brainResponse struct {
	Entity model.Brain `json:"entity"`
	Token  string      `json:"token"`
}

// ticketIssuedEvent mirrors the system package's private ticket-issued
// payload shape; defined locally because model.Ticket's TokenHash field
// is json:"-" (never exposed over the wire) and the event itself must
// carry the hash.
type ticketIssuedEvent struct {
	ID        model.TicketID `json:"id"`
	TokenHash string         `json:"token_hash"`
	TenantID  model.TenantID `json:"tenant_id"`
	BrainID   model.BrainID  `json:"brain_id"`
	ActorID   model.ActorID  `json:"actor_id"`
}

func (s *Server) handleCreateBrain(w http.ResponseWriter, r *http.Request) {
	var req createBrainRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, apperr.BadRequest("brain name is required"))
		return
	}
	brainName := model.BrainName(req.Name)

	var resp brainResponse
	err := s.withSystemWrite(func(sys *system.Store) error {
		tenant, err := sys.GetTenantByName(model.TenantName(s.cfg.TenantName))
		if err == system.ErrNotFound {
			tenant = model.Tenant{ID: ids.NewTenantID(), Name: model.TenantName(s.cfg.TenantName)}
			if _, _, err := sys.Events.Append(model.EventTenantCreated, tenant, system.Projections()); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if _, err := sys.GetBrainByName(tenant.ID, brainName); err == nil {
			return apperr.Conflict("brain already exists: %s", brainName.String())
		} else if err != system.ErrNotFound {
			return err
		}

		actor, err := sys.GetAnyActorForTenant(tenant.ID)
		if err == system.ErrNotFound {
			actor = model.Actor{ID: ids.NewActorID(), TenantID: tenant.ID, Name: model.Label("default")}
			if _, _, err := sys.Events.Append(model.EventActorCreated, actor, system.Projections()); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		dbPath := s.layout.BrainPath(req.Name)
		brainStore, err := brain.Open(dbPath)
		if err != nil {
			return apperr.Internal(err)
		}
		brainStore.Close()

		newBrain := model.Brain{
			ID:       ids.NewBrainID(),
			TenantID: tenant.ID,
			Name:     brainName,
			Path:     dbPath,
			Status:   model.BrainStatusActive,
		}

		claims := model.TokenClaims{BrainID: newBrain.ID, TenantID: tenant.ID, ActorID: actor.ID}
		tokenText := token.Encode(claims)

		ticketEvent := ticketIssuedEvent{
			ID:        ids.NewTicketID(),
			TokenHash: token.Hash(tokenText),
			TenantID:  tenant.ID,
			BrainID:   newBrain.ID,
			ActorID:   actor.ID,
		}

		// brain-created and the ticket-issued that follows it must land
		// and project atomically: a ticket-issued failure must not leave
		// an orphan brain with no way to authenticate against it.
		if _, err := sys.Events.AppendBatch([]eventstore.AppendEntry{
			{Type: model.EventBrainCreated, Payload: newBrain},
			{Type: model.EventTicketIssued, Payload: ticketEvent},
		}, system.Projections()); err != nil {
			return err
		}

		resp = brainResponse{Entity: newBrain, Token: tokenText}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
