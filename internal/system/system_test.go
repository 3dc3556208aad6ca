package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneiros-project/oneiros/internal/ids"
	"github.com/oneiros-project/oneiros/internal/model"
)

func openTestSystem(t *testing.T) *Store {
	t.Helper()
	sys, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sys.Close() })
	return sys
}

func seedTenant(t *testing.T, sys *Store, name string) model.Tenant {
	t.Helper()
	tenant := model.Tenant{ID: ids.NewTenantID(), Name: model.TenantName(name)}
	_, _, err := sys.Events.Append(model.EventTenantCreated, tenant, Projections())
	require.NoError(t, err)
	return tenant
}

func seedActor(t *testing.T, sys *Store, tenantID model.TenantID, name string) model.Actor {
	t.Helper()
	actor := model.Actor{ID: ids.NewActorID(), TenantID: tenantID, Name: model.Label(name)}
	_, _, err := sys.Events.Append(model.EventActorCreated, actor, Projections())
	require.NoError(t, err)
	return actor
}

func seedBrain(t *testing.T, sys *Store, tenantID model.TenantID, name string) model.Brain {
	t.Helper()
	brain := model.Brain{
		ID:       ids.NewBrainID(),
		TenantID: tenantID,
		Name:     model.BrainName(name),
		Path:     "/tmp/" + name + ".db",
		Status:   model.BrainStatusActive,
	}
	_, _, err := sys.Events.Append(model.EventBrainCreated, brain, Projections())
	require.NoError(t, err)
	return brain
}

func issueTicket(t *testing.T, sys *Store, tenantID model.TenantID, brainID model.BrainID, actorID model.ActorID, tokenHash string) model.TicketID {
	t.Helper()
	ticketID := ids.NewTicketID()
	payload := ticketIssuedPayload{ID: ticketID, TokenHash: tokenHash, TenantID: tenantID, BrainID: brainID, ActorID: actorID}
	_, _, err := sys.Events.Append(model.EventTicketIssued, payload, Projections())
	require.NoError(t, err)
	return ticketID
}

func TestTenantActorBrainProjections(t *testing.T) {
	sys := openTestSystem(t)
	tenant := seedTenant(t, sys, "acme")
	actor := seedActor(t, sys, tenant.ID, "default")
	brain := seedBrain(t, sys, tenant.ID, "alpha")

	got, err := sys.GetTenantByName(model.TenantName("acme"))
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, got.ID)

	gotActor, err := sys.GetAnyActorForTenant(tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, gotActor.ID)

	gotBrain, err := sys.GetBrainByName(tenant.ID, model.BrainName("alpha"))
	require.NoError(t, err)
	assert.Equal(t, brain.ID, gotBrain.ID)

	path, err := sys.GetBrainPath(brain.ID)
	require.NoError(t, err)
	assert.Equal(t, brain.Path, path)

	brains, err := sys.ListBrains(tenant.ID)
	require.NoError(t, err)
	require.Len(t, brains, 1)
	assert.Equal(t, brain.ID, brains[0].ID)
}

func TestGetBrainPathMissing(t *testing.T) {
	sys := openTestSystem(t)
	_, err := sys.GetBrainPath(model.BrainID{ID: ids.NewID()})
	assert.Equal(t, ErrNotFound, err)
}

func TestValidateTicketLifecycle(t *testing.T) {
	sys := openTestSystem(t)
	tenant := seedTenant(t, sys, "acme")
	actor := seedActor(t, sys, tenant.ID, "default")
	brain := seedBrain(t, sys, tenant.ID, "alpha")
	ticketID := issueTicket(t, sys, tenant.ID, brain.ID, actor.ID, "hash-1")

	valid, err := sys.ValidateTicket("hash-1")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = sys.ValidateTicket("unknown-hash")
	require.NoError(t, err)
	assert.False(t, valid, "a hash with no matching ticket row is invalid")

	revoked := ticketRevokedPayload{ID: ticketID, RevokedAt: ids.Now()}
	_, _, err = sys.Events.Append(model.EventTicketRevoked, revoked, Projections())
	require.NoError(t, err)

	valid, err = sys.ValidateTicket("hash-1")
	require.NoError(t, err)
	assert.False(t, valid, "a revoked ticket must no longer validate")
}

func TestGetTicketByHashBindingFields(t *testing.T) {
	sys := openTestSystem(t)
	tenant := seedTenant(t, sys, "acme")
	actor := seedActor(t, sys, tenant.ID, "default")
	brain := seedBrain(t, sys, tenant.ID, "alpha")
	issueTicket(t, sys, tenant.ID, brain.ID, actor.ID, "hash-2")

	ticket, err := sys.GetTicketByHash("hash-2")
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, ticket.TenantID)
	assert.Equal(t, brain.ID, ticket.BrainID)
	assert.Equal(t, actor.ID, ticket.ActorID)
	assert.Nil(t, ticket.RevokedAt)
}

func TestSystemReplayReproducesTables(t *testing.T) {
	sys := openTestSystem(t)
	tenant := seedTenant(t, sys, "acme")
	seedActor(t, sys, tenant.ID, "default")
	seedBrain(t, sys, tenant.ID, "alpha")
	seedBrain(t, sys, tenant.ID, "beta")

	before, err := sys.ListBrains(tenant.ID)
	require.NoError(t, err)
	require.Len(t, before, 2)

	applied, warnings, err := sys.Replay()
	require.NoError(t, err)
	assert.Equal(t, 0, warnings)
	assert.Greater(t, applied, 0)

	after, err := sys.ListBrains(tenant.ID)
	require.NoError(t, err)
	assert.Len(t, after, 2, "replay must reproduce the same brain rows")
}
