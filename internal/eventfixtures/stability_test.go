package eventfixtures

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneiros-project/oneiros/internal/model"
)

// brainCreatedFixture and the ticket payloads below mirror the
// unexported shapes internal/system projects from; a fixture only
// needs to prove the bytes still decode into *a* struct with the same
// field set, not to import the private projection type itself.
type brainCreatedFixture struct {
	ID       model.BrainID   `json:"id"`
	TenantID model.TenantID  `json:"tenant_id"`
	Name     model.BrainName `json:"name"`
	Path     string          `json:"path"`
}

type ticketIssuedFixture struct {
	ID        model.TicketID `json:"id"`
	TokenHash string         `json:"token_hash"`
	TenantID  model.TenantID `json:"tenant_id"`
	BrainID   model.BrainID  `json:"brain_id"`
	ActorID   model.ActorID  `json:"actor_id"`
}

type ticketRevokedFixture struct {
	ID        model.TicketID  `json:"id"`
	RevokedAt model.Timestamp `json:"revoked_at"`
}

type lifecycleAgentFixture struct {
	Agent string `json:"agent"`
}

type senseFixture struct {
	Agent     string `json:"agent"`
	Sensation string `json:"sensation"`
}

// targetFor returns a pointer to a zero value of the type a given
// event type's data must still deserialize into. Unrecognized types
// fail the test outright: every entry in All must be covered here.
func targetFor(t *testing.T, eventType string) any {
	t.Helper()
	switch eventType {
	case "tenant-created":
		return &model.Tenant{}
	case "actor-created":
		return &model.Actor{}
	case "brain-created":
		return &brainCreatedFixture{}
	case "ticket-issued":
		return &ticketIssuedFixture{}
	case "ticket-revoked":
		return &ticketRevokedFixture{}
	case "persona-set":
		return &model.Persona{}
	case "persona-removed":
		return &model.PersonaRemoved{}
	case "texture-set":
		return &model.Texture{}
	case "texture-removed":
		return &model.TextureRemoved{}
	case "level-set":
		return &model.Level{}
	case "level-removed":
		return &model.LevelRemoved{}
	case "sensation-set":
		return &model.Sensation{}
	case "sensation-removed":
		return &model.SensationRemoved{}
	case "nature-set":
		return &model.Nature{}
	case "nature-removed":
		return &model.NatureRemoved{}
	case "agent-created", "agent-updated":
		return &model.Agent{}
	case "agent-removed":
		return &model.AgentRemoved{}
	case "cognition-added":
		return &model.Cognition{}
	case "memory-added":
		return &model.Memory{}
	case "experience-created":
		return &model.Experience{}
	case "experience-ref-added":
		return &model.ExperienceRefAdded{}
	case "experience-description-updated":
		return &model.ExperienceDescriptionUpdated{}
	case "experience-sensation-updated":
		return &model.ExperienceSensationUpdated{}
	case "connection-created":
		return &model.Connection{}
	case "connection-removed":
		return &model.ConnectionRemoved{}
	case "storage-set":
		return &model.StorageSet{}
	case "storage-removed":
		return &model.StorageRemoved{}
	case "woke", "slept", "emerged", "receded",
		"dream-begun", "dream-complete",
		"introspection-begun", "introspection-complete",
		"reflection-begun", "reflection-complete":
		return &lifecycleAgentFixture{}
	case "sensed":
		return &senseFixture{}
	default:
		t.Fatalf("no fixture target registered for event type %q", eventType)
		return nil
	}
}

func TestBundledFixturesStillDeserialize(t *testing.T) {
	require.NotEmpty(t, All, "the bundled fixture set must not be empty")
	for _, fixture := range All {
		fixture := fixture
		t.Run(fixture.Type, func(t *testing.T) {
			target := targetFor(t, fixture.Type)
			err := json.Unmarshal(fixture.Data, target)
			assert.NoError(t, err, "historic %s payload must still deserialize: %s", fixture.Type, fixture.Data)
		})
	}
}

func TestEveryEventConstantHasAFixture(t *testing.T) {
	want := []string{
		model.EventTenantCreated, model.EventActorCreated, model.EventBrainCreated,
		model.EventTicketIssued, model.EventTicketRevoked,
		model.EventPersonaSet, model.EventPersonaRemoved,
		model.EventTextureSet, model.EventTextureRemoved,
		model.EventLevelSet, model.EventLevelRemoved,
		model.EventSensationSet, model.EventSensationRemoved,
		model.EventNatureSet, model.EventNatureRemoved,
		model.EventAgentCreated, model.EventAgentUpdated, model.EventAgentRemoved,
		model.EventCognitionAdded, model.EventMemoryAdded,
		model.EventExperienceCreated, model.EventExperienceRefAdded,
		model.EventExperienceDescriptionUpdated, model.EventExperienceSensationUpdated,
		model.EventConnectionCreated, model.EventConnectionRemoved,
		model.EventStorageSet, model.EventStorageRemoved,
		model.EventWoke, model.EventSlept, model.EventEmerged, model.EventReceded,
		model.EventDreamBegun, model.EventDreamComplete,
		model.EventIntrospectionBegun, model.EventIntrospectionComplete,
		model.EventReflectionBegun, model.EventReflectionComplete,
		model.EventSensed,
	}
	have := make(map[string]bool, len(All))
	for _, f := range All {
		have[f.Type] = true
	}
	for _, ev := range want {
		assert.True(t, have[ev], "event type %q has no bundled fixture", ev)
	}
}
