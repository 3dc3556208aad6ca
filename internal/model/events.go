package model

// Event type discriminators. These are the closed set of kebab-case
// variant names carried in an event envelope's "type" field; every
// historic pairing of one of these with its "data" payload must continue
// to deserialize forever (see the stability suite in internal/brain).
const (
	EventTenantCreated = "tenant-created"
	EventActorCreated  = "actor-created"
	EventBrainCreated  = "brain-created"
	EventTicketIssued  = "ticket-issued"
	EventTicketRevoked = "ticket-revoked"

	EventPersonaSet        = "persona-set"
	EventPersonaRemoved    = "persona-removed"
	EventTextureSet        = "texture-set"
	EventTextureRemoved    = "texture-removed"
	EventLevelSet          = "level-set"
	EventLevelRemoved      = "level-removed"
	EventSensationSet      = "sensation-set"
	EventSensationRemoved  = "sensation-removed"
	EventNatureSet         = "nature-set"
	EventNatureRemoved     = "nature-removed"

	EventAgentCreated = "agent-created"
	EventAgentUpdated = "agent-updated"
	EventAgentRemoved = "agent-removed"

	EventCognitionAdded                  = "cognition-added"
	EventMemoryAdded                      = "memory-added"
	EventExperienceCreated                = "experience-created"
	EventExperienceRefAdded                = "experience-ref-added"
	EventExperienceDescriptionUpdated      = "experience-description-updated"
	// EventExperienceSensationUpdated supplements the distilled event set:
	// the original implementation's handlers/experience/update_sensation.rs
	// mutates an experience's sensation independently of its description,
	// so the event log needs a variant for that half of the mutation too.
	EventExperienceSensationUpdated = "experience-sensation-updated"
	EventConnectionCreated          = "connection-created"
	EventConnectionRemoved          = "connection-removed"

	EventStorageSet     = "storage-set"
	EventStorageRemoved = "storage-removed"

	// Lifecycle events are audit-only: preserved in the log, never
	// projected, purely advisory per the reference implementation's
	// design note.
	EventWoke                   = "woke"
	EventSlept                  = "slept"
	EventEmerged                = "emerged"
	EventReceded                = "receded"
	EventDreamBegun             = "dream-begun"
	EventDreamComplete          = "dream-complete"
	EventIntrospectionBegun     = "introspection-begun"
	EventIntrospectionComplete  = "introspection-complete"
	EventReflectionBegun        = "reflection-begun"
	EventReflectionComplete     = "reflection-complete"
	EventSensed                 = "sensed"
)

// PersonaRemoved is the payload of a persona-removed event.
type PersonaRemoved struct {
	Name PersonaName `json:"name"`
}

// TextureRemoved is the payload of a texture-removed event.
type TextureRemoved struct {
	Name TextureName `json:"name"`
}

// LevelRemoved is the payload of a level-removed event.
type LevelRemoved struct {
	Name LevelName `json:"name"`
}

// SensationRemoved is the payload of a sensation-removed event.
type SensationRemoved struct {
	Name SensationName `json:"name"`
}

// NatureRemoved is the payload of a nature-removed event.
type NatureRemoved struct {
	Name NatureName `json:"name"`
}

// AgentRemoved is the payload of an agent-removed event.
type AgentRemoved struct {
	Name AgentName `json:"name"`
}

// ExperienceRefAdded is the payload of an experience-ref-added event.
type ExperienceRefAdded struct {
	ExperienceID ExperienceID `json:"experience_id"`
	Link         Link         `json:"link"`
	Position     int          `json:"position"`
}

// ExperienceDescriptionUpdated is the payload of an
// experience-description-updated event.
type ExperienceDescriptionUpdated struct {
	ID          ExperienceID `json:"id"`
	Description string       `json:"description"`
}

// ExperienceSensationUpdated is the payload of an
// experience-sensation-updated event.
type ExperienceSensationUpdated struct {
	ID        ExperienceID  `json:"id"`
	Sensation SensationName `json:"sensation"`
}

// ConnectionRemoved is the payload of a connection-removed event.
type ConnectionRemoved struct {
	ID ConnectionID `json:"id"`
}

// StorageRemoved is the payload of a storage-removed event.
type StorageRemoved struct {
	Key StorageKey `json:"key"`
}

// StorageSet is the payload of a storage-set event. It carries the
// already-compressed bytes and original size alongside the key/
// description/hash so the storage and blobs tables can both be
// upserted from within the single projection transaction the event
// store provides — the blob write has no transaction of its own.
type StorageSet struct {
	Key             StorageKey `json:"key"`
	Description     string     `json:"description"`
	Hash            string     `json:"hash"`
	CompressedBytes []byte     `json:"compressed_bytes"`
	OriginalSize    int        `json:"original_size"`
}
