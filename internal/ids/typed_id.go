package ids

// This file is the Go analogue of the reference implementation's
// domain_id! macro: one struct per resource, embedding Id so that
// MarshalJSON/UnmarshalJSON/String are promoted unchanged (encoding/json
// honors a promoted Marshaler implementation, so these still serialize as
// a bare UUID string rather than a nested object).

// AgentID identifies an agent.
type AgentID struct{ ID }

// CognitionID identifies a cognition record.
type CognitionID struct{ ID }

// MemoryID identifies a memory record.
type MemoryID struct{ ID }

// ExperienceID identifies an experience record.
type ExperienceID struct{ ID }

// ConnectionID identifies a connection record.
type ConnectionID struct{ ID }

// BrainID identifies a brain (project database).
type BrainID struct{ ID }

// TenantID identifies a tenant.
type TenantID struct{ ID }

// ActorID identifies an actor (audit principal bound to a ticket).
type ActorID struct{ ID }

// TicketID identifies an issued ticket.
type TicketID struct{ ID }

// EventID identifies an event-log row.
type EventID struct{ ID }

// NewAgentID mints a fresh time-ordered agent id.
func NewAgentID() AgentID { return AgentID{NewID()} }

// NewExperienceID mints a fresh time-ordered experience id.
func NewExperienceID() ExperienceID { return ExperienceID{NewID()} }

// NewCognitionID mints a fresh time-ordered cognition id.
func NewCognitionID() CognitionID { return CognitionID{NewID()} }

// NewMemoryID mints a fresh time-ordered memory id.
func NewMemoryID() MemoryID { return MemoryID{NewID()} }

// NewConnectionID mints a fresh time-ordered connection id.
func NewConnectionID() ConnectionID { return ConnectionID{NewID()} }

// NewBrainID mints a fresh time-ordered brain id.
func NewBrainID() BrainID { return BrainID{NewID()} }

// NewTenantID mints a fresh time-ordered tenant id.
func NewTenantID() TenantID { return TenantID{NewID()} }

// NewActorID mints a fresh time-ordered actor id.
func NewActorID() ActorID { return ActorID{NewID()} }

// NewTicketID mints a fresh time-ordered ticket id.
func NewTicketID() TicketID { return TicketID{NewID()} }

// NewEventID mints a fresh time-ordered event id.
func NewEventID() EventID { return EventID{NewID()} }

// AgentIDFromContent derives a content-addressed agent id from its
// identity-defining fields (name, persona), already postcard-equivalent
// serialized by the caller via the wire package.
func AgentIDFromContent(content []byte) AgentID { return AgentID{IDFromContent(content)} }

// ParseAgentID parses a canonical UUID string as an AgentID.
func ParseAgentID(s string) (AgentID, error) { id, err := ParseID(s); return AgentID{id}, err }

// ParseCognitionID parses a canonical UUID string as a CognitionID.
func ParseCognitionID(s string) (CognitionID, error) { id, err := ParseID(s); return CognitionID{id}, err }

// ParseMemoryID parses a canonical UUID string as a MemoryID.
func ParseMemoryID(s string) (MemoryID, error) { id, err := ParseID(s); return MemoryID{id}, err }

// ParseExperienceID parses a canonical UUID string as an ExperienceID.
func ParseExperienceID(s string) (ExperienceID, error) {
	id, err := ParseID(s)
	return ExperienceID{id}, err
}

// ParseConnectionID parses a canonical UUID string as a ConnectionID.
func ParseConnectionID(s string) (ConnectionID, error) {
	id, err := ParseID(s)
	return ConnectionID{id}, err
}

// ParseBrainID parses a canonical UUID string as a BrainID.
func ParseBrainID(s string) (BrainID, error) { id, err := ParseID(s); return BrainID{id}, err }

// ParseTenantID parses a canonical UUID string as a TenantID.
func ParseTenantID(s string) (TenantID, error) { id, err := ParseID(s); return TenantID{id}, err }

// ParseActorID parses a canonical UUID string as an ActorID.
func ParseActorID(s string) (ActorID, error) { id, err := ParseID(s); return ActorID{id}, err }
