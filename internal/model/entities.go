package model

import "github.com/oneiros-project/oneiros/internal/link"

// Tenant is the system-level owner of brains.
type Tenant struct {
	ID   TenantID `json:"id"`
	Name TenantName `json:"name"`
}

// Actor is the principal bound to a ticket (audit identity only).
type Actor struct {
	ID       ActorID  `json:"id"`
	TenantID TenantID `json:"tenant_id"`
	Name     Label    `json:"name"`
}

// BrainStatus is the lifecycle state of a brain. Only "active" exists
// today; the type exists so a future status can be added without
// breaking serialization of the current one.
type BrainStatus string

const BrainStatusActive BrainStatus = "active"

// Brain is a per-project database registration in the system database.
type Brain struct {
	ID       BrainID     `json:"id"`
	TenantID TenantID    `json:"tenant_id"`
	Name     BrainName   `json:"name"`
	Path     string      `json:"path"`
	Status   BrainStatus `json:"status"`
}

// Ticket authorizes one token to access one brain.
type Ticket struct {
	ID        TicketID `json:"id"`
	TokenHash string   `json:"-"`
	TenantID  TenantID `json:"tenant_id"`
	BrainID   BrainID  `json:"brain_id"`
	ActorID   ActorID  `json:"actor_id"`
	RevokedAt *Timestamp `json:"revoked_at,omitempty"`
}

// Persona is a vocabulary entry classifying agents.
type Persona struct {
	Name        PersonaName `json:"name"`
	Description string      `json:"description"`
	Prompt      string      `json:"prompt"`
}

func (p Persona) AddressLabel() string { return "persona" }
func (p Persona) Link() (Link, error) {
	return link.New(p.AddressLabel(), link.FieldString(p.Name.String())), nil
}

// Texture is a vocabulary entry classifying cognitions.
type Texture struct {
	Name        TextureName `json:"name"`
	Description string      `json:"description"`
	Prompt      string      `json:"prompt"`
}

func (t Texture) AddressLabel() string { return "texture" }
func (t Texture) Link() (Link, error) {
	return link.New(t.AddressLabel(), link.FieldString(t.Name.String())), nil
}

// Level is a vocabulary entry classifying memories.
type Level struct {
	Name        LevelName `json:"name"`
	Description string    `json:"description"`
	Prompt      string    `json:"prompt"`
}

func (l Level) AddressLabel() string { return "level" }
func (l Level) Link() (Link, error) {
	return link.New(l.AddressLabel(), link.FieldString(l.Name.String())), nil
}

// Sensation is a vocabulary entry classifying experiences.
type Sensation struct {
	Name        SensationName `json:"name"`
	Description string        `json:"description"`
	Prompt      string        `json:"prompt"`
}

func (s Sensation) AddressLabel() string { return "sensation" }
func (s Sensation) Link() (Link, error) {
	return link.New(s.AddressLabel(), link.FieldString(s.Name.String())), nil
}

// Nature is a vocabulary entry classifying connections.
type Nature struct {
	Name        NatureName `json:"name"`
	Description string     `json:"description"`
	Prompt      string     `json:"prompt"`
}

func (n Nature) AddressLabel() string { return "nature" }
func (n Nature) Link() (Link, error) {
	return link.New(n.AddressLabel(), link.FieldString(n.Name.String())), nil
}

// Agent is a named actor within a brain, classified by a persona.
type Agent struct {
	ID          AgentID     `json:"id"`
	Name        AgentName   `json:"name"`
	Persona     PersonaName `json:"persona"`
	Description string      `json:"description"`
	Prompt      string      `json:"prompt"`
}

func (a Agent) AddressLabel() string { return "agent" }
func (a Agent) Link() (Link, error) {
	return link.New(a.AddressLabel(),
		link.FieldString(a.Name.String()),
		link.FieldString(a.Persona.String()),
	), nil
}

// Cognition is an add-only thought record.
type Cognition struct {
	ID        CognitionID `json:"id"`
	AgentID   AgentID     `json:"agent_id"`
	Texture   TextureName `json:"texture"`
	Content   string      `json:"content"`
	CreatedAt Timestamp   `json:"created_at"`
}

func (c Cognition) AddressLabel() string { return "cognition" }
func (c Cognition) Link() (Link, error) {
	return link.New(c.AddressLabel(),
		link.FieldBytes(c.AgentID.Bytes()),
		link.FieldString(c.Texture.String()),
		link.FieldString(c.Content),
		link.FieldString(c.CreatedAt.String()),
	), nil
}

// Memory is an add-only recollection record.
type Memory struct {
	ID        MemoryID  `json:"id"`
	AgentID   AgentID   `json:"agent_id"`
	Level     LevelName `json:"level"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
}

func (m Memory) AddressLabel() string { return "memory" }
func (m Memory) Link() (Link, error) {
	return link.New(m.AddressLabel(),
		link.FieldBytes(m.AgentID.Bytes()),
		link.FieldString(m.Level.String()),
		link.FieldString(m.Content),
		link.FieldString(m.CreatedAt.String()),
	), nil
}

// Experience is a mutable-description record classified by a sensation.
type Experience struct {
	ID          ExperienceID  `json:"id"`
	AgentID     AgentID       `json:"agent_id"`
	Sensation   SensationName `json:"sensation"`
	Description string        `json:"description"`
	CreatedAt   Timestamp     `json:"created_at"`
}

func (e Experience) AddressLabel() string { return "experience" }
func (e Experience) Link() (Link, error) {
	return link.New(e.AddressLabel(),
		link.FieldBytes(e.AgentID.Bytes()),
		link.FieldString(e.Sensation.String()),
		link.FieldString(e.Description),
		link.FieldString(e.CreatedAt.String()),
	), nil
}

// ExperienceRef is an ordered pointer from an experience to some other
// addressable resource in the brain.
type ExperienceRef struct {
	ExperienceID ExperienceID `json:"experience_id"`
	RefLink      Link         `json:"link"`
	Position     int          `json:"position"`
}

// Connection is a directed, typed edge between two Link endpoints.
// Endpoints may form arbitrary graphs, including cycles; nothing in the
// core traverses them.
type Connection struct {
	ID        ConnectionID `json:"id"`
	Nature    NatureName   `json:"nature"`
	FromLink  Link         `json:"from_link"`
	ToLink    Link         `json:"to_link"`
	CreatedAt Timestamp    `json:"created_at"`
}

// StorageEntry is a named pointer into the blob store.
type StorageEntry struct {
	Key         StorageKey `json:"key"`
	Description string     `json:"description"`
	Hash        string     `json:"hash"`
}

func (s StorageEntry) AddressLabel() string { return "storage" }
func (s StorageEntry) Link() (Link, error) {
	return link.New(s.AddressLabel(), link.FieldString(s.Key.String())), nil
}

// Expression is one indexed text fragment returned by a search query.
type Expression struct {
	ResourceRef Ref    `json:"resource_ref"`
	Kind        string `json:"kind"`
	Content     string `json:"content"`
}
