package ids

// This file is the Go analogue of the reference implementation's
// domain_name! macro: a family of newtypes over Label, one per resource,
// so that e.g. an AgentName and a PersonaName are distinct types even
// though both are "just a string" underneath. Go has no declarative-macro
// facility, so the family is spelled out explicitly; each type is a plain
// string definition (not a struct embedding Label) so that the default
// JSON encoding stays a transparent string, matching the reference
// implementation's #[serde(transparent)].

// AgentName names an agent.
type AgentName string

// PersonaName names a persona vocabulary entry.
type PersonaName string

// LevelName names a memory-level vocabulary entry.
type LevelName string

// TextureName names a cognition-texture vocabulary entry.
type TextureName string

// SensationName names an experience-sensation vocabulary entry.
type SensationName string

// NatureName names a connection-nature vocabulary entry.
type NatureName string

// StorageKey names a stored blob's logical slot.
type StorageKey string

// BrainName names a brain (project database).
type BrainName string

// TenantName names a tenant.
type TenantName string

func (n AgentName) String() string     { return string(n) }
func (n PersonaName) String() string   { return string(n) }
func (n LevelName) String() string     { return string(n) }
func (n TextureName) String() string   { return string(n) }
func (n SensationName) String() string { return string(n) }
func (n NatureName) String() string    { return string(n) }
func (n StorageKey) String() string    { return string(n) }
func (n BrainName) String() string     { return string(n) }
func (n TenantName) String() string    { return string(n) }

func (n AgentName) IsEmpty() bool     { return n == "" }
func (n PersonaName) IsEmpty() bool   { return n == "" }
func (n LevelName) IsEmpty() bool     { return n == "" }
func (n TextureName) IsEmpty() bool   { return n == "" }
func (n SensationName) IsEmpty() bool { return n == "" }
func (n NatureName) IsEmpty() bool    { return n == "" }
func (n StorageKey) IsEmpty() bool    { return n == "" }
func (n BrainName) IsEmpty() bool     { return n == "" }
func (n TenantName) IsEmpty() bool    { return n == "" }
