package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Ref is the resource_ref stored alongside indexed text: it encodes the
// resource kind and the identifier (an Id's canonical text, or a
// vocabulary Name) used to look the resource back up.
type Ref struct {
	Kind  string
	Ident string
}

// RefKinds shared across vocabulary tables; always included in a
// name-scoped search regardless of the requesting agent.
var SharedVocabularyKinds = map[string]struct{}{
	"persona":   {},
	"texture":   {},
	"level":     {},
	"sensation": {},
	"nature":    {},
}

// String renders "kind:ident", the form persisted in the expressions
// table's primary key column.
func (r Ref) String() string {
	return r.Kind + ":" + r.Ident
}

// ParseRef splits a persisted resource_ref back into kind and identifier.
func ParseRef(s string) (Ref, error) {
	kind, ident, ok := strings.Cut(s, ":")
	if !ok {
		return Ref{}, fmt.Errorf("malformed resource ref: %s", s)
	}
	return Ref{Kind: kind, Ident: ident}, nil
}

// MarshalJSON renders "kind:ident", matching the persisted column form.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON parses the "kind:ident" form.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRef(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func RefAgent(id AgentID) Ref          { return Ref{"agent", id.String()} }
func RefCognition(id CognitionID) Ref  { return Ref{"cognition", id.String()} }
func RefMemory(id MemoryID) Ref        { return Ref{"memory", id.String()} }
func RefExperience(id ExperienceID) Ref { return Ref{"experience", id.String()} }
func RefPersona(name PersonaName) Ref   { return Ref{"persona", name.String()} }
func RefTexture(name TextureName) Ref   { return Ref{"texture", name.String()} }
func RefLevel(name LevelName) Ref       { return Ref{"level", name.String()} }
func RefSensation(name SensationName) Ref { return Ref{"sensation", name.String()} }
func RefNature(name NatureName) Ref     { return Ref{"nature", name.String()} }
func RefStorage(key StorageKey) Ref     { return Ref{"storage", key.String()} }
