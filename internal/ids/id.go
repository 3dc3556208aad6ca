// Package ids defines the primitive identity and naming values shared by
// every domain entity in oneiros: the dual-variant Id (time-ordered or
// content-addressed), the Label string newtype, and RFC-3339 Timestamp.
package ids

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ID is a 16-byte value that is either a UUIDv7 (time-ordered, random
// tail) or a 16-byte prefix of SHA-256 over the identity-defining fields
// of an entity ("content-addressed"). Both variants display and parse as
// canonical UUID text; the zero value is the nil UUID.
type ID [16]byte

// ErrMalformedID is returned when parsing text that isn't a canonical UUID.
var ErrMalformedID = errors.New("malformed id")

// NewID mints a fresh time-ordered identifier.
func NewID() ID {
	u, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the system clock/random source is broken;
		// fall back to a pure-random v4 rather than panic in a daemon.
		u = uuid.New()
	}
	return ID(u)
}

// IDFromContent derives a content-addressed identifier from the first 16
// bytes of SHA-256(content). Recreating an entity with identical identity
// fields always yields the same Id.
func IDFromContent(content []byte) ID {
	sum := sha256.Sum256(content)
	var id ID
	copy(id[:], sum[:16])
	return id
}

// ParseID parses the canonical UUID text form shared by both Id variants.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %s", ErrMalformedID, s)
	}
	return ID(u), nil
}

// IsEmpty reports whether this is the nil/zero id.
func (id ID) IsEmpty() bool {
	return id == ID{}
}

// Bytes returns the raw 16 bytes backing this id.
func (id ID) Bytes() []byte {
	return id[:]
}

// String renders the canonical UUID text form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Equal reports whether two ids share the same bytes.
func (id ID) Equal(other ID) bool {
	return bytes.Equal(id[:], other[:])
}

// Hex returns the raw bytes as lowercase hex, occasionally useful for
// building resource-ref strings without hyphens.
func (id ID) Hex() string {
	return hex.EncodeToString(id[:])
}

// MarshalJSON renders the id as its canonical UUID string.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON parses the canonical UUID string form.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
