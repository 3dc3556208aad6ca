// Package link implements the content-addressable Link reference: a
// versioned, base64url-no-pad encoded tuple of {resource_label, identity
// fields...}. Links are opaque to callers; the only operations exposed
// are String, Parse, and narrowing to an expected resource label.
package link

import (
	"encoding/base64"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/wire"
)

// linkVersion0 is the only encoding version defined so far. Future
// versions may be added; existing ones must continue to decode.
const linkVersion0 = 0

var b64 = base64.URLEncoding.WithPadding(base64.NoPadding)

// Field is one element of a Link's identity tuple.
type Field struct {
	bytes []byte
}

// FieldString builds a string-valued identity field.
func FieldString(s string) Field {
	return Field{bytes: []byte(s)}
}

// FieldBytes builds a raw-bytes identity field (e.g. an embedded Id).
func FieldBytes(b []byte) Field {
	return Field{bytes: b}
}

// Link is the opaque, versioned, content-addressed reference produced by
// an entity's identity tuple.
type Link struct {
	raw []byte
}

// New builds a Link from a resource label and its identity fields. Two
// values with identical (label, fields) always produce equal Links;
// differing labels always produce different Links even given the same
// field values.
func New(label string, fields ...Field) Link {
	enc := wire.NewEncoder().Uint8(linkVersion0).String(label).Uint8(uint8(len(fields)))
	for _, f := range fields {
		enc.Bytes(f.bytes)
	}
	return Link{raw: enc.Finish()}
}

// String renders the base64url-no-pad text encoding.
func (l Link) String() string {
	return b64.EncodeToString(l.raw)
}

// IsZero reports whether this is an unset Link value.
func (l Link) IsZero() bool {
	return len(l.raw) == 0
}

// Equal reports whether two links carry identical encoded bytes.
func (l Link) Equal(other Link) bool {
	if len(l.raw) != len(other.raw) {
		return false
	}
	for i := range l.raw {
		if l.raw[i] != other.raw[i] {
			return false
		}
	}
	return true
}

// Parse decodes the base64url-no-pad text form produced by String.
func Parse(text string) (Link, error) {
	raw, err := b64.DecodeString(text)
	if err != nil {
		return Link{}, fmt.Errorf("%w: %s", ErrMalformed, text)
	}
	dec := wire.NewDecoder(raw)
	version, err := dec.Uint8()
	if err != nil || version != linkVersion0 {
		return Link{}, fmt.Errorf("%w: unsupported link version", ErrMalformed)
	}
	if _, err := dec.String(); err != nil {
		return Link{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	count, err := dec.Uint8()
	if err != nil {
		return Link{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i := uint8(0); i < count; i++ {
		if _, err := dec.Bytes(); err != nil {
			return Link{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	return Link{raw: raw}, nil
}

// Label extracts the resource-type discriminator embedded in the link.
func (l Link) Label() (string, error) {
	dec := wire.NewDecoder(l.raw)
	version, err := dec.Uint8()
	if err != nil || version != linkVersion0 {
		return "", fmt.Errorf("%w: unsupported link version", ErrMalformed)
	}
	label, err := dec.String()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return label, nil
}

// MarshalJSON renders the link as its base64url text form.
func (l Link) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON parses the base64url text form.
func (l *Link) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: not a JSON string", ErrMalformed)
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
