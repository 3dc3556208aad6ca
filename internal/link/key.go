package link

import (
	"encoding/json"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/ids"
)

// Key is an Id or a Link, used interchangeably throughout the protocol.
// Ambiguity is resolved by attempting Id first.
type Key struct {
	id     ids.ID
	link   Link
	isLink bool
}

// KeyFromID wraps an Id as a Key.
func KeyFromID(id ids.ID) Key {
	return Key{id: id}
}

// KeyFromLink wraps a Link as a Key.
func KeyFromLink(l Link) Key {
	return Key{link: l, isLink: true}
}

// ParseKey parses text as either a well-formed Id or a well-formed Link.
func ParseKey(text string) (Key, error) {
	if id, err := ids.ParseID(text); err == nil {
		return KeyFromID(id), nil
	}
	l, err := Parse(text)
	if err != nil {
		return Key{}, fmt.Errorf("could not parse as key: %s", text)
	}
	return KeyFromLink(l), nil
}

// IsLink reports whether this key holds a Link rather than an Id.
func (k Key) IsLink() bool {
	return k.isLink
}

// ID returns the wrapped Id, or an error if this key holds a Link.
func (k Key) ID() (ids.ID, error) {
	if k.isLink {
		return ids.ID{}, fmt.Errorf("key is not an id")
	}
	return k.id, nil
}

// Link returns the wrapped Link, or an error if this key holds an Id.
func (k Key) Link() (Link, error) {
	if !k.isLink {
		return Link{}, fmt.Errorf("key is not a link")
	}
	return k.link, nil
}

// String renders whichever variant is held.
func (k Key) String() string {
	if k.isLink {
		return k.link.String()
	}
	return k.id.String()
}

// MarshalJSON renders whichever variant is held, untagged.
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses the untagged Id-or-Link text form.
func (k *Key) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
