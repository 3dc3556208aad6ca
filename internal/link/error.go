package link

import (
	"errors"
	"fmt"
)

// ErrMalformed indicates a Link's encoded bytes could not be decoded.
var ErrMalformed = errors.New("malformed link")

// NarrowingError is returned when a Link is valid but its resource label
// doesn't match the type a caller expected to find.
type NarrowingError struct {
	Expected string
	Observed string
	Link     Link
}

func (e *NarrowingError) Error() string {
	return fmt.Sprintf("expected %s link, got %s", e.Expected, e.Observed)
}

// Addressable is a type whose identity can be expressed as a Link.
// Implementations choose which fields constitute identity (included in
// the link) versus mutable content (excluded).
type Addressable interface {
	// AddressLabel is the resource type label embedded in the link so
	// that identical field values in different domains still produce
	// distinct links.
	AddressLabel() string
	// Link computes the content-addressable link for this value.
	Link() (Link, error)
}

// Narrow checks that a link's embedded resource label matches the
// expected one, returning a typed error carrying both when it doesn't.
func Narrow(l Link, expected string) error {
	observed, err := l.Label()
	if err != nil {
		return err
	}
	if observed != expected {
		return &NarrowingError{Expected: expected, Observed: observed, Link: l}
	}
	return nil
}
