// Package apperr implements the error taxonomy named in the protocol's
// error format: every handler-facing error carries an HTTP status and a
// client-safe message, grouped by propagation policy (validation, auth,
// not-found, conflict, data integrity, lock-poisoned).
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a status-carrying application error. Handlers return it (or
// a bare Go error, translated to 500) and the protocol layer renders it
// as {"status": ..., "body": ...}.
type Error struct {
	Status int
	Body   string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Body, e.cause)
	}
	return e.Body
}

func (e *Error) Unwrap() error { return e.cause }

// As lets errors.As extract the *Error out of a wrapped chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// BadRequest is 400: malformed input or a bad encoding (e.g. an
// unparseable StorageRef or Link).
func BadRequest(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Body: fmt.Sprintf(format, args...)}
}

// Auth-layer errors. The protocol never differentiates "wrong" from
// "expired" credentials to the client; each still carries a distinct
// body string for operator-facing diagnostics.
var (
	ErrNoAuthHeader         = &Error{Status: http.StatusUnauthorized, Body: "NoAuthHeader"}
	ErrInvalidAuthHeader    = &Error{Status: http.StatusUnauthorized, Body: "InvalidAuthHeader"}
	ErrMalformedToken       = &Error{Status: http.StatusUnauthorized, Body: "MalformedToken"}
	ErrInvalidOrExpiredTicket = &Error{Status: http.StatusUnauthorized, Body: "InvalidOrExpiredTicket"}
)

// NotFound is 404, carrying both the resource kind and the key used so
// operators can diagnose which lookup missed.
func NotFound(kind, key string) *Error {
	return &Error{Status: http.StatusNotFound, Body: fmt.Sprintf("%s not found: %s", kind, key)}
}

// Conflict is 409: a uniqueness violation caught at the handler level
// (duplicate agent name, duplicate brain name).
func Conflict(format string, args ...any) *Error {
	return &Error{Status: http.StatusConflict, Body: fmt.Sprintf(format, args...)}
}

// DataIntegrity is 5xx: a projection row referenced a missing blob or
// an expected row that isn't there. These indicate a bug or external
// corruption, not a client mistake.
func DataIntegrity(format string, args ...any) *Error {
	return &Error{Status: http.StatusInternalServerError, Body: fmt.Sprintf(format, args...)}
}

// ErrDatabasePoisoned surfaces a recovered panic that held the system
// database mutex; the process is non-recoverable for the remainder of
// its lifetime once this fires.
var ErrDatabasePoisoned = &Error{Status: http.StatusInternalServerError, Body: "DatabasePoisoned"}

// Internal wraps an unexpected error as a generic 500, preserving the
// cause for logging while keeping the client body opaque.
func Internal(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Body: "internal error", cause: cause}
}

// Wrap attaches status/body to an underlying cause, for cases that want
// both a typed apperr.Error and errors.Is/As access to the original.
func Wrap(status int, body string, cause error) *Error {
	return &Error{Status: status, Body: body, cause: cause}
}

// Translate converts any error into (status, body) for the wire
// response. Unrecognized errors become an opaque 500.
func Translate(err error) (status int, body string) {
	if err == nil {
		return http.StatusOK, ""
	}
	if appErr, ok := As(err); ok {
		return appErr.Status, appErr.Body
	}
	return http.StatusInternalServerError, "internal error"
}
