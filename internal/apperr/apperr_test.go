package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateKnownError(t *testing.T) {
	status, body := Translate(ErrNoAuthHeader)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "NoAuthHeader", body)
}

func TestTranslateNilIsOK(t *testing.T) {
	status, body := Translate(nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)
}

func TestTranslateUnrecognizedErrorIs500(t *testing.T) {
	status, body := Translate(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal error", body)
}

func TestTranslateWrappedErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", NotFound("Agent", "g"))
	status, body := Translate(wrapped)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Agent not found: g")
}

func TestAsExtractsTypedError(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", Conflict("dup"))
	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestAsFailsForPlainError(t *testing.T) {
	_, ok := As(errors.New("plain"))
	assert.False(t, ok)
}

func TestInternalPreservesCauseInErrorString(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause)
	assert.Contains(t, err.Error(), "internal error")
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestWrapCarriesStatusBodyAndCause(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(http.StatusBadGateway, "upstream failed", cause)
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.Equal(t, cause, err.Unwrap())
}

func TestBadRequestFormatsMessage(t *testing.T) {
	err := BadRequest("missing field %q", "name")
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, `missing field "name"`, err.Body)
}

func TestDatabasePoisonedIsInternal(t *testing.T) {
	status, body := Translate(ErrDatabasePoisoned)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "DatabasePoisoned", body)
}
