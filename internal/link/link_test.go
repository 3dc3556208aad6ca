package link

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkDeterminismSameIdentity(t *testing.T) {
	a := New("cognition", FieldBytes([]byte("agent-1")), FieldString("texture"), FieldString("content"))
	b := New("cognition", FieldBytes([]byte("agent-1")), FieldString("texture"), FieldString("content"))
	assert.True(t, a.Equal(b), "identical identity tuples must encode to the same link")
}

func TestLinkDifferentResourceLabel(t *testing.T) {
	a := New("agent", FieldString("same"))
	b := New("persona", FieldString("same"))
	assert.False(t, a.Equal(b), "different resource labels must never collide even with identical fields")
}

func TestLinkDifferentFields(t *testing.T) {
	a := New("agent", FieldString("alice"))
	b := New("agent", FieldString("bob"))
	assert.False(t, a.Equal(b))
}

func TestLinkStringRoundTrip(t *testing.T) {
	l := New("experience", FieldString("agent-x"), FieldString("sensation"), FieldString("a description"))
	text := l.String()
	parsed, err := Parse(text)
	require.NoError(t, err)
	assert.True(t, l.Equal(parsed))
}

func TestLinkLabel(t *testing.T) {
	l := New("persona", FieldString("researcher"))
	label, err := l.Label()
	require.NoError(t, err)
	assert.Equal(t, "persona", label)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse("not valid base64url!!!")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestLinkJSONRoundTrip(t *testing.T) {
	l := New("agent", FieldString("name"), FieldString("persona"))
	raw, err := json.Marshal(l)
	require.NoError(t, err)

	var out Link
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, l.Equal(out))
}

func TestNarrowSuccess(t *testing.T) {
	l := New("agent", FieldString("name"))
	assert.NoError(t, Narrow(l, "agent"))
}

func TestNarrowMismatch(t *testing.T) {
	l := New("agent", FieldString("name"))
	err := Narrow(l, "persona")
	require.Error(t, err)

	var narrowErr *NarrowingError
	require.ErrorAs(t, err, &narrowErr)
	assert.Equal(t, "persona", narrowErr.Expected)
	assert.Equal(t, "agent", narrowErr.Observed)
}
