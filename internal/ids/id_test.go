package ids

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContentDeterminism(t *testing.T) {
	a := IDFromContent([]byte("hello"))
	b := IDFromContent([]byte("hello"))
	assert.Equal(t, a, b, "content-addressed ids must be a pure function of their input bytes")

	c := IDFromContent([]byte("goodbye"))
	assert.NotEqual(t, a, c)
}

func TestNewIDUnique(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsEmpty())
}

func TestIDStringRoundTrip(t *testing.T) {
	id := NewID()
	text := id.String()
	parsed, err := ParseID(text)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseIDMalformed(t *testing.T) {
	_, err := ParseID("not-a-uuid")
	assert.ErrorIs(t, err, ErrMalformedID)
}

func TestIDJSONRoundTrip(t *testing.T) {
	id := NewID()
	raw, err := json.Marshal(id)
	require.NoError(t, err)

	var out ID
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, id, out)
}

func TestIDEqual(t *testing.T) {
	a := IDFromContent([]byte("x"))
	b := IDFromContent([]byte("x"))
	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(a))

	c := NewID()
	assert.False(t, a.Equal(c))
}
