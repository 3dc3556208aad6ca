package ids

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampRoundTrip(t *testing.T) {
	now := Now()
	text := now.String()
	parsed, err := ParseTimestamp(text)
	require.NoError(t, err)
	assert.True(t, now.Equal(parsed))
}

func TestTimestampMicrosecondPrecision(t *testing.T) {
	base := time.Date(2026, 7, 30, 12, 0, 0, 123456789, time.UTC)
	ts := FromTime(base)
	assert.Equal(t, int64(123456), ts.Time().Nanosecond()/1000, "sub-microsecond precision must be truncated away")
}

func TestTimestampOrdering(t *testing.T) {
	a := FromTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := FromTime(time.Date(2026, 1, 1, 0, 0, 0, 1000, time.UTC))
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
}

func TestTimestampJSONRoundTrip(t *testing.T) {
	ts := Now()
	raw, err := json.Marshal(ts)
	require.NoError(t, err)

	var out Timestamp
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, ts.Equal(out))
}
