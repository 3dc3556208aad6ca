package ids

import (
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayout renders RFC-3339 at microsecond precision, matching the
// wire format every client and the event log's fixture suite expects.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Timestamp is an RFC-3339 UTC instant at microsecond precision.
type Timestamp struct {
	t time.Time
}

// Now returns the current instant, truncated to microsecond precision.
func Now() Timestamp {
	return Timestamp{time.Now().UTC().Truncate(time.Microsecond)}
}

// FromTime adapts an existing time.Time, normalizing to UTC microseconds.
func FromTime(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Microsecond)}
}

// ParseTimestamp parses an RFC-3339 string.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("created_at invalid or malformed: %w", err)
	}
	return FromTime(t), nil
}

// Time exposes the underlying time.Time for comparisons and storage.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// String renders RFC-3339 text.
func (ts Timestamp) String() string {
	return ts.t.Format(timestampLayout)
}

// Before reports strict ordering, used to build the (timestamp, id) total
// order over the event log.
func (ts Timestamp) Before(other Timestamp) bool {
	return ts.t.Before(other.t)
}

// Equal reports whether two timestamps denote the same instant.
func (ts Timestamp) Equal(other Timestamp) bool {
	return ts.t.Equal(other.t)
}

// Elapsed renders a short human-readable age, e.g. "3m ago".
func (ts Timestamp) Elapsed() string {
	secs := int64(time.Since(ts.t).Seconds())
	switch {
	case secs < 0:
		return "just now"
	case secs < 60:
		return fmt.Sprintf("%ds ago", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm ago", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%dh ago", secs/3600)
	default:
		return fmt.Sprintf("%dd ago", secs/86400)
	}
}

// MarshalJSON renders the RFC-3339 text form.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

// UnmarshalJSON parses the RFC-3339 text form.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
