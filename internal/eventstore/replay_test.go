package eventstore

import (
	"database/sql"
	"encoding/json"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayIdempotence(t *testing.T) {
	db, s := openTestStore(t)
	projections := []Projection{widgetProjection()}

	for _, name := range []string{"a", "b", "c"} {
		_, _, err := s.Append("widget-created", widgetCreated{Name: name}, projections)
		require.NoError(t, err)
	}
	before := countWidgets(t, db)
	require.Equal(t, 3, before)

	applied, warnings, err := s.Replay(projections)
	require.NoError(t, err)
	assert.Equal(t, 3, applied)
	assert.Equal(t, 0, warnings)
	assert.Equal(t, before, countWidgets(t, db), "replay must reproduce the same projection contents")
}

func TestReplayContinuesPastProjectionFailure(t *testing.T) {
	db, s := openTestStore(t)
	good := widgetProjection()

	_, _, err := s.Append("widget-created", widgetCreated{Name: "ok-1"}, []Projection{good})
	require.NoError(t, err)
	_, _, err = s.Append("widget-created", widgetCreated{Name: "ok-2"}, []Projection{good})
	require.NoError(t, err)

	callCount := 0
	flaky := Projection{
		Name:       "widgets",
		Interested: Interested("widget-created"),
		Reset: func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM widgets`)
			return err
		},
		Apply: func(tx *sql.Tx, eventType string, data json.RawMessage) error {
			callCount++
			if callCount == 1 {
				return assert.AnError
			}
			var w widgetCreated
			if err := json.Unmarshal(data, &w); err != nil {
				return err
			}
			_, err := tx.Exec(`INSERT INTO widgets (name) VALUES (?)`, w.Name)
			return err
		},
	}

	applied, warnings, err := s.Replay([]Projection{flaky})
	require.NoError(t, err)
	assert.Equal(t, 2, applied, "replay continues across all events even when one projection call fails")
	assert.Equal(t, 1, warnings)
	assert.Equal(t, 1, countWidgets(t, db), "the event remains in the log; only the failing apply is skipped")

	events, err := s.ReadAll()
	require.NoError(t, err)
	assert.Len(t, events, 2, "a failed projection during replay never removes the event from the log")
}

func TestReplayResetsBeforeReapplying(t *testing.T) {
	db, s := openTestStore(t)
	projections := []Projection{widgetProjection()}
	_, _, err := s.Append("widget-created", widgetCreated{Name: "only"}, projections)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO widgets (name) VALUES ('stray')`)
	require.NoError(t, err)
	assert.Equal(t, 2, countWidgets(t, db))

	_, _, err = s.Replay(projections)
	require.NoError(t, err)
	assert.Equal(t, 1, countWidgets(t, db), "replay must truncate via Reset before reapplying")
}
