package eventstore

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Replay truncates every projection's owned tables via Reset, then
// re-applies the full event log in order through whichever projections
// are interested in each event's type. A single event's projection
// failure is logged and counted, not fatal — historic events must
// always be able to replay even if a later projection gained stricter
// validation than existed when the event was first appended.
func (s *Store) Replay(projections []Projection) (applied int, warnings int, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("begin replay transaction: %w", err)
	}
	defer tx.Rollback()

	for _, proj := range projections {
		if proj.Reset == nil {
			continue
		}
		if err := proj.Reset(tx); err != nil {
			return 0, 0, fmt.Errorf("reset projection %s: %w", proj.Name, err)
		}
	}

	events, err := readAllTx(tx)
	if err != nil {
		return 0, 0, fmt.Errorf("read events for replay: %w", err)
	}

	for _, ev := range events {
		for _, proj := range projections {
			if _, ok := proj.Interested[ev.Type]; !ok {
				continue
			}
			if err := proj.Apply(tx, ev.Type, ev.Data); err != nil {
				warnings++
				log.Warn().
					Str("projection", proj.Name).
					Str("event_type", ev.Type).
					Str("event_id", ev.ID.String()).
					Err(err).
					Msg("replay: projection failed on historic event, continuing")
				continue
			}
		}
		applied++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit replay transaction: %w", err)
	}
	return applied, warnings, nil
}

func readAllTx(tx *sql.Tx) ([]Event, error) {
	rows, err := tx.Query(`SELECT id, timestamp, data FROM events ORDER BY timestamp ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}
