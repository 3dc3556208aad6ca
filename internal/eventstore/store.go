// Package eventstore implements the append-only event log shared by the
// system database and every brain database: append-and-project inside
// one transaction, ordered reads, raw import for replay/migration paths,
// and truncate-and-reapply replay.
package eventstore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/ids"
)

// Schema is the DDL for the events table, identical across the system
// database and every brain database.
const Schema = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_order ON events(timestamp, id);
`

// Envelope is the discriminated {type, data} shape carried in an event's
// data column.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Event is one row of the canonical event log.
type Event struct {
	ID        ids.EventID
	Timestamp ids.Timestamp
	Type      string
	Data      json.RawMessage
}

// Projection reduces a prefix of the log into queryable tables. Apply is
// invoked inside the appending transaction only when the event's type is
// in Interested; Reset truncates whatever tables this projection owns so
// Replay can start clean.
type Projection struct {
	Name       string
	Interested map[string]struct{}
	Apply      func(tx *sql.Tx, eventType string, data json.RawMessage) error
	Reset      func(tx *sql.Tx) error
}

// Interested builds the set literal for a Projection from a variadic list
// of event type constants.
func Interested(types ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// Store is the append-only event log bound to one *sql.DB (one system
// database, or one brain database).
type Store struct {
	db *sql.DB
}

// New wraps an already-open database handle. Callers must ensure Schema
// has been applied (brain/system Open helpers do this).
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append binds a fresh event id and timestamp, serializes the
// discriminator envelope, writes one events row, and — within the same
// transaction — dispatches to each projection whose Interested set
// contains the event type. Any projection error aborts the whole
// transaction.
func (s *Store) Append(eventType string, payload any, projections []Projection) (ids.EventID, ids.Timestamp, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return ids.EventID{}, ids.Timestamp{}, fmt.Errorf("begin append transaction: %w", err)
	}
	defer tx.Rollback()

	id, ts, err := appendOne(tx, eventType, payload, projections)
	if err != nil {
		return ids.EventID{}, ids.Timestamp{}, err
	}

	if err := tx.Commit(); err != nil {
		return ids.EventID{}, ids.Timestamp{}, fmt.Errorf("commit append transaction: %w", err)
	}

	return id, ts, nil
}

// AppendEntry is one (type, payload) pair for AppendBatch.
type AppendEntry struct {
	Type    string
	Payload any
}

// AppendBatch appends every entry in order within a single transaction,
// projecting each one as it is inserted, and commits once. Use this
// instead of successive Append calls whenever the spec requires several
// events to become durable and projected atomically — e.g. brain-created
// and the ticket-issued that follows it, where a later event's failure
// must not leave the earlier one committed on its own.
func (s *Store) AppendBatch(entries []AppendEntry, projections []Projection) ([]ids.EventID, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin append transaction: %w", err)
	}
	defer tx.Rollback()

	out := make([]ids.EventID, 0, len(entries))
	for _, entry := range entries {
		id, _, err := appendOne(tx, entry.Type, entry.Payload, projections)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append transaction: %w", err)
	}
	return out, nil
}

// appendOne inserts one event row and runs its interested projections
// against tx, without committing. Shared by Append and AppendBatch so a
// batch is exactly N single appends sharing one transaction boundary.
func appendOne(tx *sql.Tx, eventType string, payload any, projections []Projection) (ids.EventID, ids.Timestamp, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return ids.EventID{}, ids.Timestamp{}, fmt.Errorf("marshal event payload: %w", err)
	}
	envelopeJSON, err := json.Marshal(Envelope{Type: eventType, Data: payloadJSON})
	if err != nil {
		return ids.EventID{}, ids.Timestamp{}, fmt.Errorf("marshal event envelope: %w", err)
	}

	id := ids.NewEventID()
	ts := ids.Now()

	if _, err := tx.Exec(
		`INSERT INTO events (id, timestamp, data) VALUES (?, ?, ?)`,
		id.String(), ts.String(), string(envelopeJSON),
	); err != nil {
		return ids.EventID{}, ids.Timestamp{}, fmt.Errorf("insert event: %w", err)
	}

	for _, proj := range projections {
		if _, ok := proj.Interested[eventType]; !ok {
			continue
		}
		if err := proj.Apply(tx, eventType, payloadJSON); err != nil {
			return ids.EventID{}, ids.Timestamp{}, fmt.Errorf("projection %s: %w", proj.Name, err)
		}
	}

	return id, ts, nil
}

// ReadAll returns every event ordered (timestamp, id) ascending.
func (s *Store) ReadAll() ([]Event, error) {
	rows, err := s.db.Query(`SELECT id, timestamp, data FROM events ORDER BY timestamp ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ReadOne fetches a single event by id.
func (s *Store) ReadOne(id ids.EventID) (*Event, bool, error) {
	row := s.db.QueryRow(`SELECT id, timestamp, data FROM events WHERE id = ?`, id.String())
	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read event %s: %w", id, err)
	}
	return ev, true, nil
}

// Import writes a raw event with a caller-supplied timestamp, without
// running any projection. Used only by replay/migration paths.
func (s *Store) Import(timestampText string, dataJSON json.RawMessage) error {
	if _, err := ids.ParseTimestamp(timestampText); err != nil {
		return fmt.Errorf("import event: %w", err)
	}
	id := ids.NewEventID()
	if _, err := s.db.Exec(
		`INSERT INTO events (id, timestamp, data) VALUES (?, ?, ?)`,
		id.String(), timestampText, string(dataJSON),
	); err != nil {
		return fmt.Errorf("import event: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(r rowScanner) (*Event, error) {
	var (
		idText string
		tsText string
		data   string
	)
	if err := r.Scan(&idText, &tsText, &data); err != nil {
		return nil, err
	}
	rawID, err := ids.ParseID(idText)
	if err != nil {
		return nil, fmt.Errorf("corrupt event id %q: %w", idText, err)
	}
	ts, err := ids.ParseTimestamp(tsText)
	if err != nil {
		return nil, fmt.Errorf("corrupt event timestamp %q: %w", tsText, err)
	}
	var env Envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return nil, fmt.Errorf("corrupt event envelope: %w", err)
	}
	return &Event{
		ID:        ids.EventID{ID: rawID},
		Timestamp: ts,
		Type:      env.Type,
		Data:      env.Data,
	}, nil
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var out []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}
