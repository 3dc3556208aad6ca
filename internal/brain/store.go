package brain

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"

	"github.com/oneiros-project/oneiros/internal/eventstore"
)

// ErrNotFound is returned by single-row lookups that find nothing.
var ErrNotFound = errors.New("not found")

// Store wraps one brain database: its event log plus every projected
// table it materializes.
type Store struct {
	db     *sql.DB
	Events *eventstore.Store
}

// Open opens (creating if absent) the brain database file at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open brain database: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, Events: eventstore.New(db)}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the raw handle for read-only query helpers in this
// package; projections and mutations must always go through Events.
func (s *Store) DB() *sql.DB { return s.db }

// Projections returns every brain projection in the order Replay and
// Append must apply them: the search projection runs first on each
// event so it can read prior state before the resource tables are
// mutated underneath it, matching the ordering rule in the component
// design for the search index.
func Projections() []eventstore.Projection {
	projections := []eventstore.Projection{searchProjection()}
	projections = append(projections, vocabProjections()...)
	projections = append(projections,
		agentProjection(),
		cognitionProjection(),
		memoryProjection(),
		experienceProjection(),
		connectionProjection(),
		storageProjection(),
	)
	return projections
}

// Replay truncates and rebuilds every brain projection from the event
// log.
func (s *Store) Replay() (applied int, warnings int, err error) {
	return s.Events.Replay(Projections())
}
