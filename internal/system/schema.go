// Package system implements the system database: tenants, actors,
// brains, and tickets, plus the projections that keep those tables in
// sync with the system event log.
package system

import (
	"database/sql"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/eventstore"
)

// schema is the DDL for every table the system database owns besides
// the shared events table.
const schema = `
CREATE TABLE IF NOT EXISTS tenants (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS actors (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL REFERENCES tenants(id),
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS brains (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL REFERENCES tenants(id),
	name TEXT NOT NULL,
	path TEXT NOT NULL,
	status TEXT NOT NULL,
	UNIQUE(tenant_id, name)
);

CREATE TABLE IF NOT EXISTS tickets (
	id TEXT PRIMARY KEY,
	token_hash TEXT NOT NULL UNIQUE,
	tenant_id TEXT NOT NULL REFERENCES tenants(id),
	brain_id TEXT NOT NULL REFERENCES brains(id),
	actor_id TEXT NOT NULL REFERENCES actors(id),
	revoked_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_tickets_token_hash ON tickets(token_hash);
`

// EnsureSchema creates the events table and every system table if they
// do not already exist. Safe to call on every process start.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(eventstore.Schema); err != nil {
		return fmt.Errorf("ensure event schema: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ensure system schema: %w", err)
	}
	return nil
}
