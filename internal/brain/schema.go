// Package brain implements the per-project ("brain") database: its
// typed projections for vocabulary, agents, cognitions, memories,
// experiences, connections, and storage, plus the FTS5-backed search
// index kept in sync with them.
package brain

import (
	"database/sql"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/eventstore"
)

const vocabTableSchema = `
CREATE TABLE IF NOT EXISTS personas (
	name TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	prompt TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS textures (
	name TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	prompt TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS levels (
	name TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	prompt TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sensations (
	name TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	prompt TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS natures (
	name TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	prompt TEXT NOT NULL
);
`

const recordTableSchema = `
CREATE TABLE IF NOT EXISTS agents (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	persona TEXT NOT NULL REFERENCES personas(name),
	description TEXT NOT NULL,
	prompt TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cognitions (
	id TEXT PRIMARY KEY,
	agent_id TEXT NOT NULL REFERENCES agents(id),
	texture TEXT NOT NULL REFERENCES textures(name),
	content TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cognitions_agent ON cognitions(agent_id);
CREATE INDEX IF NOT EXISTS idx_cognitions_texture ON cognitions(texture);

CREATE TABLE IF NOT EXISTS memories (
	id TEXT PRIMARY KEY,
	agent_id TEXT NOT NULL REFERENCES agents(id),
	level TEXT NOT NULL REFERENCES levels(name),
	content TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memories_agent ON memories(agent_id);
CREATE INDEX IF NOT EXISTS idx_memories_level ON memories(level);

CREATE TABLE IF NOT EXISTS experiences (
	id TEXT PRIMARY KEY,
	agent_id TEXT NOT NULL REFERENCES agents(id),
	sensation TEXT NOT NULL REFERENCES sensations(name),
	description TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_experiences_agent ON experiences(agent_id);
CREATE INDEX IF NOT EXISTS idx_experiences_sensation ON experiences(sensation);

CREATE TABLE IF NOT EXISTS experience_refs (
	experience_id TEXT NOT NULL REFERENCES experiences(id),
	link TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (experience_id, position)
);

CREATE TABLE IF NOT EXISTS connections (
	id TEXT PRIMARY KEY,
	nature TEXT NOT NULL REFERENCES natures(name),
	from_link TEXT NOT NULL,
	to_link TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_connections_from ON connections(from_link);
CREATE INDEX IF NOT EXISTS idx_connections_to ON connections(to_link);

CREATE TABLE IF NOT EXISTS storage (
	key TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS blobs (
	hash TEXT PRIMARY KEY,
	compressed_bytes BLOB NOT NULL,
	original_size INTEGER NOT NULL
);
`

// searchSchema builds expressions as an FTS5 virtual table with
// external-content semantics is more machinery than this needs; the
// projection instead owns a plain shadow table it keeps in lockstep
// with an FTS5 index over (resource_ref, kind, content), matching the
// external-content pattern ncruces/go-sqlite3's FTS5 build supports.
const searchSchema = `
CREATE TABLE IF NOT EXISTS expressions (
	resource_ref TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	content TEXT NOT NULL
);
CREATE VIRTUAL TABLE IF NOT EXISTS expressions_fts USING fts5(
	resource_ref UNINDEXED,
	kind UNINDEXED,
	content,
	content='expressions',
	content_rowid='rowid'
);
CREATE TRIGGER IF NOT EXISTS expressions_ai AFTER INSERT ON expressions BEGIN
	INSERT INTO expressions_fts(rowid, resource_ref, kind, content) VALUES (new.rowid, new.resource_ref, new.kind, new.content);
END;
CREATE TRIGGER IF NOT EXISTS expressions_ad AFTER DELETE ON expressions BEGIN
	INSERT INTO expressions_fts(expressions_fts, rowid, resource_ref, kind, content) VALUES ('delete', old.rowid, old.resource_ref, old.kind, old.content);
END;
CREATE TRIGGER IF NOT EXISTS expressions_au AFTER UPDATE ON expressions BEGIN
	INSERT INTO expressions_fts(expressions_fts, rowid, resource_ref, kind, content) VALUES ('delete', old.rowid, old.resource_ref, old.kind, old.content);
	INSERT INTO expressions_fts(rowid, resource_ref, kind, content) VALUES (new.rowid, new.resource_ref, new.kind, new.content);
END;
`

// EnsureSchema creates the events table and every brain table/index/
// trigger if they do not already exist. Safe to call on every open.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(eventstore.Schema); err != nil {
		return fmt.Errorf("ensure event schema: %w", err)
	}
	if _, err := db.Exec(vocabTableSchema); err != nil {
		return fmt.Errorf("ensure vocabulary schema: %w", err)
	}
	if _, err := db.Exec(recordTableSchema); err != nil {
		return fmt.Errorf("ensure record schema: %w", err)
	}
	if _, err := db.Exec(searchSchema); err != nil {
		return fmt.Errorf("ensure search schema: %w", err)
	}
	return nil
}
