// Package eventfixtures bundles one historical {type, data} pair per
// event variant ever appended to a log, and exists solely to pin
// serialization stability: once a shape has shipped, its bytes must
// keep deserializing even after the Go types evolve. Nothing here is
// imported by the runtime; it is read only by its own stability test.
package eventfixtures

import (
	"encoding/json"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/link"
)

// Fixture is one historical envelope half: the discriminator and the
// exact bytes a real log once held for it.
type Fixture struct {
	Type string
	Data json.RawMessage
}

// These two links are built the same way the protocol itself builds
// them (internal/link.New), rather than hand-typed base64, since the
// encoding is an implementation-internal byte layout that must match
// exactly for the embedding fixtures below to deserialize.
var (
	fixtureCognitionLink = link.New("cognition",
		link.FieldBytes(mustHexID("018f0a6e-0000-7000-8000-000000000005")),
		link.FieldString("gritty"),
		link.FieldString("the cat sat"),
		link.FieldString("2026-01-01T00:00:00.000000Z"),
	).String()
	fixtureAgentLink = link.New("agent",
		link.FieldString("g.process"),
		link.FieldString("process"),
	).String()
)

func mustHexID(canonical string) []byte {
	// A fixture Link embeds a raw Id's 16 bytes; parsing the canonical
	// UUID text here keeps this file free of a second, easy-to-typo
	// hex encoding of the same ids used elsewhere in this file.
	out := make([]byte, 16)
	clean := ""
	for _, r := range canonical {
		if r != '-' {
			clean += string(r)
		}
	}
	for i := 0; i < 16; i++ {
		var b int
		fmt.Sscanf(clean[i*2:i*2+2], "%02x", &b)
		out[i] = byte(b)
	}
	return out
}

// All is every bundled fixture, grouped by the event constant it backs.
// New event variants get a new entry here; existing entries are never
// edited, only appended to if a later encoding introduces a second
// legitimate historical shape for the same type (as happened with
// token versions).
var All = []Fixture{
	{Type: "tenant-created", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000001","name":"acme"}`)},
	{Type: "actor-created", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000002","tenant_id":"018f0a6e-0000-7000-8000-000000000001","name":"default"}`)},
	{Type: "brain-created", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000003","tenant_id":"018f0a6e-0000-7000-8000-000000000001","name":"alpha","path":"/data/brains/alpha.db"}`)},
	{Type: "ticket-issued", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000004","token_hash":"deadbeef","tenant_id":"018f0a6e-0000-7000-8000-000000000001","brain_id":"018f0a6e-0000-7000-8000-000000000003","actor_id":"018f0a6e-0000-7000-8000-000000000002"}`)},
	{Type: "ticket-revoked", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000004","revoked_at":"2026-01-01T00:00:00.000000Z"}`)},

	{Type: "persona-set", Data: json.RawMessage(`{"name":"process","description":"a process persona","prompt":"think step by step"}`)},
	{Type: "persona-removed", Data: json.RawMessage(`{"name":"process"}`)},
	{Type: "texture-set", Data: json.RawMessage(`{"name":"gritty","description":"","prompt":""}`)},
	{Type: "texture-removed", Data: json.RawMessage(`{"name":"gritty"}`)},
	{Type: "level-set", Data: json.RawMessage(`{"name":"episodic","description":"","prompt":""}`)},
	{Type: "level-removed", Data: json.RawMessage(`{"name":"episodic"}`)},
	{Type: "sensation-set", Data: json.RawMessage(`{"name":"wonder","description":"","prompt":""}`)},
	{Type: "sensation-removed", Data: json.RawMessage(`{"name":"wonder"}`)},
	{Type: "nature-set", Data: json.RawMessage(`{"name":"causal","description":"","prompt":""}`)},
	{Type: "nature-removed", Data: json.RawMessage(`{"name":"causal"}`)},

	{Type: "agent-created", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000005","name":"g.process","persona":"process","description":"","prompt":""}`)},
	{Type: "agent-updated", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000005","name":"g.process","persona":"process","description":"updated","prompt":""}`)},
	{Type: "agent-removed", Data: json.RawMessage(`{"name":"g.process"}`)},

	{Type: "cognition-added", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000006","agent_id":"018f0a6e-0000-7000-8000-000000000005","texture":"gritty","content":"the cat sat","created_at":"2026-01-01T00:00:00.000000Z"}`)},
	{Type: "memory-added", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000007","agent_id":"018f0a6e-0000-7000-8000-000000000005","level":"episodic","content":"remembered","created_at":"2026-01-01T00:00:00.000000Z"}`)},
	{Type: "experience-created", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000008","agent_id":"018f0a6e-0000-7000-8000-000000000005","sensation":"wonder","description":"first light","created_at":"2026-01-01T00:00:00.000000Z"}`)},
	{Type: "experience-ref-added", Data: json.RawMessage(fmt.Sprintf(`{"experience_id":"018f0a6e-0000-7000-8000-000000000008","link":%q,"position":0}`, fixtureCognitionLink))},
	{Type: "experience-description-updated", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000008","description":"revised"}`)},
	{Type: "experience-sensation-updated", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000008","sensation":"dread"}`)},

	{Type: "connection-created", Data: json.RawMessage(fmt.Sprintf(`{"id":"018f0a6e-0000-7000-8000-000000000009","nature":"causal","from_link":%q,"to_link":%q,"created_at":"2026-01-01T00:00:00.000000Z"}`, fixtureAgentLink, fixtureAgentLink))},
	{Type: "connection-removed", Data: json.RawMessage(`{"id":"018f0a6e-0000-7000-8000-000000000009"}`)},

	{Type: "storage-set", Data: json.RawMessage(`{"key":"config/seed","description":"seed blob","hash":"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824","compressed_bytes":"eJxLzs8tyAQACMMCGQ==","original_size":5}`)},
	{Type: "storage-removed", Data: json.RawMessage(`{"key":"config/seed"}`)},

	{Type: "woke", Data: json.RawMessage(`{"agent":"g.process"}`)},
	{Type: "slept", Data: json.RawMessage(`{"agent":"g.process"}`)},
	{Type: "emerged", Data: json.RawMessage(`{"agent":"g.process"}`)},
	{Type: "receded", Data: json.RawMessage(`{"agent":"g.process"}`)},
	{Type: "dream-begun", Data: json.RawMessage(`{"agent":"g.process"}`)},
	{Type: "dream-complete", Data: json.RawMessage(`{"agent":"g.process"}`)},
	{Type: "introspection-begun", Data: json.RawMessage(`{"agent":"g.process"}`)},
	{Type: "introspection-complete", Data: json.RawMessage(`{"agent":"g.process"}`)},
	{Type: "reflection-begun", Data: json.RawMessage(`{"agent":"g.process"}`)},
	{Type: "reflection-complete", Data: json.RawMessage(`{"agent":"g.process"}`)},
	{Type: "sensed", Data: json.RawMessage(`{"agent":"g.process","sensation":"wonder"}`)},
}
