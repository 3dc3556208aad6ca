package brain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneiros-project/oneiros/internal/blob"
	"github.com/oneiros-project/oneiros/internal/ids"
	"github.com/oneiros-project/oneiros/internal/link"
	"github.com/oneiros-project/oneiros/internal/model"
)

func openTestBrain(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustAppend(t *testing.T, s *Store, eventType string, payload any) {
	t.Helper()
	_, _, err := s.Events.Append(eventType, payload, Projections())
	require.NoError(t, err)
}

func seedPersona(t *testing.T, s *Store, name string) {
	t.Helper()
	mustAppend(t, s, model.EventPersonaSet, model.Persona{
		Name: model.PersonaName(name), Description: "desc", Prompt: "prompt",
	})
}

func seedTexture(t *testing.T, s *Store, name string) {
	t.Helper()
	mustAppend(t, s, model.EventTextureSet, model.Texture{
		Name: model.TextureName(name), Description: "desc", Prompt: "prompt",
	})
}

func TestVocabSetAndRemoveIdempotent(t *testing.T) {
	s := openTestBrain(t)
	seedPersona(t, s, "researcher")

	p, err := s.GetPersona("researcher")
	require.NoError(t, err)
	assert.Equal(t, "desc", p.Description)

	mustAppend(t, s, model.EventPersonaRemoved, model.PersonaRemoved{Name: "researcher"})
	_, err = s.GetPersona("researcher")
	assert.ErrorIs(t, err, ErrNotFound)

	// removing an already-absent entry must succeed (idempotent).
	mustAppend(t, s, model.EventPersonaRemoved, model.PersonaRemoved{Name: "researcher"})
}

func TestVocabSetUpsertsOnConflict(t *testing.T) {
	s := openTestBrain(t)
	seedPersona(t, s, "researcher")
	mustAppend(t, s, model.EventPersonaSet, model.Persona{
		Name: "researcher", Description: "updated", Prompt: "new prompt",
	})

	p, err := s.GetPersona("researcher")
	require.NoError(t, err)
	assert.Equal(t, "updated", p.Description)
	assert.Equal(t, "new prompt", p.Prompt)
}

// TestAgentCreationDeterminism covers spec.md §8 scenario 2: recreating
// an agent with the same (name, persona) must yield the same content-
// addressed id.
func TestAgentCreationDeterminism(t *testing.T) {
	s := openTestBrain(t)
	seedPersona(t, s, "process")

	raw := func(name, persona string) []byte {
		return append(append([]byte(name), 0), []byte(persona)...)
	}
	id1 := ids.AgentIDFromContent(raw("g", "process"))
	agent := model.Agent{ID: id1, Name: "g", Persona: "process"}
	mustAppend(t, s, model.EventAgentCreated, agent)

	got, err := s.GetAgentByName("g")
	require.NoError(t, err)
	assert.Equal(t, id1, got.ID)

	mustAppend(t, s, model.EventAgentRemoved, model.AgentRemoved{Name: "g"})
	_, err = s.GetAgentByName("g")
	assert.ErrorIs(t, err, ErrNotFound)

	id2 := ids.AgentIDFromContent(raw("g", "process"))
	assert.Equal(t, id1, id2, "recreating an agent with identical identity fields must yield the same id")

	agent2 := model.Agent{ID: id2, Name: "g", Persona: "process"}
	mustAppend(t, s, model.EventAgentCreated, agent2)
	got2, err := s.GetAgentByName("g")
	require.NoError(t, err)
	assert.Equal(t, id1, got2.ID)
}

func TestAgentUpdateReplacesRowByID(t *testing.T) {
	s := openTestBrain(t)
	seedPersona(t, s, "process")
	seedPersona(t, s, "process-2")

	agent := model.Agent{ID: ids.NewAgentID(), Name: "g", Persona: "process", Description: "d1"}
	mustAppend(t, s, model.EventAgentCreated, agent)

	agent.Persona = "process-2"
	agent.Description = "d2"
	mustAppend(t, s, model.EventAgentUpdated, agent)

	got, err := s.GetAgentByID(agent.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PersonaName("process-2"), got.Persona)
	assert.Equal(t, "d2", got.Description)
}

// TestCognitionThenSearch covers spec.md §8 scenario 3.
func TestCognitionThenSearch(t *testing.T) {
	s := openTestBrain(t)
	seedPersona(t, s, "p")
	seedTexture(t, s, "t")

	agentID := ids.NewAgentID()
	mustAppend(t, s, model.EventAgentCreated, model.Agent{ID: agentID, Name: "a.p", Persona: "p"})

	cogID := ids.NewCognitionID()
	mustAppend(t, s, model.EventCognitionAdded, model.Cognition{
		ID: cogID, AgentID: agentID, Texture: "t", Content: "the cat sat", CreatedAt: ids.Now(),
	})

	agentName := model.AgentName("a.p")
	results, err := s.Search("cat", &agentName)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cognition", results[0].Kind)
	assert.Equal(t, cogID.String(), results[0].ResourceRef.Ident)
}

func TestSearchSharedVocabularyAlwaysIncluded(t *testing.T) {
	s := openTestBrain(t)
	seedPersona(t, s, "p")
	mustAppend(t, s, model.EventPersonaSet, model.Persona{
		Name: "other-persona", Description: "marsupial habits", Prompt: "",
	})

	agentID := ids.NewAgentID()
	mustAppend(t, s, model.EventAgentCreated, model.Agent{ID: agentID, Name: "a.p", Persona: "p"})

	agentName := model.AgentName("a.p")
	results, err := s.Search("marsupial", &agentName)
	require.NoError(t, err)
	require.Len(t, results, 1, "vocabulary kinds are always included regardless of agent ownership")
	assert.Equal(t, "persona", results[0].Kind)
}

func TestSearchExcludesUnownedRecords(t *testing.T) {
	s := openTestBrain(t)
	seedPersona(t, s, "p")
	seedTexture(t, s, "t")

	agentA := ids.NewAgentID()
	agentB := ids.NewAgentID()
	mustAppend(t, s, model.EventAgentCreated, model.Agent{ID: agentA, Name: "a", Persona: "p"})
	mustAppend(t, s, model.EventAgentCreated, model.Agent{ID: agentB, Name: "b", Persona: "p"})

	mustAppend(t, s, model.EventCognitionAdded, model.Cognition{
		ID: ids.NewCognitionID(), AgentID: agentB, Texture: "t", Content: "zebra stripes", CreatedAt: ids.Now(),
	})

	agentName := model.AgentName("a")
	results, err := s.Search("zebra", &agentName)
	require.NoError(t, err)
	assert.Empty(t, results, "a cognition owned by a different agent must not surface for this agent's search")
}

func TestSearchDeletesOnRemove(t *testing.T) {
	s := openTestBrain(t)
	seedPersona(t, s, "p")

	results, err := s.Search("desc", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	mustAppend(t, s, model.EventPersonaRemoved, model.PersonaRemoved{Name: "p"})
	results, err = s.Search("desc", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestConnectionsNeverIndexed(t *testing.T) {
	s := openTestBrain(t)
	mustAppend(t, s, model.EventNatureSet, model.Nature{Name: "relates-to", Description: "unique connective tissue term"})

	fromLink := link.New("agent", link.FieldString("a"))
	toLink := link.New("agent", link.FieldString("b"))
	mustAppend(t, s, model.EventConnectionCreated, model.Connection{
		ID: ids.NewConnectionID(), Nature: "relates-to", FromLink: fromLink, ToLink: toLink, CreatedAt: ids.Now(),
	})

	results, err := s.Search("connective", nil)
	require.NoError(t, err)
	// only the nature's own vocabulary text should match; the
	// connection itself carries no indexed content.
	for _, r := range results {
		assert.NotEqual(t, "connection", r.Kind)
	}
}

// TestStorageRoundTrip covers spec.md §8 scenario 4 and the blob-hash
// correctness invariant.
func TestStorageRoundTrip(t *testing.T) {
	s := openTestBrain(t)
	raw := []byte("hello storage world")
	hash := blob.ComputeHash(raw)
	compressed, err := blob.Compress(raw)
	require.NoError(t, err)

	mustAppend(t, s, model.EventStorageSet, model.StorageSet{
		Key: "k", Description: "hi", Hash: hash, CompressedBytes: compressed, OriginalSize: len(raw),
	})

	entry, err := s.GetStorage("k")
	require.NoError(t, err)
	assert.Equal(t, "hi", entry.Description)
	assert.Equal(t, hash, entry.Hash)

	gotCompressed, _, ok, err := s.GetBlob(hash)
	require.NoError(t, err)
	require.True(t, ok)
	decompressed, err := blob.Decompress(gotCompressed)
	require.NoError(t, err)
	assert.Equal(t, raw, decompressed)
}

func TestStoragePutTwiceIdenticalYieldsOneBlobRow(t *testing.T) {
	s := openTestBrain(t)
	raw := []byte("same bytes every time")
	hash := blob.ComputeHash(raw)
	compressed, err := blob.Compress(raw)
	require.NoError(t, err)

	payload := model.StorageSet{Key: "k", Description: "first", Hash: hash, CompressedBytes: compressed, OriginalSize: len(raw)}
	mustAppend(t, s, model.EventStorageSet, payload)
	payload.Description = "second"
	mustAppend(t, s, model.EventStorageSet, payload)

	var blobCount int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM blobs WHERE hash = ?`, hash).Scan(&blobCount))
	assert.Equal(t, 1, blobCount)

	entry, err := s.GetStorage("k")
	require.NoError(t, err)
	assert.Equal(t, "second", entry.Description, "final storage row reflects the last write")
}

func TestStorageRemoveDoesNotDeleteBlob(t *testing.T) {
	s := openTestBrain(t)
	raw := []byte("keep me around")
	hash := blob.ComputeHash(raw)
	compressed, err := blob.Compress(raw)
	require.NoError(t, err)

	mustAppend(t, s, model.EventStorageSet, model.StorageSet{
		Key: "k", Hash: hash, CompressedBytes: compressed, OriginalSize: len(raw),
	})
	mustAppend(t, s, model.EventStorageRemoved, model.StorageRemoved{Key: "k"})

	_, err = s.GetStorage("k")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, ok, err := s.GetBlob(hash)
	require.NoError(t, err)
	assert.True(t, ok, "removing a storage key must not remove the underlying blob")
}

// TestReplayEquivalence covers spec.md §8 scenario 5 and invariant 1:
// replaying a log reproduces the same projection contents bit-for-bit.
func TestReplayEquivalence(t *testing.T) {
	s := openTestBrain(t)
	seedPersona(t, s, "p")
	seedTexture(t, s, "t")

	agentID := ids.NewAgentID()
	mustAppend(t, s, model.EventAgentCreated, model.Agent{ID: agentID, Name: "a", Persona: "p"})
	mustAppend(t, s, model.EventCognitionAdded, model.Cognition{
		ID: ids.NewCognitionID(), AgentID: agentID, Texture: "t", Content: "a thought", CreatedAt: ids.Now(),
	})
	raw := []byte("blob contents")
	mustAppend(t, s, model.EventStorageSet, model.StorageSet{
		Key: "k", Hash: blob.ComputeHash(raw), CompressedBytes: mustCompress(t, raw), OriginalSize: len(raw),
	})

	before := snapshotTables(t, s)

	applied, warnings, err := s.Replay()
	require.NoError(t, err)
	assert.Equal(t, 0, warnings)
	assert.True(t, applied > 0)

	after := snapshotTables(t, s)
	assert.Equal(t, before, after, "replay must reproduce the same projection contents")
}

func TestEmptyBrainListsAreEmpty(t *testing.T) {
	s := openTestBrain(t)
	agents, err := s.ListAgents()
	require.NoError(t, err)
	assert.Empty(t, agents)

	personas, err := s.ListPersonas()
	require.NoError(t, err)
	assert.Empty(t, personas)

	results, err := s.Search("anything", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMultiByteUTF8RoundTripsThroughSearch(t *testing.T) {
	s := openTestBrain(t)
	seedPersona(t, s, "p")
	seedTexture(t, s, "t")
	agentID := ids.NewAgentID()
	mustAppend(t, s, model.EventAgentCreated, model.Agent{ID: agentID, Name: "a", Persona: "p"})

	content := "猫が座った café naïve"
	mustAppend(t, s, model.EventCognitionAdded, model.Cognition{
		ID: ids.NewCognitionID(), AgentID: agentID, Texture: "t", Content: content, CreatedAt: ids.Now(),
	})

	results, err := s.Search("café", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, content, results[0].Content)
}

func mustCompress(t *testing.T, raw []byte) []byte {
	t.Helper()
	out, err := blob.Compress(raw)
	require.NoError(t, err)
	return out
}

type tableSnapshot struct {
	Agents      []model.Agent
	Personas    []model.Persona
	Textures    []model.Texture
	Storage     []model.StorageEntry
	Expressions []model.Expression
}

func snapshotTables(t *testing.T, s *Store) tableSnapshot {
	t.Helper()
	agents, err := s.ListAgents()
	require.NoError(t, err)
	personas, err := s.ListPersonas()
	require.NoError(t, err)
	textures, err := s.ListTextures()
	require.NoError(t, err)
	storage, err := s.ListStorage()
	require.NoError(t, err)

	rows, err := s.DB().Query(`SELECT resource_ref, kind, content FROM expressions ORDER BY resource_ref`)
	require.NoError(t, err)
	defer rows.Close()
	var expressions []model.Expression
	for rows.Next() {
		var refText, kind, content string
		require.NoError(t, rows.Scan(&refText, &kind, &content))
		ref, err := model.ParseRef(refText)
		require.NoError(t, err)
		expressions = append(expressions, model.Expression{ResourceRef: ref, Kind: kind, Content: content})
	}
	require.NoError(t, rows.Err())

	return tableSnapshot{
		Agents: agents, Personas: personas, Textures: textures, Storage: storage, Expressions: expressions,
	}
}
