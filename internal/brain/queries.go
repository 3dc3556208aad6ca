package brain

import (
	"database/sql"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/ids"
	"github.com/oneiros-project/oneiros/internal/link"
	"github.com/oneiros-project/oneiros/internal/model"
)

func scanVocab(row interface{ Scan(dest ...any) error }, name *string, description, prompt *string) error {
	return row.Scan(name, description, prompt)
}

func (s *Store) getVocab(table, name string) (model.Persona, error) {
	var n, d, p string
	err := s.db.QueryRow(fmt.Sprintf(`SELECT name, description, prompt FROM %s WHERE name = ?`, table), name).Scan(&n, &d, &p)
	if err == sql.ErrNoRows {
		return model.Persona{}, ErrNotFound
	}
	if err != nil {
		return model.Persona{}, fmt.Errorf("get %s: %w", table, err)
	}
	return model.Persona{Name: model.PersonaName(n), Description: d, Prompt: p}, nil
}

func (s *Store) listVocab(table string) ([]model.Persona, error) {
	rows, err := s.db.Query(fmt.Sprintf(`SELECT name, description, prompt FROM %s ORDER BY name`, table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()
	var out []model.Persona
	for rows.Next() {
		var n, d, p string
		if err := rows.Scan(&n, &d, &p); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, model.Persona{Name: model.PersonaName(n), Description: d, Prompt: p})
	}
	return out, rows.Err()
}

// GetPersona, GetTexture, GetLevel, GetSensation, GetNature read a
// single vocabulary row. The shared model.Persona shape carries
// name/description/prompt regardless of which table it came from;
// callers re-type Name into the wrapper they need.
func (s *Store) GetPersona(name model.PersonaName) (model.Persona, error) { return s.getVocab("personas", name.String()) }
func (s *Store) GetTexture(name model.TextureName) (model.Texture, error) {
	v, err := s.getVocab("textures", name.String())
	return model.Texture{Name: model.TextureName(v.Name), Description: v.Description, Prompt: v.Prompt}, err
}
func (s *Store) GetLevel(name model.LevelName) (model.Level, error) {
	v, err := s.getVocab("levels", name.String())
	return model.Level{Name: model.LevelName(v.Name), Description: v.Description, Prompt: v.Prompt}, err
}
func (s *Store) GetSensation(name model.SensationName) (model.Sensation, error) {
	v, err := s.getVocab("sensations", name.String())
	return model.Sensation{Name: model.SensationName(v.Name), Description: v.Description, Prompt: v.Prompt}, err
}
func (s *Store) GetNature(name model.NatureName) (model.Nature, error) {
	v, err := s.getVocab("natures", name.String())
	return model.Nature{Name: model.NatureName(v.Name), Description: v.Description, Prompt: v.Prompt}, err
}

func (s *Store) ListPersonas() ([]model.Persona, error) { return s.listVocab("personas") }
func (s *Store) ListTextures() ([]model.Texture, error) {
	rows, err := s.listVocab("textures")
	out := make([]model.Texture, len(rows))
	for i, r := range rows {
		out[i] = model.Texture{Name: model.TextureName(r.Name), Description: r.Description, Prompt: r.Prompt}
	}
	return out, err
}
func (s *Store) ListLevels() ([]model.Level, error) {
	rows, err := s.listVocab("levels")
	out := make([]model.Level, len(rows))
	for i, r := range rows {
		out[i] = model.Level{Name: model.LevelName(r.Name), Description: r.Description, Prompt: r.Prompt}
	}
	return out, err
}
func (s *Store) ListSensations() ([]model.Sensation, error) {
	rows, err := s.listVocab("sensations")
	out := make([]model.Sensation, len(rows))
	for i, r := range rows {
		out[i] = model.Sensation{Name: model.SensationName(r.Name), Description: r.Description, Prompt: r.Prompt}
	}
	return out, err
}
func (s *Store) ListNatures() ([]model.Nature, error) {
	rows, err := s.listVocab("natures")
	out := make([]model.Nature, len(rows))
	for i, r := range rows {
		out[i] = model.Nature{Name: model.NatureName(r.Name), Description: r.Description, Prompt: r.Prompt}
	}
	return out, err
}

// VocabExists reports whether a name exists in the given vocabulary
// table, used by handlers that must 404 before writing an event that
// references a missing foreign vocabulary row (§4.2 invariant 2: the
// schema itself does not enforce this, handlers do).
func (s *Store) VocabExists(table, name string) (bool, error) {
	var one int
	err := s.db.QueryRow(fmt.Sprintf(`SELECT 1 FROM %s WHERE name = ?`, table), name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s exists: %w", table, err)
	}
	return true, nil
}

func scanAgent(row interface{ Scan(dest ...any) error }) (model.Agent, error) {
	var a model.Agent
	var idText, persona string
	if err := row.Scan(&idText, &a.Name, &persona, &a.Description, &a.Prompt); err != nil {
		return model.Agent{}, err
	}
	rawID, err := ids.ParseID(idText)
	if err != nil {
		return model.Agent{}, fmt.Errorf("corrupt agent id: %w", err)
	}
	a.ID = model.AgentID{ID: rawID}
	a.Persona = model.PersonaName(persona)
	return a, nil
}

// GetAgentByID fetches an agent by id.
func (s *Store) GetAgentByID(id model.AgentID) (model.Agent, error) {
	row := s.db.QueryRow(`SELECT id, name, persona, description, prompt FROM agents WHERE id = ?`, id.String())
	a, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return model.Agent{}, ErrNotFound
	}
	if err != nil {
		return model.Agent{}, fmt.Errorf("get agent: %w", err)
	}
	return a, nil
}

// GetAgentByName fetches an agent by its unique name.
func (s *Store) GetAgentByName(name model.AgentName) (model.Agent, error) {
	row := s.db.QueryRow(`SELECT id, name, persona, description, prompt FROM agents WHERE name = ?`, name.String())
	a, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return model.Agent{}, ErrNotFound
	}
	if err != nil {
		return model.Agent{}, fmt.Errorf("get agent by name: %w", err)
	}
	return a, nil
}

// GetAgentByKey resolves a Key (Id or Link) to an agent row.
func (s *Store) GetAgentByKey(key model.Key) (model.Agent, error) {
	if !key.IsLink() {
		id, err := key.ID()
		if err != nil {
			return model.Agent{}, err
		}
		return s.GetAgentByID(model.AgentID{ID: id})
	}
	lnk, err := key.Link()
	if err != nil {
		return model.Agent{}, err
	}
	if err := link.Narrow(lnk, "agent"); err != nil {
		return model.Agent{}, err
	}
	rows, err := s.ListAgents()
	if err != nil {
		return model.Agent{}, err
	}
	for _, a := range rows {
		candidate, err := a.Link()
		if err == nil && candidate.Equal(lnk) {
			return a, nil
		}
	}
	return model.Agent{}, ErrNotFound
}

// AgentNameExists reports whether an agent with this name is already
// registered, for the create-time conflict check.
func (s *Store) AgentNameExists(name model.AgentName) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM agents WHERE name = ?`, name.String()).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check agent name exists: %w", err)
	}
	return true, nil
}

// ListAgents returns every agent, ordered by name.
func (s *Store) ListAgents() ([]model.Agent, error) {
	rows, err := s.db.Query(`SELECT id, name, persona, description, prompt FROM agents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()
	var out []model.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListCognitions lists cognitions, optionally filtered by agent and/or
// texture. Missing filter = no restriction (§4.8).
func (s *Store) ListCognitions(agentID *model.AgentID, texture *model.TextureName) ([]model.Cognition, error) {
	query := `SELECT id, agent_id, texture, content, created_at FROM cognitions WHERE 1=1`
	var args []any
	if agentID != nil {
		query += ` AND agent_id = ?`
		args = append(args, agentID.String())
	}
	if texture != nil {
		query += ` AND texture = ?`
		args = append(args, texture.String())
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cognitions: %w", err)
	}
	defer rows.Close()
	var out []model.Cognition
	for rows.Next() {
		var c model.Cognition
		var idText, agentText, textureText, createdAtText string
		if err := rows.Scan(&idText, &agentText, &textureText, &c.Content, &createdAtText); err != nil {
			return nil, fmt.Errorf("scan cognition: %w", err)
		}
		if c.ID.ID, err = ids.ParseID(idText); err != nil {
			return nil, err
		}
		if c.AgentID.ID, err = ids.ParseID(agentText); err != nil {
			return nil, err
		}
		c.Texture = model.TextureName(textureText)
		if c.CreatedAt, err = ids.ParseTimestamp(createdAtText); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCognition fetches a single cognition by id.
func (s *Store) GetCognition(id model.CognitionID) (model.Cognition, error) {
	var c model.Cognition
	var idText, agentText, textureText, createdAtText string
	err := s.db.QueryRow(`SELECT id, agent_id, texture, content, created_at FROM cognitions WHERE id = ?`, id.String()).
		Scan(&idText, &agentText, &textureText, &c.Content, &createdAtText)
	if err == sql.ErrNoRows {
		return model.Cognition{}, ErrNotFound
	}
	if err != nil {
		return model.Cognition{}, fmt.Errorf("get cognition: %w", err)
	}
	if c.ID.ID, err = ids.ParseID(idText); err != nil {
		return model.Cognition{}, err
	}
	if c.AgentID.ID, err = ids.ParseID(agentText); err != nil {
		return model.Cognition{}, err
	}
	c.Texture = model.TextureName(textureText)
	if c.CreatedAt, err = ids.ParseTimestamp(createdAtText); err != nil {
		return model.Cognition{}, err
	}
	return c, nil
}

// ListMemories lists memories, optionally filtered by agent and/or level.
func (s *Store) ListMemories(agentID *model.AgentID, level *model.LevelName) ([]model.Memory, error) {
	query := `SELECT id, agent_id, level, content, created_at FROM memories WHERE 1=1`
	var args []any
	if agentID != nil {
		query += ` AND agent_id = ?`
		args = append(args, agentID.String())
	}
	if level != nil {
		query += ` AND level = ?`
		args = append(args, level.String())
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()
	var out []model.Memory
	for rows.Next() {
		var m model.Memory
		var idText, agentText, levelText, createdAtText string
		if err := rows.Scan(&idText, &agentText, &levelText, &m.Content, &createdAtText); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		if m.ID.ID, err = ids.ParseID(idText); err != nil {
			return nil, err
		}
		if m.AgentID.ID, err = ids.ParseID(agentText); err != nil {
			return nil, err
		}
		m.Level = model.LevelName(levelText)
		if m.CreatedAt, err = ids.ParseTimestamp(createdAtText); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMemory fetches a single memory by id.
func (s *Store) GetMemory(id model.MemoryID) (model.Memory, error) {
	var m model.Memory
	var idText, agentText, levelText, createdAtText string
	err := s.db.QueryRow(`SELECT id, agent_id, level, content, created_at FROM memories WHERE id = ?`, id.String()).
		Scan(&idText, &agentText, &levelText, &m.Content, &createdAtText)
	if err == sql.ErrNoRows {
		return model.Memory{}, ErrNotFound
	}
	if err != nil {
		return model.Memory{}, fmt.Errorf("get memory: %w", err)
	}
	if m.ID.ID, err = ids.ParseID(idText); err != nil {
		return model.Memory{}, err
	}
	if m.AgentID.ID, err = ids.ParseID(agentText); err != nil {
		return model.Memory{}, err
	}
	m.Level = model.LevelName(levelText)
	if m.CreatedAt, err = ids.ParseTimestamp(createdAtText); err != nil {
		return model.Memory{}, err
	}
	return m, nil
}

// GetExperience fetches a single experience by id, along with its
// ordered refs.
func (s *Store) GetExperience(id model.ExperienceID) (model.Experience, []model.ExperienceRef, error) {
	var e model.Experience
	var idText, agentText, sensationText, createdAtText string
	err := s.db.QueryRow(`SELECT id, agent_id, sensation, description, created_at FROM experiences WHERE id = ?`, id.String()).
		Scan(&idText, &agentText, &sensationText, &e.Description, &createdAtText)
	if err == sql.ErrNoRows {
		return model.Experience{}, nil, ErrNotFound
	}
	if err != nil {
		return model.Experience{}, nil, fmt.Errorf("get experience: %w", err)
	}
	if e.ID.ID, err = ids.ParseID(idText); err != nil {
		return model.Experience{}, nil, err
	}
	if e.AgentID.ID, err = ids.ParseID(agentText); err != nil {
		return model.Experience{}, nil, err
	}
	e.Sensation = model.SensationName(sensationText)
	if e.CreatedAt, err = ids.ParseTimestamp(createdAtText); err != nil {
		return model.Experience{}, nil, err
	}

	rows, err := s.db.Query(`SELECT link, position FROM experience_refs WHERE experience_id = ? ORDER BY position ASC`, id.String())
	if err != nil {
		return model.Experience{}, nil, fmt.Errorf("list experience refs: %w", err)
	}
	defer rows.Close()
	var refs []model.ExperienceRef
	for rows.Next() {
		var linkText string
		var position int
		if err := rows.Scan(&linkText, &position); err != nil {
			return model.Experience{}, nil, fmt.Errorf("scan experience ref: %w", err)
		}
		lnk, err := link.Parse(linkText)
		if err != nil {
			return model.Experience{}, nil, fmt.Errorf("corrupt experience ref link: %w", err)
		}
		refs = append(refs, model.ExperienceRef{ExperienceID: e.ID, RefLink: lnk, Position: position})
	}
	return e, refs, rows.Err()
}

// ListExperiences lists experiences, optionally filtered by agent
// and/or sensation.
func (s *Store) ListExperiences(agentID *model.AgentID, sensation *model.SensationName) ([]model.Experience, error) {
	query := `SELECT id, agent_id, sensation, description, created_at FROM experiences WHERE 1=1`
	var args []any
	if agentID != nil {
		query += ` AND agent_id = ?`
		args = append(args, agentID.String())
	}
	if sensation != nil {
		query += ` AND sensation = ?`
		args = append(args, sensation.String())
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	defer rows.Close()
	var out []model.Experience
	for rows.Next() {
		var e model.Experience
		var idText, agentText, sensationText, createdAtText string
		if err := rows.Scan(&idText, &agentText, &sensationText, &e.Description, &createdAtText); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		if e.ID.ID, err = ids.ParseID(idText); err != nil {
			return nil, err
		}
		if e.AgentID.ID, err = ids.ParseID(agentText); err != nil {
			return nil, err
		}
		e.Sensation = model.SensationName(sensationText)
		if e.CreatedAt, err = ids.ParseTimestamp(createdAtText); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListConnections lists connections, optionally filtered by nature.
func (s *Store) ListConnections(nature *model.NatureName) ([]model.Connection, error) {
	query := `SELECT id, nature, from_link, to_link, created_at FROM connections WHERE 1=1`
	var args []any
	if nature != nil {
		query += ` AND nature = ?`
		args = append(args, nature.String())
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()
	var out []model.Connection
	for rows.Next() {
		var c model.Connection
		var idText, natureText, fromText, toText, createdAtText string
		if err := rows.Scan(&idText, &natureText, &fromText, &toText, &createdAtText); err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		if c.ID.ID, err = ids.ParseID(idText); err != nil {
			return nil, err
		}
		c.Nature = model.NatureName(natureText)
		if c.FromLink, err = link.Parse(fromText); err != nil {
			return nil, err
		}
		if c.ToLink, err = link.Parse(toText); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = ids.ParseTimestamp(createdAtText); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetConnection fetches a single connection by id.
func (s *Store) GetConnection(id model.ConnectionID) (model.Connection, error) {
	var c model.Connection
	var idText, natureText, fromText, toText, createdAtText string
	err := s.db.QueryRow(`SELECT id, nature, from_link, to_link, created_at FROM connections WHERE id = ?`, id.String()).
		Scan(&idText, &natureText, &fromText, &toText, &createdAtText)
	if err == sql.ErrNoRows {
		return model.Connection{}, ErrNotFound
	}
	if err != nil {
		return model.Connection{}, fmt.Errorf("get connection: %w", err)
	}
	if c.ID.ID, err = ids.ParseID(idText); err != nil {
		return model.Connection{}, err
	}
	c.Nature = model.NatureName(natureText)
	if c.FromLink, err = link.Parse(fromText); err != nil {
		return model.Connection{}, err
	}
	if c.ToLink, err = link.Parse(toText); err != nil {
		return model.Connection{}, err
	}
	if c.CreatedAt, err = ids.ParseTimestamp(createdAtText); err != nil {
		return model.Connection{}, err
	}
	return c, nil
}

// GetStorage fetches a single storage entry by key.
func (s *Store) GetStorage(key model.StorageKey) (model.StorageEntry, error) {
	var e model.StorageEntry
	err := s.db.QueryRow(`SELECT key, description, hash FROM storage WHERE key = ?`, key.String()).
		Scan(&e.Key, &e.Description, &e.Hash)
	if err == sql.ErrNoRows {
		return model.StorageEntry{}, ErrNotFound
	}
	if err != nil {
		return model.StorageEntry{}, fmt.Errorf("get storage: %w", err)
	}
	return e, nil
}

// ListStorage lists every storage entry, ordered by key.
func (s *Store) ListStorage() ([]model.StorageEntry, error) {
	rows, err := s.db.Query(`SELECT key, description, hash FROM storage ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list storage: %w", err)
	}
	defer rows.Close()
	var out []model.StorageEntry
	for rows.Next() {
		var e model.StorageEntry
		if err := rows.Scan(&e.Key, &e.Description, &e.Hash); err != nil {
			return nil, fmt.Errorf("scan storage: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetBlob fetches a blob's compressed bytes and original size by hash.
func (s *Store) GetBlob(hashHex string) (compressed []byte, originalSize int, ok bool, err error) {
	row := s.db.QueryRow(`SELECT compressed_bytes, original_size FROM blobs WHERE hash = ?`, hashHex)
	err = row.Scan(&compressed, &originalSize)
	if err == sql.ErrNoRows {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("get blob: %w", err)
	}
	return compressed, originalSize, true, nil
}

// ownedRefs returns the set of resource_ref strings owned by an agent:
// the agent's own ref plus every cognition/memory/experience ref that
// belongs to it. Used to intersect search results under an ?agent=
// filter (§4.4).
func (s *Store) ownedRefs(agentID model.AgentID) (map[string]struct{}, error) {
	owned := map[string]struct{}{model.RefAgent(agentID).String(): {}}

	type idQuery struct {
		query string
		kind  string
	}
	queries := []idQuery{
		{`SELECT id FROM cognitions WHERE agent_id = ?`, "cognition"},
		{`SELECT id FROM memories WHERE agent_id = ?`, "memory"},
		{`SELECT id FROM experiences WHERE agent_id = ?`, "experience"},
	}
	for _, q := range queries {
		rows, err := s.db.Query(q.query, agentID.String())
		if err != nil {
			return nil, fmt.Errorf("list owned %s refs: %w", q.kind, err)
		}
		for rows.Next() {
			var idText string
			if err := rows.Scan(&idText); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan owned %s ref: %w", q.kind, err)
			}
			owned[model.Ref{Kind: q.kind, Ident: idText}.String()] = struct{}{}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return owned, nil
}

// Search ranks expressions matching query by FTS5's default bm25
// relevance score, optionally intersected with the refs owned by
// agentName plus the always-included shared vocabulary kinds.
func (s *Store) Search(query string, agentName *model.AgentName) ([]model.Expression, error) {
	var owned map[string]struct{}
	if agentName != nil {
		agent, err := s.GetAgentByName(*agentName)
		if err != nil {
			return nil, err
		}
		owned, err = s.ownedRefs(agent.ID)
		if err != nil {
			return nil, err
		}
	}

	rows, err := s.db.Query(
		`SELECT e.resource_ref, e.kind, e.content
			FROM expressions_fts f
			JOIN expressions e ON e.rowid = f.rowid
			WHERE f MATCH ?
			ORDER BY bm25(f) ASC`,
		query,
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var out []model.Expression
	for rows.Next() {
		var refText, kind, content string
		if err := rows.Scan(&refText, &kind, &content); err != nil {
			return nil, fmt.Errorf("scan expression: %w", err)
		}
		if owned != nil {
			_, isOwned := owned[refText]
			_, isShared := model.SharedVocabularyKinds[kind]
			if !isOwned && !isShared {
				continue
			}
		}
		ref, err := model.ParseRef(refText)
		if err != nil {
			return nil, fmt.Errorf("corrupt resource ref: %w", err)
		}
		out = append(out, model.Expression{ResourceRef: ref, Kind: kind, Content: content})
	}
	return out, rows.Err()
}
