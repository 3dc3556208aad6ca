package system

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"

	"github.com/oneiros-project/oneiros/internal/eventstore"
	"github.com/oneiros-project/oneiros/internal/ids"
	"github.com/oneiros-project/oneiros/internal/model"
)

// ErrNotFound is returned by single-row lookups that find nothing.
var ErrNotFound = errors.New("not found")

// Store wraps the system database: its event log plus the
// tenants/actors/brains/tickets tables it projects into.
type Store struct {
	db     *sql.DB
	Events *eventstore.Store
}

// Open opens (creating if absent) the system database file at path and
// ensures its schema exists. WAL mode matches the teacher's SQLite
// configuration for concurrent readers alongside a single writer.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open system database: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, Events: eventstore.New(db)}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Replay truncates and rebuilds every system projection from the event
// log. Used by the events/replay operation and at startup recovery.
func (s *Store) Replay() (applied int, warnings int, err error) {
	return s.Events.Replay(Projections())
}

// HashToken returns the lookup key stored alongside an issued ticket:
// the hex-lowercase SHA-256 of the token's encoded bytes. Tickets never
// store the token itself, only this hash.
func HashToken(tokenBytes []byte) string {
	sum := sha256.Sum256(tokenBytes)
	return hex.EncodeToString(sum[:])
}

// ValidateTicket reports whether tokenHash names a ticket that is
// present and unrevoked.
func (s *Store) ValidateTicket(tokenHash string) (bool, error) {
	var revokedAt sql.NullString
	err := s.db.QueryRow(`SELECT revoked_at FROM tickets WHERE token_hash = ?`, tokenHash).Scan(&revokedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("validate ticket: %w", err)
	}
	return !revokedAt.Valid, nil
}

// GetBrainPath resolves a brain id to its on-disk database path.
func (s *Store) GetBrainPath(id model.BrainID) (string, error) {
	var path string
	err := s.db.QueryRow(`SELECT path FROM brains WHERE id = ?`, id.String()).Scan(&path)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get brain path: %w", err)
	}
	return path, nil
}

func scanBrain(row interface {
	Scan(dest ...any) error
}) (model.Brain, error) {
	var b model.Brain
	var idText, tenantText, nameText, status string
	if err := row.Scan(&idText, &tenantText, &nameText, &b.Path, &status); err != nil {
		return model.Brain{}, err
	}
	rawID, err := ids.ParseID(idText)
	if err != nil {
		return model.Brain{}, fmt.Errorf("corrupt brain id: %w", err)
	}
	tenantID, err := ids.ParseID(tenantText)
	if err != nil {
		return model.Brain{}, fmt.Errorf("corrupt brain tenant id: %w", err)
	}
	b.ID = model.BrainID{ID: rawID}
	b.TenantID = model.TenantID{ID: tenantID}
	b.Name = model.BrainName(nameText)
	b.Status = model.BrainStatus(status)
	return b, nil
}

// GetBrainByName resolves a brain by (tenant, name).
func (s *Store) GetBrainByName(tenantID model.TenantID, name model.BrainName) (model.Brain, error) {
	row := s.db.QueryRow(
		`SELECT id, tenant_id, name, path, status FROM brains WHERE tenant_id = ? AND name = ?`,
		tenantID.String(), name.String(),
	)
	b, err := scanBrain(row)
	if err == sql.ErrNoRows {
		return model.Brain{}, ErrNotFound
	}
	if err != nil {
		return model.Brain{}, fmt.Errorf("get brain by name: %w", err)
	}
	return b, nil
}

// ListBrains returns every brain registered for a tenant.
func (s *Store) ListBrains(tenantID model.TenantID) ([]model.Brain, error) {
	rows, err := s.db.Query(`SELECT id, tenant_id, name, path, status FROM brains WHERE tenant_id = ? ORDER BY name`, tenantID.String())
	if err != nil {
		return nil, fmt.Errorf("list brains: %w", err)
	}
	defer rows.Close()

	var out []model.Brain
	for rows.Next() {
		b, err := scanBrain(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brain: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetTicketByHash resolves a ticket by its token hash, for binding
// checks against decoded claims.
func (s *Store) GetTicketByHash(tokenHash string) (model.Ticket, error) {
	var t model.Ticket
	var idText, tenantText, brainText, actorText string
	var revokedAt sql.NullString
	err := s.db.QueryRow(
		`SELECT id, tenant_id, brain_id, actor_id, revoked_at FROM tickets WHERE token_hash = ?`,
		tokenHash,
	).Scan(&idText, &tenantText, &brainText, &actorText, &revokedAt)
	if err == sql.ErrNoRows {
		return model.Ticket{}, ErrNotFound
	}
	if err != nil {
		return model.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	t.TokenHash = tokenHash

	rawID, err := ids.ParseID(idText)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("corrupt ticket id: %w", err)
	}
	t.ID = model.TicketID{ID: rawID}

	tenantRaw, err := ids.ParseID(tenantText)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("corrupt ticket tenant id: %w", err)
	}
	t.TenantID = model.TenantID{ID: tenantRaw}

	brainRaw, err := ids.ParseID(brainText)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("corrupt ticket brain id: %w", err)
	}
	t.BrainID = model.BrainID{ID: brainRaw}

	actorRaw, err := ids.ParseID(actorText)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("corrupt ticket actor id: %w", err)
	}
	t.ActorID = model.ActorID{ID: actorRaw}

	if revokedAt.Valid {
		ts, err := ids.ParseTimestamp(revokedAt.String)
		if err != nil {
			return model.Ticket{}, fmt.Errorf("corrupt ticket revoked_at: %w", err)
		}
		t.RevokedAt = &ts
	}
	return t, nil
}

// GetAnyActorForTenant returns an arbitrary actor already registered
// under a tenant, used to bind a freshly issued ticket when the caller
// did not specify one explicitly.
func (s *Store) GetAnyActorForTenant(tenantID model.TenantID) (model.Actor, error) {
	var idText, name string
	err := s.db.QueryRow(`SELECT id, name FROM actors WHERE tenant_id = ? LIMIT 1`, tenantID.String()).Scan(&idText, &name)
	if err == sql.ErrNoRows {
		return model.Actor{}, ErrNotFound
	}
	if err != nil {
		return model.Actor{}, fmt.Errorf("get actor for tenant: %w", err)
	}
	rawID, err := ids.ParseID(idText)
	if err != nil {
		return model.Actor{}, fmt.Errorf("corrupt actor id: %w", err)
	}
	return model.Actor{ID: model.ActorID{ID: rawID}, TenantID: tenantID, Name: model.Label(name)}, nil
}

// GetTenantByName resolves a tenant by name.
func (s *Store) GetTenantByName(name model.TenantName) (model.Tenant, error) {
	var idText string
	err := s.db.QueryRow(`SELECT id FROM tenants WHERE name = ?`, name.String()).Scan(&idText)
	if err == sql.ErrNoRows {
		return model.Tenant{}, ErrNotFound
	}
	if err != nil {
		return model.Tenant{}, fmt.Errorf("get tenant by name: %w", err)
	}
	rawID, err := ids.ParseID(idText)
	if err != nil {
		return model.Tenant{}, fmt.Errorf("corrupt tenant id: %w", err)
	}
	return model.Tenant{ID: model.TenantID{ID: rawID}, Name: name}, nil
}
