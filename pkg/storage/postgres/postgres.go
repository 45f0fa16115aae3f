// Package postgres provides a PostgreSQL implementation of storage.Store.
// It uses pgx/v5 for connection pooling and JSONB for report payloads.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibebiz/perimeter/pkg/api"
	"github.com/vibebiz/perimeter/pkg/auth"
	"github.com/vibebiz/perimeter/pkg/storage"
)

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// CreateUser persists a user record.
func (s *Store) CreateUser(ctx context.Context, u storage.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, tenant_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.PasswordHash, u.TenantID, u.Role, u.CreatedAt)

	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// UserByEmail retrieves a user by email.
func (s *Store) UserByEmail(ctx context.Context, email string) (storage.User, error) {
	var u storage.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, tenant_id, role, created_at
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.TenantID, &u.Role, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

// ListUsers returns all users of a tenant, ordered by creation time.
func (s *Store) ListUsers(ctx context.Context, tenantID string) ([]storage.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, email, password_hash, tenant_id, role, created_at
		FROM users WHERE tenant_id = $1 ORDER BY created_at
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var out []storage.User
	for rows.Next() {
		var u storage.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.TenantID, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CreateSession persists a session under its token hash.
func (s *Store) CreateSession(ctx context.Context, sess storage.Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, sess.TokenHash, sess.UserID, sess.ExpiresAt, sess.CreatedAt)

	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// LookupSession resolves a raw bearer value to a principal through a single
// join. Unknown and expired tokens are indistinguishable: both return
// auth.ErrNoSession.
func (s *Store) LookupSession(ctx context.Context, bearer string) (auth.Principal, error) {
	var id, tenantID, role string
	err := s.pool.QueryRow(ctx, `
		SELECT u.id, u.tenant_id, u.role
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = $1 AND s.expires_at > now()
	`, storage.HashBearer(bearer)).Scan(&id, &tenantID, &role)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Principal{}, auth.ErrNoSession
		}
		return auth.Principal{}, fmt.Errorf("querying session: %w", err)
	}

	return auth.Principal{
		ID:       id,
		TenantID: tenantID,
		Role:     auth.ParseRole(role),
	}, nil
}

// DeleteSession removes a session. Deleting an unknown session is a no-op.
func (s *Store) DeleteSession(ctx context.Context, bearer string) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM sessions WHERE token_hash = $1", storage.HashBearer(bearer))
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// CreateDocument persists a document under its tenant.
func (s *Store) CreateDocument(ctx context.Context, d api.Document) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (id, title, slug, filename, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, d.ID, d.Title, d.Slug, nullString(d.Filename), d.OrganizationID, d.CreatedAt, d.UpdatedAt)

	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// ListDocuments returns a tenant's documents, newest first.
func (s *Store) ListDocuments(ctx context.Context, tenantID string) ([]api.Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, slug, filename, tenant_id, created_at, updated_at
		FROM documents WHERE tenant_id = $1 ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var out []api.Document
	for rows.Next() {
		var d api.Document
		var filename *string
		if err := rows.Scan(&d.ID, &d.Title, &d.Slug, &filename, &d.OrganizationID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if filename != nil {
			d.Filename = *filename
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreateReport persists a report.
func (s *Store) CreateReport(ctx context.Context, r api.Report) error {
	dataJSON, err := marshalData(r.Data)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO reports (id, tenant_id, report_type, period, status, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.ID, r.OrganizationID, r.Type, r.Period, r.Status, dataJSON, r.CreatedAt)

	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

// GetReport retrieves a report scoped by tenant.
func (s *Store) GetReport(ctx context.Context, tenantID, id string) (api.Report, error) {
	var r api.Report
	var dataJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, report_type, period, status, data, created_at
		FROM reports WHERE id = $1 AND tenant_id = $2
	`, id, tenantID).Scan(&r.ID, &r.OrganizationID, &r.Type, &r.Period, &r.Status, &dataJSON, &r.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return api.Report{}, storage.ErrNotFound
		}
		return api.Report{}, fmt.Errorf("querying report: %w", err)
	}

	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &r.Data); err != nil {
			return api.Report{}, fmt.Errorf("unmarshaling report data: %w", err)
		}
	}
	return r, nil
}

// UpdateReport replaces a stored report's status and data.
func (s *Store) UpdateReport(ctx context.Context, r api.Report) error {
	dataJSON, err := marshalData(r.Data)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE reports SET status = $1, data = $2 WHERE id = $3 AND tenant_id = $4
	`, r.Status, dataJSON, r.ID, r.OrganizationID)
	if err != nil {
		return fmt.Errorf("updating report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func marshalData(data map[string]any) (*[]byte, error) {
	if data == nil {
		return nil, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling report data: %w", err)
	}
	return &b, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isDuplicateKey checks if the error is a PostgreSQL unique violation (23505).
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
