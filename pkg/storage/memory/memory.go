// Package memory provides an in-memory implementation of storage.Store for
// tests and lightweight deployments. All records are lost when the process
// restarts.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vibebiz/perimeter/pkg/api"
	"github.com/vibebiz/perimeter/pkg/auth"
	"github.com/vibebiz/perimeter/pkg/storage"
)

// Store is an in-memory storage.Store.
type Store struct {
	mu           sync.RWMutex
	users        map[string]storage.User    // id -> user
	usersByEmail map[string]string          // email -> id
	sessions     map[string]storage.Session // token hash -> session
	documents    map[string][]api.Document  // tenant id -> documents
	reports      map[string]api.Report      // id -> report

	nowFn func() time.Time
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:        make(map[string]storage.User),
		usersByEmail: make(map[string]string),
		sessions:     make(map[string]storage.Session),
		documents:    make(map[string][]api.Document),
		reports:      make(map[string]api.Report),
		nowFn:        time.Now,
	}
}

// CreateUser stores a user. Returns storage.ErrConflict when the email is
// already registered.
func (s *Store) CreateUser(_ context.Context, u storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[u.Email]; exists {
		return storage.ErrConflict
	}
	if _, exists := s.users[u.ID]; exists {
		return storage.ErrConflict
	}

	s.users[u.ID] = u
	s.usersByEmail[u.Email] = u.ID
	return nil
}

// UserByEmail retrieves a user by email.
func (s *Store) UserByEmail(_ context.Context, email string) (storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return s.users[id], nil
}

// ListUsers returns all users of a tenant, ordered by creation time.
func (s *Store) ListUsers(_ context.Context, tenantID string) ([]storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []storage.User
	for _, u := range s.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// CreateSession stores a session under its token hash.
func (s *Store) CreateSession(_ context.Context, sess storage.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.TokenHash]; exists {
		return storage.ErrConflict
	}
	s.sessions[sess.TokenHash] = sess
	return nil
}

// LookupSession resolves a raw bearer value to a principal. Unknown and
// expired tokens both return auth.ErrNoSession; expired sessions are
// removed lazily on lookup.
func (s *Store) LookupSession(_ context.Context, bearer string) (auth.Principal, error) {
	hash := storage.HashBearer(bearer)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[hash]
	if !ok {
		return auth.Principal{}, auth.ErrNoSession
	}

	if !s.nowFn().Before(sess.ExpiresAt) {
		delete(s.sessions, hash)
		return auth.Principal{}, auth.ErrNoSession
	}

	u, ok := s.users[sess.UserID]
	if !ok {
		return auth.Principal{}, auth.ErrNoSession
	}

	return auth.Principal{
		ID:       u.ID,
		TenantID: u.TenantID,
		Role:     auth.ParseRole(u.Role),
	}, nil
}

// DeleteSession removes a session. Deleting an unknown session is a no-op.
func (s *Store) DeleteSession(_ context.Context, bearer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, storage.HashBearer(bearer))
	return nil
}

// CreateDocument stores a document under its tenant.
func (s *Store) CreateDocument(_ context.Context, d api.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[d.OrganizationID] = append(s.documents[d.OrganizationID], d)
	return nil
}

// ListDocuments returns a tenant's documents, newest first.
func (s *Store) ListDocuments(_ context.Context, tenantID string) ([]api.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.documents[tenantID]
	out := make([]api.Document, len(docs))
	copy(out, docs)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CreateReport stores a report.
func (s *Store) CreateReport(_ context.Context, r api.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[r.ID]; exists {
		return storage.ErrConflict
	}
	s.reports[r.ID] = r
	return nil
}

// GetReport retrieves a report scoped by tenant. A report belonging to a
// different tenant is indistinguishable from a missing one.
func (s *Store) GetReport(_ context.Context, tenantID, id string) (api.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok || r.OrganizationID != tenantID {
		return api.Report{}, storage.ErrNotFound
	}
	return r, nil
}

// UpdateReport replaces a stored report.
func (s *Store) UpdateReport(_ context.Context, r api.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[r.ID]; !ok {
		return storage.ErrNotFound
	}
	s.reports[r.ID] = r
	return nil
}

// Close releases nothing; it exists to satisfy storage.Store.
func (s *Store) Close() {}
