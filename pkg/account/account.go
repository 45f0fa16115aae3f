// Package account implements the account-management flows: registration,
// login, and logout. It is the only caller of the credential hasher and
// token generator; both run behind the bounded hashing pool so concurrent
// authentication attempts cannot monopolize CPU.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibebiz/perimeter/pkg/api"
	"github.com/vibebiz/perimeter/pkg/auth"
	"github.com/vibebiz/perimeter/pkg/credential"
	"github.com/vibebiz/perimeter/pkg/debug"
	"github.com/vibebiz/perimeter/pkg/observability"
	"github.com/vibebiz/perimeter/pkg/storage"
)

// Store is the slice of the storage contract the account service needs.
type Store interface {
	CreateUser(ctx context.Context, u storage.User) error
	UserByEmail(ctx context.Context, email string) (storage.User, error)
	CreateSession(ctx context.Context, s storage.Session) error
	DeleteSession(ctx context.Context, bearer string) error
}

// Sentinel errors surfaced to the transport layer.
var (
	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an email that exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidRole is returned when registering with a role outside the
	// closed role set.
	ErrInvalidRole = errors.New("unknown role")
)

// TokenLength is the length of issued bearer tokens: 64 alphanumeric
// characters, ~381 bits of entropy.
const TokenLength = 64

// Service implements registration, login, and logout over an injected
// store and hashing pool.
type Service struct {
	store      Store
	pool       *credential.Pool
	sessionTTL time.Duration
}

// NewService creates an account service. A non-positive ttl defaults to
// 24 hours.
func NewService(store Store, pool *credential.Pool, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{store: store, pool: pool, sessionTTL: ttl}
}

// Register creates a user with a hashed credential. The plaintext password
// is hashed through the bounded pool and discarded; it never reaches
// storage or logs.
func (s *Service) Register(ctx context.Context, email, password, tenantID, role string) (storage.User, error) {
	if auth.ParseRole(role) == auth.RoleUnknown {
		return storage.User{}, ErrInvalidRole
	}

	hashed, err := s.pool.Hash(ctx, password)
	if err != nil {
		return storage.User{}, fmt.Errorf("hashing password: %w", err)
	}

	u := storage.User{
		ID:           api.NewUserID(),
		Email:        email,
		PasswordHash: hashed,
		TenantID:     tenantID,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return storage.User{}, ErrEmailTaken
		}
		return storage.User{}, fmt.Errorf("creating user: %w", err)
	}

	return u, nil
}

// dummyHash is verified against when the email is unknown, so login cost
// does not reveal whether an account exists.
var dummyHash = func() string {
	h, err := credential.Hash("dummy-timing-equalizer")
	if err != nil {
		panic(err)
	}
	return h
}()

// Login verifies credentials and issues a fresh bearer token with the
// configured TTL. Unknown email and wrong password return the same error.
func (s *Service) Login(ctx context.Context, email, password string) (api.Session, error) {
	u, lookupErr := s.store.UserByEmail(ctx, email)
	hash := u.PasswordHash
	if lookupErr != nil {
		hash = dummyHash
	}

	ok, err := s.pool.Verify(ctx, password, hash)
	if err != nil {
		return api.Session{}, fmt.Errorf("verifying password: %w", err)
	}
	if !ok || lookupErr != nil {
		return api.Session{}, ErrInvalidCredentials
	}

	token := credential.Token(TokenLength)
	expiresAt := time.Now().UTC().Add(s.sessionTTL)

	err = s.store.CreateSession(ctx, storage.Session{
		TokenHash: storage.HashBearer(token),
		UserID:    u.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return api.Session{}, fmt.Errorf("creating session: %w", err)
	}

	observability.SessionsIssuedTotal.Inc()
	debug.Log("account", "session issued", "user", u.ID, "expires_at", expiresAt)

	return api.Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the session behind a bearer value. Revoking an unknown
// session succeeds; logout is idempotent.
func (s *Service) Logout(ctx context.Context, bearer string) error {
	if err := s.store.DeleteSession(ctx, bearer); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
