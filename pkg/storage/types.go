package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/vibebiz/perimeter/pkg/api"
	"github.com/vibebiz/perimeter/pkg/auth"
)

// User is an account record. PasswordHash is the self-describing output of
// the credential hasher; the plaintext never reaches this package.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	TenantID     string
	Role         string
	CreatedAt    time.Time
}

// Session maps a hashed bearer token to a user until it expires.
type Session struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Store is the full persistence contract. Implementations must be safe for
// concurrent use and must scope every read of business resources by tenant.
type Store interface {
	auth.IdentityStore

	CreateUser(ctx context.Context, u User) error
	UserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, tenantID string) ([]User, error)

	CreateSession(ctx context.Context, s Session) error
	DeleteSession(ctx context.Context, bearer string) error

	CreateDocument(ctx context.Context, d api.Document) error
	ListDocuments(ctx context.Context, tenantID string) ([]api.Document, error)

	CreateReport(ctx context.Context, r api.Report) error
	GetReport(ctx context.Context, tenantID, id string) (api.Report, error)
	UpdateReport(ctx context.Context, r api.Report) error

	Close()
}

// HashBearer returns the hex SHA-256 digest under which a bearer token is
// persisted. Hashing before storage means a leaked database dump cannot be
// replayed as live credentials.
func HashBearer(bearer string) string {
	sum := sha256.Sum256([]byte(bearer))
	return hex.EncodeToString(sum[:])
}
