package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vibebiz/perimeter/pkg/auth"
	"github.com/vibebiz/perimeter/pkg/credential"
	"github.com/vibebiz/perimeter/pkg/storage/memory"
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return NewService(store, credential.NewPool(2), time.Hour), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "correct horse", "org-1", "admin")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "correct horse" {
		t.Errorf("password stored incorrectly: %q", u.PasswordHash)
	}
	if u.TenantID != "org-1" {
		t.Errorf("TenantID = %q", u.TenantID)
	}

	sess, err := svc.Login(ctx, "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(sess.Token) != TokenLength {
		t.Errorf("token length = %d, want %d", len(sess.Token), TokenLength)
	}
	if !sess.ExpiresAt.After(time.Now()) {
		t.Errorf("ExpiresAt = %v, want future", sess.ExpiresAt)
	}

	// The issued token resolves to the registered principal.
	p, err := store.LookupSession(ctx, sess.Token)
	if err != nil {
		t.Fatalf("LookupSession: %v", err)
	}
	if p.ID != u.ID || p.TenantID != "org-1" || p.Role != auth.RoleAdmin {
		t.Errorf("principal = %+v", p)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "right", "org-1", "member"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "anything")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "pw", "org-1", "member"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Register(ctx, "alice@example.com", "pw2", "org-2", "member"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegister_UnknownRole(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), "x@example.com", "pw", "org-1", "superuser")
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("err = %v, want ErrInvalidRole", err)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "pw-123456", "org-1", "member"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	sess, err := svc.Login(ctx, "alice@example.com", "pw-123456")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := store.LookupSession(ctx, sess.Token); !errors.Is(err, auth.ErrNoSession) {
		t.Errorf("session survived logout: %v", err)
	}

	// Second logout of the same token is a no-op.
	if err := svc.Logout(ctx, sess.Token); err != nil {
		t.Errorf("repeated Logout: %v", err)
	}
}

func TestLogin_TokensDiffer(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "pw-123456", "org-1", "member"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	first, err := svc.Login(ctx, "alice@example.com", "pw-123456")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	second, err := svc.Login(ctx, "alice@example.com", "pw-123456")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if first.Token == second.Token {
		t.Error("two logins issued the same token")
	}
}
