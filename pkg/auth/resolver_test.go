package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockStore is a configurable IdentityStore for tests.
type mockStore struct {
	principal Principal
	err       error
	delay     time.Duration
	gotBearer string
	calls     int
}

func (m *mockStore) LookupSession(ctx context.Context, bearer string) (Principal, error) {
	m.calls++
	m.gotBearer = bearer
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return Principal{}, ctx.Err()
		}
	}
	if m.err != nil {
		return Principal{}, m.err
	}
	return m.principal, nil
}

func wantUnauthenticated(t *testing.T, err error) {
	t.Helper()
	f, ok := AsFailure(err)
	if !ok || f.Kind != KindUnauthenticated {
		t.Errorf("err = %v, want Unauthenticated failure", err)
	}
}

func TestResolve_Success(t *testing.T) {
	store := &mockStore{principal: Principal{ID: "user-1", TenantID: "org-1", Role: RoleMember}}
	r := NewResolver(store, 0, nil)

	p, err := r.Resolve(context.Background(), "valid-bearer")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.ID != "user-1" || p.TenantID != "org-1" {
		t.Errorf("principal = %+v", p)
	}
	if store.gotBearer != "valid-bearer" {
		t.Errorf("store saw bearer %q", store.gotBearer)
	}
	if store.calls != 1 {
		t.Errorf("store calls = %d, want exactly one", store.calls)
	}
}

func TestResolve_EmptyBearer(t *testing.T) {
	store := &mockStore{}
	r := NewResolver(store, 0, nil)

	_, err := r.Resolve(context.Background(), "")
	wantUnauthenticated(t, err)
	if store.calls != 0 {
		t.Errorf("store called for empty bearer")
	}
}

func TestResolve_NoSession(t *testing.T) {
	store := &mockStore{err: ErrNoSession}
	r := NewResolver(store, 0, nil)

	_, err := r.Resolve(context.Background(), "unknown-bearer")
	wantUnauthenticated(t, err)
}

func TestResolve_StoreFaultIsUnauthenticated(t *testing.T) {
	// Infrastructure failures must be indistinguishable from invalid
	// credentials to the caller.
	store := &mockStore{err: errors.New("connection refused")}
	r := NewResolver(store, 0, nil)

	_, err := r.Resolve(context.Background(), "any-bearer")
	wantUnauthenticated(t, err)
}

func TestResolve_TimeoutIsUnauthenticated(t *testing.T) {
	store := &mockStore{
		principal: Principal{ID: "user-1", TenantID: "org-1"},
		delay:     200 * time.Millisecond,
	}
	r := NewResolver(store, 10*time.Millisecond, nil)

	start := time.Now()
	_, err := r.Resolve(context.Background(), "slow-bearer")
	wantUnauthenticated(t, err)

	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("Resolve blocked for %v, want bounded by resolver timeout", elapsed)
	}
}

func TestResolve_CallerCancellation(t *testing.T) {
	store := &mockStore{
		principal: Principal{ID: "user-1", TenantID: "org-1"},
		delay:     time.Second,
	}
	r := NewResolver(store, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, "any-bearer")
	wantUnauthenticated(t, err)
}
