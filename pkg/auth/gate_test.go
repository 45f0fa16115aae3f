package auth

import (
	"context"
	"testing"
)

func newGate(store IdentityStore) *Gate {
	return NewGate(NewResolver(store, 0, nil))
}

func wantKind(t *testing.T, err error, kind FailureKind) {
	t.Helper()
	f, ok := AsFailure(err)
	if !ok {
		t.Fatalf("err = %v, want *Failure", err)
	}
	if f.Kind != kind {
		t.Errorf("Kind = %s, want %s", f.Kind, kind)
	}
}

func TestGate_Authorized(t *testing.T) {
	store := &mockStore{principal: Principal{ID: "user-1", TenantID: "org-1", Role: RoleAdmin}}
	gate := newGate(store)

	ac, err := gate.Evaluate(context.Background(), "Bearer valid-token", "org-1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ac.TenantID != "org-1" || ac.Principal.ID != "user-1" {
		t.Errorf("context = %+v", ac)
	}
}

func TestGate_TenantMismatch(t *testing.T) {
	store := &mockStore{principal: Principal{ID: "user-1", TenantID: "org-1", Role: RoleAdmin}}
	gate := newGate(store)

	_, err := gate.Evaluate(context.Background(), "Bearer valid-token", "org-2")
	wantKind(t, err, KindTenantMismatch)
}

func TestGate_MissingTenant(t *testing.T) {
	store := &mockStore{principal: Principal{ID: "user-1", TenantID: "org-1"}}
	gate := newGate(store)

	_, err := gate.Evaluate(context.Background(), "Bearer valid-token", "")
	wantKind(t, err, KindMissingTenant)
}

func TestGate_AbsentHeader(t *testing.T) {
	store := &mockStore{}
	gate := newGate(store)

	_, err := gate.Evaluate(context.Background(), "", "org-1")
	wantKind(t, err, KindMalformedCredential)
	if store.calls != 0 {
		t.Errorf("resolver reached with malformed credential")
	}
}

func TestGate_WrongScheme(t *testing.T) {
	gate := newGate(&mockStore{})

	_, err := gate.Evaluate(context.Background(), "Basic dXNlcjpwYXNz", "org-1")
	wantKind(t, err, KindMalformedCredential)
}

func TestGate_EmptyBearerValue(t *testing.T) {
	gate := newGate(&mockStore{})

	_, err := gate.Evaluate(context.Background(), "Bearer ", "org-1")
	wantKind(t, err, KindMalformedCredential)
}

func TestGate_UnknownBearer(t *testing.T) {
	store := &mockStore{err: ErrNoSession}
	gate := newGate(store)

	_, err := gate.Evaluate(context.Background(), "Bearer unknown-token", "org-1")
	wantKind(t, err, KindUnauthenticated)
}

func TestGate_ResolutionPrecedesTenantCheck(t *testing.T) {
	// An unauthenticated caller with a missing tenant header learns only
	// that it is unauthenticated.
	store := &mockStore{err: ErrNoSession}
	gate := newGate(store)

	_, err := gate.Evaluate(context.Background(), "Bearer unknown-token", "")
	wantKind(t, err, KindUnauthenticated)
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc123", "abc123", false},
		{"absent", "", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"empty value", "Bearer ", "", true},
		{"lowercase scheme", "bearer abc123", "", true},
		{"value with spaces kept opaque", "Bearer a b c", "a b c", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearer(tt.header)
			if tt.wantErr {
				wantKind(t, err, KindMalformedCredential)
				return
			}
			if err != nil {
				t.Fatalf("ExtractBearer: %v", err)
			}
			if got != tt.want {
				t.Errorf("bearer = %q, want %q", got, tt.want)
			}
		})
	}
}
