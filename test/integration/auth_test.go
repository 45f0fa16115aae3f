package integration

import (
	"net/http"
	"strings"
	"testing"
)

func TestAuthLifecycle(t *testing.T) {
	token := registerAndLogin(t, "org-lifecycle")

	// Authenticated, tenant-scoped request succeeds.
	resp := doJSON(t, http.MethodGet, "/api/v1/documents", nil, authHeaders(token, "org-lifecycle"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("documents status = %d, want 200", resp.StatusCode)
	}

	// Logout revokes the token.
	resp = doJSON(t, http.MethodPost, "/api/v1/auth/logout", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, "/api/v1/documents", nil, authHeaders(token, "org-lifecycle"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d, want 401", resp.StatusCode)
	}
}

func TestGateFailureTaxonomy(t *testing.T) {
	token := registerAndLogin(t, "org-taxonomy")

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantKind   string
	}{
		{
			name:       "no authorization header",
			headers:    map[string]string{"X-Organization-ID": "org-taxonomy"},
			wantStatus: http.StatusUnauthorized,
			wantKind:   "malformed_credential",
		},
		{
			name: "wrong scheme",
			headers: map[string]string{
				"Authorization":     "Basic dXNlcjpwYXNz",
				"X-Organization-ID": "org-taxonomy",
			},
			wantStatus: http.StatusUnauthorized,
			wantKind:   "malformed_credential",
		},
		{
			name: "unknown bearer",
			headers: map[string]string{
				"Authorization":     "Bearer definitely-not-issued",
				"X-Organization-ID": "org-taxonomy",
			},
			wantStatus: http.StatusUnauthorized,
			wantKind:   "unauthenticated",
		},
		{
			name: "missing tenant header",
			headers: map[string]string{
				"Authorization": "Bearer " + token,
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   "missing_tenant",
		},
		{
			name:       "tenant mismatch",
			headers:    authHeaders(token, "some-other-org"),
			wantStatus: http.StatusForbidden,
			wantKind:   "tenant_mismatch",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodGet, "/api/v1/documents", nil, tc.headers)
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}

			var body struct {
				Error string `json:"error"`
			}
			decodeJSON(t, resp, &body)
			if body.Error != tc.wantKind {
				t.Errorf("error = %q, want %q", body.Error, tc.wantKind)
			}
		})
	}
}

func TestIssuedTokenNeverEchoedOnFailure(t *testing.T) {
	token := registerAndLogin(t, "org-echo")

	resp := doJSON(t, http.MethodGet, "/api/v1/documents", nil, authHeaders(token, "wrong-org"))
	defer resp.Body.Close()

	body := readBody(t, resp)
	if strings.Contains(body, token) {
		t.Error("rejection body contains the presented bearer token")
	}
}
