package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vibebiz/perimeter/pkg/observability"
	"github.com/vibebiz/perimeter/pkg/redact"
)

// TenantHeader carries the tenant assertion for every authenticated request.
const TenantHeader = "X-Organization-ID"

// DefaultBypassEndpoints lists endpoints that skip the gate.
var DefaultBypassEndpoints = []string{"/healthz", "/readyz", "/metrics"}

// Middleware creates HTTP middleware from a Gate. It checks the bypass
// list, evaluates the gate against the Authorization and tenant headers,
// renders typed failures as JSON, and injects the authorized context for
// downstream handlers and storage scoping. Extra markers extend the
// default redaction set applied to rejection logs.
func Middleware(gate *Gate, bypassEndpoints []string, extraMarkers ...string) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(bypassEndpoints))
	for _, ep := range bypassEndpoints {
		bypass[ep] = true
	}
	policy := redact.NewPolicy(extraMarkers...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			ac, err := gate.Evaluate(r.Context(), r.Header.Get("Authorization"), r.Header.Get(TenantHeader))
			if err != nil {
				failure, ok := AsFailure(err)
				if !ok {
					// Every gate error must carry a Failure; anything else
					// is a bug in the gate itself.
					slog.Error("gate returned untyped error", "error", err)
					failure = NewFailure(KindUnauthenticated, "authentication required")
				}

				observability.AuthAttemptsTotal.WithLabelValues(string(failure.Kind)).Inc()

				fields := policy.Apply(map[string]any{
					"path":        r.URL.Path,
					"remote_addr": r.RemoteAddr,
					"credential":  r.Header.Get("Authorization"),
					"tenant":      r.Header.Get(TenantHeader),
				}).(map[string]any)
				slog.Warn("request rejected at gate",
					"kind", string(failure.Kind),
					"path", fields["path"],
					"remote_addr", fields["remote_addr"],
					"credential", fields["credential"],
					"tenant", fields["tenant"],
				)

				writeFailure(w, failure)
				return
			}

			observability.AuthAttemptsTotal.WithLabelValues("authorized").Inc()

			slog.Debug("request authorized",
				"principal", ac.Principal.ID,
				"tenant", ac.TenantID,
				"role", ac.Principal.Role.String(),
				"path", r.URL.Path,
			)

			next.ServeHTTP(w, r.WithContext(SetAuthorized(r.Context(), ac)))
		})
	}
}

// HTTPStatus maps a failure kind to its transport status code.
func HTTPStatus(kind FailureKind) int {
	switch kind {
	case KindMalformedCredential, KindUnauthenticated:
		return http.StatusUnauthorized
	case KindMissingTenant:
		return http.StatusBadRequest
	case KindTenantMismatch:
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}

// failureBody is the wire shape for gate failures.
type failureBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeFailure(w http.ResponseWriter, f *Failure) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(f.Kind))
	json.NewEncoder(w).Encode(failureBody{
		Error:   string(f.Kind),
		Message: f.Message,
	})
}
