package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vibebiz/perimeter/pkg/redact"
)

// ErrNoSession is returned by IdentityStore implementations when a bearer
// value maps to no live principal. Unknown and expired credentials share
// this sentinel deliberately; distinguishing them here would create a
// timing and enumeration oracle.
var ErrNoSession = errors.New("no session for credential")

// DefaultLookupTimeout caps a single identity store lookup.
const DefaultLookupTimeout = 5 * time.Second

// Resolver maps a presented bearer credential to a Principal through a
// single identity store lookup. It performs no caching and no retries;
// both belong to decorators around the store, where invalidation and
// backoff semantics are explicit.
type Resolver struct {
	store   IdentityStore
	timeout time.Duration
	logger  *slog.Logger
}

// NewResolver creates a resolver over the given store. A non-positive
// timeout falls back to DefaultLookupTimeout. A nil logger uses
// slog.Default.
func NewResolver(store IdentityStore, timeout time.Duration, logger *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, timeout: timeout, logger: logger}
}

// Resolve looks up the principal for a bearer value. Every failure mode —
// empty credential, unknown, expired, store unreachable, lookup timed out —
// surfaces as the single Unauthenticated failure so external callers cannot
// tell "invalid" from "down". Internal causes are logged with full,
// redacted detail for operators.
func (r *Resolver) Resolve(ctx context.Context, bearer string) (Principal, error) {
	if bearer == "" {
		return Principal{}, NewFailure(KindUnauthenticated, "authentication required")
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	principal, err := r.store.LookupSession(lookupCtx, bearer)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			r.logger.Debug("credential resolved to no session")
		} else {
			// Store fault or timeout. Logged at error level with the
			// cause; the caller still sees only Unauthenticated.
			fields := redact.Redact(map[string]any{
				"error":      err.Error(),
				"credential": bearer,
			}).(map[string]any)
			r.logger.Error("identity store lookup failed",
				"cause", fields["error"],
				"credential", fields["credential"],
			)
		}
		return Principal{}, NewFailure(KindUnauthenticated, "invalid or expired credential")
	}

	return principal, nil
}
