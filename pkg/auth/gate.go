package auth

import (
	"context"
	"strings"
)

// bearerPrefix is the only accepted Authorization scheme.
const bearerPrefix = "Bearer "

// Gate composes credential extraction, identity resolution, and tenant
// authorization into the single entry point the transport layer calls per
// request. It holds no cross-request state and is safe for concurrent use.
type Gate struct {
	resolver *Resolver
}

// NewGate creates a gate over the given resolver.
func NewGate(resolver *Resolver) *Gate {
	return &Gate{resolver: resolver}
}

// Evaluate runs one request through the gate and produces exactly one
// terminal outcome: an AuthorizedContext, or an error that always unwraps
// to a *Failure. No step is retried.
//
// The evaluation order is fixed: bearer syntax first (MalformedCredential),
// then identity resolution (Unauthenticated), then the tenant check
// (MissingTenant, TenantMismatch). Resolver and authorizer failures are
// propagated verbatim.
func (g *Gate) Evaluate(ctx context.Context, authorization, assertedTenantID string) (*AuthorizedContext, error) {
	bearer, err := ExtractBearer(authorization)
	if err != nil {
		return nil, err
	}

	principal, err := g.resolver.Resolve(ctx, bearer)
	if err != nil {
		return nil, err
	}

	return Authorize(principal, assertedTenantID)
}

// ExtractBearer validates the transport form of the credential and returns
// the opaque bearer value. An absent header, a non-Bearer scheme, or an
// empty value all fail with MalformedCredential.
func ExtractBearer(authorization string) (string, error) {
	if authorization == "" {
		return "", NewFailure(KindMalformedCredential, "authorization header is required")
	}
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return "", NewFailure(KindMalformedCredential, "authorization header must use the Bearer scheme")
	}
	bearer := strings.TrimPrefix(authorization, bearerPrefix)
	if bearer == "" {
		return "", NewFailure(KindMalformedCredential, "bearer value is empty")
	}
	return bearer, nil
}
