package auth

import "context"

// authorizedKey is a private type for the context key, preventing
// collisions with other packages.
type authorizedKey struct{}

// SetAuthorized stores a successful gate outcome in the context.
func SetAuthorized(ctx context.Context, ac *AuthorizedContext) context.Context {
	return context.WithValue(ctx, authorizedKey{}, ac)
}

// FromContext retrieves the authorized context, or nil when the request
// never passed the gate (bypass endpoints).
func FromContext(ctx context.Context) *AuthorizedContext {
	if v, ok := ctx.Value(authorizedKey{}).(*AuthorizedContext); ok {
		return v
	}
	return nil
}

// TenantFromContext returns the authoritative tenant for storage scoping,
// or the empty string outside an authorized request.
func TenantFromContext(ctx context.Context) string {
	if ac := FromContext(ctx); ac != nil {
		return ac.TenantID
	}
	return ""
}
