package auth

import "errors"

// FailureKind categorizes authorization failures. Every kind is
// client-fault, terminal, and non-retriable; the transport layer maps kinds
// to HTTP statuses and the kind string doubles as the wire-level error
// category.
type FailureKind string

const (
	// KindMalformedCredential: the Authorization header is absent or is
	// not a well-formed bearer header.
	KindMalformedCredential FailureKind = "malformed_credential"

	// KindUnauthenticated: the bearer value did not resolve to a
	// principal. Covers unknown, expired, and store-failure cases alike.
	KindUnauthenticated FailureKind = "unauthenticated"

	// KindMissingTenant: the request asserted no tenant.
	KindMissingTenant FailureKind = "missing_tenant"

	// KindTenantMismatch: the principal does not belong to the asserted
	// tenant.
	KindTenantMismatch FailureKind = "tenant_mismatch"
)

// Failure is the typed outcome of a failed gate evaluation. The Message is
// safe for external callers; internal causes are logged, never attached.
type Failure struct {
	Kind    FailureKind
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return string(f.Kind) + ": " + f.Message
}

// NewFailure creates a Failure of the given kind.
func NewFailure(kind FailureKind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// AsFailure extracts a *Failure from err. The second return is false when
// err carries no Failure, which indicates a programming error somewhere in
// the gate: every failure path must produce a typed Failure.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
