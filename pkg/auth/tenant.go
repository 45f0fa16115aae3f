package auth

// Authorize validates that a resolved principal may act within the tenant
// the request asserts. It is a pure function: no I/O, no clock, no state.
//
// An empty assertion fails with MissingTenant; a principal whose tenant
// differs from the assertion fails with TenantMismatch. On success the
// returned AuthorizedContext carries the asserted tenant, which downstream
// code treats as authoritative for data-access scoping.
func Authorize(principal Principal, assertedTenantID string) (*AuthorizedContext, error) {
	if assertedTenantID == "" {
		return nil, NewFailure(KindMissingTenant, "tenant assertion header is required")
	}

	if principal.TenantID != assertedTenantID {
		return nil, NewFailure(KindTenantMismatch, "principal is not a member of the specified organization")
	}

	return &AuthorizedContext{
		Principal: principal,
		TenantID:  assertedTenantID,
	}, nil
}
