package auth

import "context"

// Role is a principal's role within its tenant. The set is closed; values
// read from storage that match none of the known roles parse to RoleUnknown
// so that decisions over roles stay exhaustive.
type Role int

const (
	RoleUnknown Role = iota
	RoleOwner
	RoleAdmin
	RoleMember
	RoleBilling
)

// ParseRole maps a stored role string to a Role. Unrecognized input yields
// RoleUnknown rather than an error; callers decide what an unknown role may
// do (nothing, in this service).
func ParseRole(s string) Role {
	switch s {
	case "owner":
		return RoleOwner
	case "admin":
		return RoleAdmin
	case "member":
		return RoleMember
	case "billing":
		return RoleBilling
	default:
		return RoleUnknown
	}
}

// String returns the storage form of the role.
func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	case RoleBilling:
		return "billing"
	default:
		return "unknown"
	}
}

// Principal is the authenticated identity derived from a bearer credential.
// It is resolved once per request and never mutated afterwards; in
// particular TenantID is set exactly at resolution time.
type Principal struct {
	ID       string
	TenantID string
	Role     Role
}

// AuthorizedContext is the proof that both identity resolution and the
// tenant-match check succeeded. Its TenantID is authoritative for all
// data-access scoping downstream; no code path other than Authorize may
// construct one.
type AuthorizedContext struct {
	Principal Principal
	TenantID  string
}

// IdentityStore is the single collaborator call the Resolver makes: map a
// presented bearer value to a principal. Implementations must report the
// same "not found" failure for unknown and expired credentials so the
// resolver cannot become an enumeration oracle.
type IdentityStore interface {
	LookupSession(ctx context.Context, bearer string) (Principal, error)
}
