// Package auth is the request-time security boundary of the service. It
// authenticates a caller's bearer credential, enforces that the caller acts
// only within the organization it claims, and produces either an
// AuthorizedContext or a typed Failure for the transport layer to render.
//
// The Gate composes three steps with a fixed order: bearer extraction,
// identity resolution through an injected IdentityStore, and the pure
// tenant-match check. Each step short-circuits with one of four failure
// kinds; internal store faults are deliberately folded into Unauthenticated
// so external callers cannot distinguish "down" from "invalid".
//
// Auth is implemented as HTTP middleware, keeping it decoupled from the
// business handlers. The middleware injects the AuthorizedContext into the
// request context; its TenantID is the single value downstream storage
// trusts for multi-tenancy scoping.
package auth
