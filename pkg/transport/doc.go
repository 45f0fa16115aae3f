// Package transport serves the perimeter API over HTTP. It owns routing,
// request/response serialization, and the HTTP-level middleware stack
// (request ID, panic recovery, redacted request logging). Authorization is
// not implemented here: every non-bypass route sits behind the auth
// middleware, and handlers read the tenant exclusively from the
// AuthorizedContext the gate injected.
package transport
