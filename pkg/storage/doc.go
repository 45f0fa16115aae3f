// Package storage defines the persistence contract of the perimeter
// service: users with hashed credentials, bearer sessions, and the
// tenant-scoped business resources (documents, reports).
//
// The store is an injected collaborator with an explicit lifecycle — built
// at process start, closed at shutdown — never ambient global state. Two
// backends exist: storage/memory for tests and lightweight deployments,
// and storage/postgres backed by pgx.
//
// Bearer tokens are stored only as SHA-256 digests (see HashBearer); the
// raw value exists solely in the caller's Authorization header.
package storage
