package storage

import "errors"

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when a record does not exist within the
	// caller's tenant scope.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a record with the same unique key
	// already exists.
	ErrConflict = errors.New("record already exists")
)
