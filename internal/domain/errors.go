// Package domain holds the entities and the sentinel error taxonomy shared
// by every layer. Callers match these with errors.Is; handlers map them to
// HTTP statuses in exactly one place.
package domain

import "errors"

var (
	// ErrUnauthenticated covers missing, malformed, expired or otherwise
	// unverifiable credentials. Never reveals whether a resource exists.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the caller is authenticated but lacks the role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the addressed entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is a uniqueness violation (duplicate email, duplicate
	// registry entry for a user/drug pair, duplicate NDC).
	ErrConflict = errors.New("conflict")

	// ErrInvalidArgument is malformed or out-of-range input, including a
	// filter field outside the search allow-list.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrResourceExhausted signals connection-pool pressure. Retryable.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrTimeout means the operation exceeded its bound and was rolled
	// back. Retryable.
	ErrTimeout = errors.New("timeout")
)
