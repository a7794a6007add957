package domain

import "errors"

var (
	// ErrInvalidRequest signals a request that failed validation.
	// Wrapped messages are safe to show to the caller.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrBackendIntegrity signals a failed, malformed or inconsistent backend response.
	ErrBackendIntegrity = errors.New("backend integrity error")
	// ErrCatalogInvalid signals a catalog that cannot be assembled (e.g. duplicate type ids).
	ErrCatalogInvalid = errors.New("invalid catalog")
)
