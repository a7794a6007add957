package db

import "errors"

// Sentinel errors for backend operations.
var (
	ErrKeyNotFound       = errors.New("db: key not found")
	ErrBadStatus         = errors.New("db: backend returned non-success status")
	ErrMalformedResponse = errors.New("db: malformed backend response")
	ErrMissingFacet      = errors.New("db: requested facet missing from response")
	ErrInvalidQuery      = errors.New("db: invalid query")
)

// Op constants name backend operations for error context.
const (
	OpSelect  = "SELECT"
	OpSuggest = "SUGGEST"
	OpPing    = "PING"
	OpGet     = "GET"
	OpSet     = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
