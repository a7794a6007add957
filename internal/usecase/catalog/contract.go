package catalog

import "context"

// Source loads the raw json-blob of an internal catalog document.
type Source interface {
	Fetch(ctx context.Context, docType string) ([]byte, error)
}
