package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/sitesearch/internal/db"
	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/document"
)

// searcher is the consumer interface for catalog documents (ISP).
type searcher interface {
	Select(ctx context.Context, q *db.Query) (*db.Response, error)
}

// Repo reads the catalog documents stored in the search backend.
type Repo struct {
	searcher searcher
}

// New creates a catalog repository.
func New(s searcher) *Repo {
	return &Repo{searcher: s}
}

// documentQuery selects the single document of an internal type, returning
// only its json-blob parsed as JSON.
func documentQuery(docType string) *db.Query {
	return db.NewQuery("*").
		Filter(document.FieldDocumentType + ":(" + docType + ")").
		Page(0, 2).
		Return(document.FieldJSONBlob + ":[json]").
		MustBuild()
}

// Fetch returns the raw json-blob of the catalog document of docType.
// Exactly one such document must exist.
func (r *Repo) Fetch(ctx context.Context, docType string) ([]byte, error) {
	resp, err := r.searcher.Select(ctx, documentQuery(docType))
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", domain.ErrBackendIntegrity, docType, err)
	}

	if n := len(resp.Documents); n != 1 {
		what := "No"
		if n > 1 {
			what = fmt.Sprintf("More than one (%d)", resp.Total)
		}
		return nil, fmt.Errorf("%w: %s documents found with type %q", domain.ErrBackendIntegrity, what, docType)
	}

	blob, ok := resp.Documents[0][document.FieldJSONBlob]
	if !ok || blob == nil {
		return nil, fmt.Errorf("%w: %s document has no %s", domain.ErrBackendIntegrity, docType, document.FieldJSONBlob)
	}
	data, err := json.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: re-encode %s: %w", domain.ErrBackendIntegrity, document.FieldJSONBlob, err)
	}
	return data, nil
}
