package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/sitesearch/internal/db"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/plan"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Select(ctx context.Context, q *db.Query) (*db.Response, error)
}

// Repo runs search and export queries against the backend.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search executes one planned call of a request.
func (r *Repo) Search(
	ctx context.Context, req *request.Request, cat catalog.Catalog, call plan.Call,
) (*db.Response, error) {
	q, err := BuildQuery(req, cat, call)
	if err != nil {
		return nil, err
	}
	resp, err := r.store.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", call.Purpose, err)
	}
	return resp, nil
}

// ExportPage fetches one cursor page of an export.
func (r *Repo) ExportPage(
	ctx context.Context, req *request.Request, cat catalog.Catalog, batchSize int, cursor string,
) (*db.Response, error) {
	q, err := BuildExportQuery(req, cat, batchSize, cursor)
	if err != nil {
		return nil, err
	}
	resp, err := r.store.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("export page: %w", err)
	}
	return resp, nil
}
