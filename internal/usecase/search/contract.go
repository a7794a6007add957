package search

import (
	"context"

	"github.com/kailas-cloud/sitesearch/internal/db"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/plan"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

// CatalogLoader builds the catalog for a request.
type CatalogLoader interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}

// Repository runs one planned backend call.
type Repository interface {
	Search(ctx context.Context, req *request.Request, cat catalog.Catalog, call plan.Call) (*db.Response, error)
}
