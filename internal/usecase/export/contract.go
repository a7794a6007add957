package export

import (
	"context"

	"github.com/kailas-cloud/sitesearch/internal/db"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

// CatalogLoader builds the catalog for a request.
type CatalogLoader interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}

// Pager fetches one cursor page of an export.
type Pager interface {
	ExportPage(
		ctx context.Context, req *request.Request, cat catalog.Catalog, batchSize int, cursor string,
	) (*db.Response, error)
}
