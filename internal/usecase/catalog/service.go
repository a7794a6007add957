package catalog

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/sitesearch/internal/domain/catalog"
	"github.com/kailas-cloud/sitesearch/internal/domain/document"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
	"github.com/kailas-cloud/sitesearch/internal/logger"
)

// Service builds the catalog from its two backend documents on every call.
type Service struct {
	source        Source
	warningsTotal *prometheus.CounterVec
}

// New creates a catalog service.
// warningsTotal is a counter vec with label "kind"; nil disables counting.
func New(source Source, warningsTotal *prometheus.CounterVec) *Service {
	return &Service{source: source, warningsTotal: warningsTotal}
}

// Load fetches the categories and fields documents concurrently and merges them.
func (s *Service) Load(ctx context.Context) (catalog.Catalog, error) {
	var categoriesBlob, fieldsBlob []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categoriesBlob, err = s.source.Fetch(gctx, document.TypeCategories)
		return err
	})
	g.Go(func() error {
		var err error
		fieldsBlob, err = s.source.Fetch(gctx, document.TypeFields)
		return err
	})
	if err := g.Wait(); err != nil {
		return catalog.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}

	categories, err := catalog.ParseCategories(categoriesBlob)
	if err != nil {
		return catalog.Catalog{}, err
	}
	fields, err := catalog.ParseFields(fieldsBlob)
	if err != nil {
		return catalog.Catalog{}, err
	}

	cat, warnings, err := catalog.Merge(categories, fields)
	if err != nil {
		return catalog.Catalog{}, err
	}

	log := logger.FromContext(ctx)
	for _, w := range warnings {
		log.Warn("catalog inconsistency",
			zap.String("kind", string(w.Kind)),
			zap.String("document_type", w.DocumentType),
			zap.String("detail", w.String()),
		)
		if s.warningsTotal != nil {
			s.warningsTotal.WithLabelValues(string(w.Kind)).Inc()
		}
	}
	return cat, nil
}

// Metadata renders the catalog for a project without any counts.
func (s *Service) Metadata(ctx context.Context, project string) (result.Catalog, error) {
	cat, err := s.Load(ctx)
	if err != nil {
		return result.Catalog{}, err
	}
	return result.NewCatalog(cat, project, nil), nil
}
