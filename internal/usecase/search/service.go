package search

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/sitesearch/internal/db"
	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog"
	"github.com/kailas-cloud/sitesearch/internal/domain/document"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/facet"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/plan"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
	"github.com/kailas-cloud/sitesearch/internal/logger"
)

// Service orchestrates a search: validation, catalog load, the primary
// backend call, facet correction calls and result formatting.
type Service struct {
	catalogs         CatalogLoader
	repo             Repository
	correctionsTotal *prometheus.CounterVec
}

// New creates a search service.
// correctionsTotal is a counter vec with label "purpose"; nil disables counting.
func New(catalogs CatalogLoader, repo Repository, correctionsTotal *prometheus.CounterVec) *Service {
	return &Service{catalogs: catalogs, repo: repo, correctionsTotal: correctionsTotal}
}

// Search returns a page of documents with corrected facet counts.
func (s *Service) Search(ctx context.Context, params request.Params) (result.Results, error) {
	return s.run(ctx, params, request.PaginationRequired, false)
}

// FieldCounts returns the envelope with corrected facet counts and no documents.
func (s *Service) FieldCounts(ctx context.Context, params request.Params) (result.Results, error) {
	return s.run(ctx, params, request.PaginationIgnored, true)
}

func (s *Service) run(
	ctx context.Context, params request.Params, policy request.PaginationPolicy, omitResults bool,
) (result.Results, error) {
	req, err := request.New(params, policy)
	if err != nil {
		return result.Results{}, err
	}

	cat, err := s.catalogs.Load(ctx)
	if err != nil {
		return result.Results{}, err
	}
	if err = cat.Validate(&req); err != nil {
		return result.Results{}, err
	}

	ctx = logger.With(ctx, zap.String("search_text", req.SearchText()))

	primary, corrections := plan.Build(&req, omitResults)
	if _, allIncluded := cat.SelectSearchFields(&req, true); allIncluded {
		// the primary call already counts every field
		corrections = slices.DeleteFunc(corrections, func(c plan.Call) bool {
			return c.Purpose == plan.PurposeFieldCounts
		})
	}

	resp, err := s.repo.Search(ctx, &req, cat, primary)
	if err != nil {
		return result.Results{}, integrityError(err)
	}
	counts, err := countsFrom(resp, req.HasDocTypeFilter())
	if err != nil {
		return result.Results{}, err
	}

	if err = s.correct(ctx, &req, cat, corrections, &counts); err != nil {
		return result.Results{}, err
	}

	return format(ctx, &req, cat, counts, resp, omitResults)
}

// correct runs the correction calls concurrently and overwrites the counts
// each one is responsible for. Any failure aborts the request.
func (s *Service) correct(
	ctx context.Context, req *request.Request, cat catalog.Catalog, calls []plan.Call, counts *facet.Counts,
) error {
	if len(calls) == 0 {
		return nil
	}

	responses := make([]*db.Response, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		if s.correctionsTotal != nil {
			s.correctionsTotal.WithLabelValues(string(call.Purpose)).Inc()
		}
		g.Go(func() error {
			resp, err := s.repo.Search(gctx, req, cat, call)
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return integrityError(err)
	}

	for i, call := range calls {
		switch call.Purpose {
		case plan.PurposeOrganismCounts:
			orgs, err := responses[i].Facet(document.FieldOrganism)
			if err != nil {
				return integrityError(err)
			}
			counts.Organisms = orgs
		case plan.PurposeFieldCounts:
			queries, err := responses[i].QueryFacets()
			if err != nil {
				return integrityError(err)
			}
			counts.Fields = facet.FieldCountsFromQueries(queries)
		}
	}

	logger.FromContext(ctx).Debug("facet counts corrected", zap.Int("calls", len(calls)))
	return nil
}

func countsFrom(resp *db.Response, withFieldCounts bool) (facet.Counts, error) {
	counts := facet.NewCounts()

	types, err := resp.Facet(document.FieldDocumentType)
	if err != nil {
		return facet.Counts{}, integrityError(err)
	}
	counts.DocumentTypes = types

	orgs, err := resp.Facet(document.FieldOrganism)
	if err != nil {
		return facet.Counts{}, integrityError(err)
	}
	counts.Organisms = orgs

	if withFieldCounts {
		queries, err := resp.QueryFacets()
		if err != nil {
			return facet.Counts{}, integrityError(err)
		}
		counts.Fields = facet.FieldCountsFromQueries(queries)
	}
	return counts, nil
}

// integrityError classifies a backend failure as a server-side error.
func integrityError(err error) error {
	if errors.Is(err, domain.ErrInvalidRequest) || errors.Is(err, domain.ErrBackendIntegrity) ||
		errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrBackendIntegrity, err)
}
