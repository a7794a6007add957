package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/sitesearch/internal/db"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog/field"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	selectFn func(ctx context.Context, q *db.Query) (*db.Response, error)
	queries  []*db.Query
}

func (m *mockStore) Select(ctx context.Context, q *db.Query) (*db.Response, error) {
	m.queries = append(m.queries, q)
	if m.selectFn != nil {
		return m.selectFn(ctx, q)
	}
	return &db.Response{}, nil
}

func ptr[T any](v T) *T { return &v }

func testCatalog(t *testing.T) catalog.Catalog {
	t.Helper()
	cats := []catalog.CategoryDefinition{
		{Name: "Genome", DocumentTypes: []catalog.TypeDefinition{
			{ID: "gene", DisplayName: "Gene", DisplayNamePlural: "Genes", HasOrganismField: true, Boost: ptr(2.0)},
		}},
		{Name: "Resources", DocumentTypes: []catalog.TypeDefinition{
			{ID: "dataset", DisplayName: "Dataset", DisplayNamePlural: "Datasets"},
		}},
	}
	fields := []catalog.FieldsDefinition{
		{DocumentType: "gene", Fields: []field.Definition{
			{Name: "TEXT__gene_product", Boost: ptr(0.5)},
			{Name: "MULTITEXT__gene_GOTerms", Boost: ptr(1.5)},
			{Name: "TEXT__gene_name", IsSearchable: ptr(false)},
		}},
		{DocumentType: "dataset", Fields: []field.Definition{
			{Name: "TEXT__dataset_description"},
		}},
	}
	c, _, err := catalog.Merge(cats, fields)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	return c
}

func newRequest(t *testing.T, p request.Params, policy request.PaginationPolicy) *request.Request {
	t.Helper()
	if p.SearchText == "" {
		p.SearchText = "protein kinase"
	}
	if policy == request.PaginationRequired && p.Pagination == nil {
		p.Pagination = &request.PaginationParams{Offset: 0, NumRecords: 20}
	}
	r, err := request.New(p, policy)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}
