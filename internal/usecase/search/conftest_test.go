package search

import (
	"context"
	"sync"
	"testing"

	"github.com/kailas-cloud/sitesearch/internal/db"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog/field"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/plan"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

// --- Mocks ---

type mockCatalogs struct {
	cat catalog.Catalog
	err error
}

func (m *mockCatalogs) Load(_ context.Context) (catalog.Catalog, error) {
	return m.cat, m.err
}

// mockRepo answers by call purpose and records every call it sees.
type mockRepo struct {
	mu        sync.Mutex
	responses map[plan.Purpose]*db.Response
	errs      map[plan.Purpose]error
	calls     []plan.Call
}

func (m *mockRepo) Search(
	_ context.Context, _ *request.Request, _ catalog.Catalog, call plan.Call,
) (*db.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	if err := m.errs[call.Purpose]; err != nil {
		return nil, err
	}
	if resp, ok := m.responses[call.Purpose]; ok {
		return resp, nil
	}
	return emptyResponse(), nil
}

func (m *mockRepo) purposes() []plan.Purpose {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]plan.Purpose, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.Purpose
	}
	return out
}

// --- Fixtures ---

func ptr[T any](v T) *T { return &v }

func emptyResponse() *db.Response {
	return &db.Response{
		FacetFields: map[string]map[string]int{
			"document-type": {},
			"organism":      {},
		},
		FacetQueries: map[string]int{},
	}
}

func testCatalog(t *testing.T) catalog.Catalog {
	t.Helper()
	cats := []catalog.CategoryDefinition{
		{Name: "Genome", DocumentTypes: []catalog.TypeDefinition{
			{ID: "gene", DisplayName: "Gene", DisplayNamePlural: "Genes", HasOrganismField: true, WdkSearchURLName: "GenesByText"},
		}},
		{Name: "Resources", DocumentTypes: []catalog.TypeDefinition{
			{ID: "dataset", DisplayName: "Dataset", DisplayNamePlural: "Datasets"},
		}},
	}
	fields := []catalog.FieldsDefinition{
		{DocumentType: "gene", Fields: []field.Definition{
			{Name: "TEXT__gene_product"},
			{Name: "MULTITEXT__gene_GOTerms"},
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

func baseParams() request.Params {
	return request.Params{
		SearchText: "kinase",
		Pagination: &request.PaginationParams{Offset: 0, NumRecords: 10},
	}
}
