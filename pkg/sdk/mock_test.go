package sitesearch

import (
	"context"
	"io"

	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
	exportuc "github.com/kailas-cloud/sitesearch/internal/usecase/export"
	healthuc "github.com/kailas-cloud/sitesearch/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn      func(ctx context.Context, p request.Params) (result.Results, error)
	fieldCountsFn func(ctx context.Context, p request.Params) (result.Results, error)
}

func (m *mockSearchUC) Search(ctx context.Context, p request.Params) (result.Results, error) {
	return m.searchFn(ctx, p)
}

func (m *mockSearchUC) FieldCounts(ctx context.Context, p request.Params) (result.Results, error) {
	return m.fieldCountsFn(ctx, p)
}

// --- exportUseCase mock ---

type mockExportUC struct {
	prepareFn func(ctx context.Context, p request.Params) (*exportuc.Export, error)
	streamFn  func(ctx context.Context, exp *exportuc.Export, w io.Writer) (int64, error)
}

func (m *mockExportUC) Prepare(ctx context.Context, p request.Params) (*exportuc.Export, error) {
	return m.prepareFn(ctx, p)
}

func (m *mockExportUC) Stream(ctx context.Context, exp *exportuc.Export, w io.Writer) (int64, error) {
	return m.streamFn(ctx, exp, w)
}

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	fn func(ctx context.Context, project string) (result.Catalog, error)
}

func (m *mockCatalogUC) Metadata(ctx context.Context, project string) (result.Catalog, error) {
	return m.fn(ctx, project)
}

// --- suggestUseCase mock ---

type mockSuggestUC struct {
	fn func(ctx context.Context, text string) ([]string, error)
}

func (m *mockSuggestUC) Suggest(ctx context.Context, text string) ([]string, error) {
	return m.fn(ctx, text)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- pinger mock ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error {
	return m.err
}
