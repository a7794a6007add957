package catalog

import (
	"context"

	"github.com/kailas-cloud/sitesearch/internal/db"
)

// mockSearcher implements the consumer interface for tests.
type mockSearcher struct {
	selectFn func(ctx context.Context, q *db.Query) (*db.Response, error)
	queries  []*db.Query
}

func (m *mockSearcher) Select(ctx context.Context, q *db.Query) (*db.Response, error) {
	m.queries = append(m.queries, q)
	if m.selectFn != nil {
		return m.selectFn(ctx, q)
	}
	return &db.Response{}, nil
}
