package sitesearch

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Search runs a faceted search and returns one page of documents.
func (c *Client) Search(ctx context.Context, req SearchRequest) (res Results, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	res, err = c.searchSvc.Search(ctx, req.params())
	if err != nil {
		return Results{}, fmt.Errorf("search: %w", err)
	}
	return res, nil
}

// FieldCounts returns the facet counts of a search without documents.
// The page window of req is ignored.
func (c *Client) FieldCounts(ctx context.Context, req SearchRequest) (res Results, err error) {
	start := time.Now()
	defer func() { c.obs.observe("field_counts", start, err) }()

	res, err = c.searchSvc.FieldCounts(ctx, req.params())
	if err != nil {
		return Results{}, fmt.Errorf("field counts: %w", err)
	}
	return res, nil
}

// Stream writes every document matching req to w, one line per document.
// The page window of req is ignored. Validation errors are returned before
// anything is written; n counts the documents written.
func (c *Client) Stream(ctx context.Context, req SearchRequest, w io.Writer) (n int64, err error) {
	start := time.Now()
	defer func() { c.obs.observe("stream", start, err, "documents", n) }()

	exp, err := c.exportSvc.Prepare(ctx, req.params())
	if err != nil {
		return 0, fmt.Errorf("stream: %w", err)
	}
	n, err = c.exportSvc.Stream(ctx, exp, w)
	if err != nil {
		return n, fmt.Errorf("stream: %w", err)
	}
	return n, nil
}

// Categories returns the catalog, scoped to project when it is not empty.
func (c *Client) Categories(ctx context.Context, project string) (cat Catalog, err error) {
	start := time.Now()
	defer func() { c.obs.observe("categories", start, err) }()

	cat, err = c.catalogSvc.Metadata(ctx, project)
	if err != nil {
		return Catalog{}, fmt.Errorf("categories: %w", err)
	}
	return cat, nil
}

// Suggest returns typeahead completions for text.
// Inputs shorter than three characters yield an empty list.
func (c *Client) Suggest(ctx context.Context, text string) (suggestions []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, err) }()

	suggestions, err = c.suggestSvc.Suggest(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return suggestions, nil
}
