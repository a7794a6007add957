package solr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kailas-cloud/sitesearch/internal/db"
)

// suggestDictionary is the suggester component name configured in the core.
const suggestDictionary = "default"

// Suggest queries the /suggest handler. The response must hold exactly one
// suggestion set for the default dictionary.
func (c *Client) Suggest(ctx context.Context, text string) ([]string, error) {
	params := url.Values{
		"suggest.q": {text},
		"wt":        {"json"},
	}
	var raw suggestResponse
	if err := c.do(ctx, db.OpSuggest, http.MethodGet, "/suggest", params, &raw); err != nil {
		return nil, err
	}

	sets, ok := raw.Suggest[suggestDictionary]
	if !ok {
		return nil, &db.Error{Op: db.OpSuggest,
			Err: fmt.Errorf("%w: no %q suggester in response", db.ErrMalformedResponse, suggestDictionary)}
	}
	if len(sets) != 1 {
		return nil, &db.Error{Op: db.OpSuggest,
			Err: fmt.Errorf("%w: expected one suggestion set, got %d", db.ErrMalformedResponse, len(sets))}
	}

	terms := []string{}
	for _, set := range sets {
		if set.NumFound < 1 {
			break
		}
		for _, s := range set.Suggestions {
			terms = append(terms, s.Term)
		}
	}
	return terms, nil
}
