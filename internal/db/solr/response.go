package solr

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/sitesearch/internal/db"
	"github.com/kailas-cloud/sitesearch/internal/domain/document"
)

type responseHeader struct {
	Status int `json:"status"`
}

// headered is any decoded body that carries a responseHeader.
type headered interface {
	header() responseHeader
}

type selectResponse struct {
	ResponseHeader responseHeader `json:"responseHeader"`
	Response       *struct {
		NumFound int64               `json:"numFound"`
		Docs     []document.Document `json:"docs"`
	} `json:"response"`
	FacetCounts *struct {
		FacetQueries map[string]int   `json:"facet_queries"`
		FacetFields  map[string][]any `json:"facet_fields"`
	} `json:"facet_counts"`
	Highlighting   map[string]map[string][]string `json:"highlighting"`
	NextCursorMark string                         `json:"nextCursorMark"`
}

func (r *selectResponse) header() responseHeader { return r.ResponseHeader }

type suggestResponse struct {
	ResponseHeader responseHeader `json:"responseHeader"`
	Suggest        map[string]map[string]struct {
		NumFound    int `json:"numFound"`
		Suggestions []struct {
			Term string `json:"term"`
		} `json:"suggestions"`
	} `json:"suggest"`
}

func (r *suggestResponse) header() responseHeader { return r.ResponseHeader }

type pingResponse struct {
	ResponseHeader responseHeader `json:"responseHeader"`
	Status         string         `json:"status"`
}

func (r *pingResponse) header() responseHeader { return r.ResponseHeader }

// toResponse converts the wire shape into a db.Response.
func (r *selectResponse) toResponse(q *db.Query) (*db.Response, error) {
	if r.Response == nil {
		return nil, fmt.Errorf("%w: missing response section", db.ErrMalformedResponse)
	}
	out := &db.Response{
		Total:        r.Response.NumFound,
		Documents:    r.Response.Docs,
		FacetFields:  map[string]map[string]int{},
		Highlighting: map[string][]string{},
		NextCursor:   r.NextCursorMark,
	}
	if out.Documents == nil {
		out.Documents = []document.Document{}
	}

	if r.FacetCounts != nil {
		for name, flat := range r.FacetCounts.FacetFields {
			counts, err := parseFlatCounts(flat)
			if err != nil {
				return nil, fmt.Errorf("facet field %s: %w", name, err)
			}
			out.FacetFields[name] = counts
		}
	}
	queries, err := r.facetQueries(q)
	if err != nil {
		return nil, err
	}
	out.FacetQueries = queries

	for id, fields := range r.Highlighting {
		var matched []string
		for name, snippets := range fields {
			if len(snippets) > 0 {
				matched = append(matched, name)
			}
		}
		slices.Sort(matched)
		out.Highlighting[id] = matched
	}

	if q.Cursor != "" && out.NextCursor == "" {
		return nil, fmt.Errorf("%w: cursor query without nextCursorMark", db.ErrMalformedResponse)
	}
	return out, nil
}

// facetQueries returns the counts of every requested facet query.
// A requested query absent from the response is an error, never a zero count.
func (r *selectResponse) facetQueries(q *db.Query) (map[string]int, error) {
	out := make(map[string]int, len(q.FacetQueries))
	if len(q.FacetQueries) == 0 {
		return out, nil
	}
	if r.FacetCounts == nil || r.FacetCounts.FacetQueries == nil {
		return nil, fmt.Errorf("%w: facet_queries", db.ErrMissingFacet)
	}
	for _, query := range q.FacetQueries {
		n, ok := r.FacetCounts.FacetQueries[query]
		if !ok {
			return nil, fmt.Errorf("%w: %s", db.ErrMissingFacet, query)
		}
		out[query] = n
	}
	return out, nil
}

// parseFlatCounts reads Solr's flat [term, count, term, count, ...] list.
func parseFlatCounts(flat []any) (map[string]int, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("%w: odd facet list length %d", db.ErrMalformedResponse, len(flat))
	}
	counts := make(map[string]int, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		term, ok := flat[i].(string)
		if !ok {
			return nil, fmt.Errorf("%w: facet term at %d is %T", db.ErrMalformedResponse, i, flat[i])
		}
		n, ok := flat[i+1].(float64)
		if !ok {
			return nil, fmt.Errorf("%w: facet count at %d is %T", db.ErrMalformedResponse, i+1, flat[i+1])
		}
		counts[term] = int(n)
	}
	return counts, nil
}
