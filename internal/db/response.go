package db

import (
	"fmt"

	"github.com/kailas-cloud/sitesearch/internal/domain/document"
)

// Response is the parsed output of a select query.
type Response struct {
	Total        int64
	Documents    []document.Document
	FacetFields  map[string]map[string]int
	// FacetQueries is nil when the response carries no facet query section.
	FacetQueries map[string]int
	// Highlighting maps a document id to the names of fields with highlighted matches.
	Highlighting map[string][]string
	NextCursor   string
}

// Facet returns the counts of a requested facet field.
func (r *Response) Facet(name string) (map[string]int, error) {
	counts, ok := r.FacetFields[name]
	if !ok {
		return nil, &Error{Op: OpSelect, Err: fmt.Errorf("%w: %s", ErrMissingFacet, name)}
	}
	return counts, nil
}

// QueryFacets returns the counts of the requested facet queries.
func (r *Response) QueryFacets() (map[string]int, error) {
	if r.FacetQueries == nil {
		return nil, &Error{Op: OpSelect, Err: fmt.Errorf("%w: facet queries", ErrMissingFacet)}
	}
	return r.FacetQueries, nil
}
