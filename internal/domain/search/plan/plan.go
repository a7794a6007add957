package plan

import "github.com/kailas-cloud/sitesearch/internal/domain/search/request"

// Purpose names why a backend call is made.
type Purpose string

const (
	// PurposePrimary fetches documents and the first set of facets.
	PurposePrimary Purpose = "primary"
	// PurposeOrganismCounts recomputes organism counts without the organism filter.
	PurposeOrganismCounts Purpose = "organism_counts"
	// PurposeFieldCounts recomputes field counts over all fields of the filtered type.
	PurposeFieldCounts Purpose = "field_counts"
)

// Call describes one backend query derived from a request.
type Call struct {
	Purpose             Purpose
	OmitResults         bool
	ApplyOrganismFilter bool
	ApplyFieldsFilter   bool
	RequestFieldFacets  bool
}

// Build returns the primary call and the correction calls a request needs.
// A filter skews the facet it filters on, so each active filter that would
// distort its own counts gets a correction call with that filter lifted.
func Build(req *request.Request, omitResults bool) (Call, []Call) {
	primary := Call{
		Purpose:             PurposePrimary,
		OmitResults:         omitResults,
		ApplyOrganismFilter: true,
		ApplyFieldsFilter:   true,
		RequestFieldFacets:  req.HasDocTypeFilter(),
	}

	var corrections []Call
	if req.HasOrganismFilter() {
		corrections = append(corrections, Call{
			Purpose:             PurposeOrganismCounts,
			OmitResults:         true,
			ApplyOrganismFilter: false,
			ApplyFieldsFilter:   true,
			RequestFieldFacets:  false,
		})
	}
	if req.HasDocTypeFilterAndFields() {
		corrections = append(corrections, Call{
			Purpose:             PurposeFieldCounts,
			OmitResults:         true,
			ApplyOrganismFilter: true,
			ApplyFieldsFilter:   false,
			RequestFieldFacets:  true,
		})
	}
	return primary, corrections
}
