package sitesearch

import (
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
)

// DefaultLimit is the page size used when SearchRequest.Limit is zero.
const DefaultLimit = 20

// SearchRequest describes a site search.
type SearchRequest struct {
	// Text is the free-text query. Every whitespace-separated token is
	// searched as a quoted phrase.
	Text string

	// Offset and Limit select the result page. Limit 0 means DefaultLimit;
	// the maximum is 50. Ignored by Stream and FieldCounts.
	Offset int
	Limit  int

	// Project restricts documents and fields to one project.
	Project string

	// MetadataOrganisms limits which organism counts are reported.
	MetadataOrganisms []string
	// SearchOrganisms limits which documents match. Must be a subset of
	// MetadataOrganisms when both are set.
	SearchOrganisms []string

	// DocumentType restricts the search to one document type, and
	// FoundOnlyInFields further to a subset of its searchable fields.
	DocumentType      string
	FoundOnlyInFields []string
}

func (r SearchRequest) params() request.Params {
	p := request.Params{
		SearchText:                  r.Text,
		RestrictToProject:           r.Project,
		RestrictMetadataToOrganisms: r.MetadataOrganisms,
		RestrictSearchToOrganisms:   r.SearchOrganisms,
	}

	limit := r.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	p.Pagination = &request.PaginationParams{Offset: r.Offset, NumRecords: limit}

	if r.DocumentType != "" || len(r.FoundOnlyInFields) > 0 {
		p.DocumentTypeFilter = &request.DocTypeFilterParams{
			DocumentType:      r.DocumentType,
			FoundOnlyInFields: r.FoundOnlyInFields,
		}
	}
	return p
}

// Result types share their JSON shape with the HTTP API.
type (
	// Results is the search response envelope.
	Results = result.Results
	// Catalog is the categories and document types of the site.
	Catalog = result.Catalog
	// Category groups document types for display.
	Category = result.Category
	// DocumentType describes a document type and its per-request count.
	DocumentType = result.DocumentType
	// Field is the public view of a document field.
	Field = result.Field
	// SearchResults holds the total hit count and the current page.
	SearchResults = result.SearchResults
	// Document is one formatted search hit.
	Document = result.Document
)
