package request

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/sitesearch/internal/domain"
)

// MaxSearchTextLength is the maximum raw search text length.
const MaxSearchTextLength = 4096

// PaginationPolicy controls how the pagination block of a request is treated.
type PaginationPolicy int

const (
	// PaginationRequired rejects requests without a pagination block.
	PaginationRequired PaginationPolicy = iota
	// PaginationIgnored drops any pagination block (unbounded export).
	PaginationIgnored
)

// PaginationParams is the raw pagination block.
type PaginationParams struct {
	Offset     int
	NumRecords int
}

// DocTypeFilterParams is the raw document type filter block.
type DocTypeFilterParams struct {
	DocumentType      string
	FoundOnlyInFields []string
}

// Params holds unvalidated request values, whichever transport they came from.
type Params struct {
	SearchText                  string
	Pagination                  *PaginationParams
	RestrictToProject           string
	RestrictMetadataToOrganisms []string
	RestrictSearchToOrganisms   []string
	DocumentTypeFilter          *DocTypeFilterParams
}

// DocTypeFilter restricts a search to one document type and optionally to a
// subset of its fields.
type DocTypeFilter struct {
	docType           string
	foundOnlyInFields []string
}

// DocType returns the document type id.
func (f DocTypeFilter) DocType() string { return f.docType }

// FoundOnlyInFields returns the field subset (nil when absent).
func (f DocTypeFilter) FoundOnlyInFields() []string { return f.foundOnlyInFields }

// HasFields reports whether a field subset is present.
func (f DocTypeFilter) HasFields() bool { return len(f.foundOnlyInFields) > 0 }

// Request is a validated search request.
type Request struct {
	searchText        string
	pagination        *Pagination
	project           string
	metadataOrganisms []string
	searchOrganisms   []string
	docTypeFilter     *DocTypeFilter
}

// New validates params and builds a Request. Empty lists are treated as absent.
func New(p Params, policy PaginationPolicy) (Request, error) {
	if strings.TrimSpace(p.SearchText) == "" {
		return Request{}, fmt.Errorf("%w: searchText is required", domain.ErrInvalidRequest)
	}
	if len(p.SearchText) > MaxSearchTextLength {
		return Request{}, fmt.Errorf("%w: searchText too long (max %d chars)",
			domain.ErrInvalidRequest, MaxSearchTextLength)
	}

	r := Request{
		searchText:        TranslateSearchText(p.SearchText),
		project:           strings.TrimSpace(p.RestrictToProject),
		metadataOrganisms: nonEmpty(p.RestrictMetadataToOrganisms),
		searchOrganisms:   nonEmpty(p.RestrictSearchToOrganisms),
	}

	switch policy {
	case PaginationRequired:
		if p.Pagination == nil {
			return Request{}, fmt.Errorf("%w: pagination is required", domain.ErrInvalidRequest)
		}
		pg, err := NewPagination(p.Pagination.Offset, p.Pagination.NumRecords)
		if err != nil {
			return Request{}, err
		}
		r.pagination = &pg
	case PaginationIgnored:
	default:
		return Request{}, fmt.Errorf("unknown pagination policy %d", policy)
	}

	if r.searchOrganisms != nil && r.metadataOrganisms != nil {
		for _, org := range r.searchOrganisms {
			if !slices.Contains(r.metadataOrganisms, org) {
				return Request{}, fmt.Errorf(
					"%w: all organisms in restrictSearchToOrganisms must exist in restrictMetadataToOrganisms (%q does not)",
					domain.ErrInvalidRequest, org)
			}
		}
	}

	if p.DocumentTypeFilter != nil {
		if p.DocumentTypeFilter.DocumentType == "" {
			return Request{}, fmt.Errorf("%w: documentTypeFilter.documentType is required", domain.ErrInvalidRequest)
		}
		r.docTypeFilter = &DocTypeFilter{
			docType:           p.DocumentTypeFilter.DocumentType,
			foundOnlyInFields: nonEmpty(p.DocumentTypeFilter.FoundOnlyInFields),
		}
	}

	return r, nil
}

func nonEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return slices.Clone(values)
}

// SearchText returns the translated, quoted search text safe for the backend.
func (r *Request) SearchText() string { return r.searchText }

// Pagination returns the page window; ok is false for unpaged requests.
func (r *Request) Pagination() (Pagination, bool) {
	if r.pagination == nil {
		return Pagination{}, false
	}
	return *r.pagination, true
}

// Project returns the project scope ("" when unscoped).
func (r *Request) Project() string { return r.project }

// MetadataOrganisms returns the organism presentation scope (nil when absent).
func (r *Request) MetadataOrganisms() []string { return r.metadataOrganisms }

// SearchOrganisms returns the organism search scope (nil when absent).
func (r *Request) SearchOrganisms() []string { return r.searchOrganisms }

// DocTypeFilter returns the document type filter; ok is false when absent.
func (r *Request) DocTypeFilter() (DocTypeFilter, bool) {
	if r.docTypeFilter == nil {
		return DocTypeFilter{}, false
	}
	return *r.docTypeFilter, true
}

// HasOrganismFilter reports whether the search is restricted to organisms.
func (r *Request) HasOrganismFilter() bool { return r.searchOrganisms != nil }

// HasDocTypeFilter reports whether a document type filter is present.
func (r *Request) HasDocTypeFilter() bool { return r.docTypeFilter != nil }

// HasDocTypeFilterAndFields reports whether a document type filter with a field subset is present.
func (r *Request) HasDocTypeFilterAndFields() bool {
	return r.docTypeFilter != nil && r.docTypeFilter.HasFields()
}
