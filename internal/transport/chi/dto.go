package chi

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

// DefaultNumRecords is the page size of a GET search without numRecords.
const DefaultNumRecords = 20

// ErrorCode classifies an error response.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeBackendError     ErrorCode = "backend_error"
	ErrorCodeCatalogInvalid   ErrorCode = "catalog_invalid"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// SearchRequest is the JSON body of the POST search endpoints.
type SearchRequest struct {
	SearchText                  string              `json:"searchText"`
	Pagination                  *PaginationBody     `json:"pagination,omitempty"`
	RestrictToProject           string              `json:"restrictToProject,omitempty"`
	RestrictMetadataToOrganisms []string            `json:"restrictMetadataToOrganisms,omitempty"`
	RestrictSearchToOrganisms   []string            `json:"restrictSearchToOrganisms,omitempty"`
	DocumentTypeFilter          *DocumentTypeFilter `json:"documentTypeFilter,omitempty"`
}

// PaginationBody is the page window of a search request.
type PaginationBody struct {
	Offset     int `json:"offset"`
	NumRecords int `json:"numRecords"`
}

// DocumentTypeFilter restricts a search to one type and optionally some of its fields.
type DocumentTypeFilter struct {
	DocumentType      string   `json:"documentType"`
	FoundOnlyInFields []string `json:"foundOnlyInFields,omitempty"`
}

// Params converts the body into request params.
func (b SearchRequest) Params() request.Params {
	p := request.Params{
		SearchText:                  b.SearchText,
		RestrictToProject:           b.RestrictToProject,
		RestrictMetadataToOrganisms: b.RestrictMetadataToOrganisms,
		RestrictSearchToOrganisms:   b.RestrictSearchToOrganisms,
	}
	if b.Pagination != nil {
		p.Pagination = &request.PaginationParams{
			Offset:     b.Pagination.Offset,
			NumRecords: b.Pagination.NumRecords,
		}
	}
	if b.DocumentTypeFilter != nil {
		p.DocumentTypeFilter = &request.DocTypeFilterParams{
			DocumentType:      b.DocumentTypeFilter.DocumentType,
			FoundOnlyInFields: b.DocumentTypeFilter.FoundOnlyInFields,
		}
	}
	return p
}

// searchParamsFromQuery binds GET search query parameters. Lists use repeated
// parameters (?restrictSearchToOrganisms=a&restrictSearchToOrganisms=b).
// projectId is accepted as an alias of restrictToProject.
func searchParamsFromQuery(q url.Values) (request.Params, error) {
	var (
		body      SearchRequest
		projectID string
		docType   string
		inFields  []string
		offset    int
	)
	numRecords := DefaultNumRecords
	binds := []struct {
		name     string
		required bool
		dest     any
	}{
		{"searchText", true, &body.SearchText},
		{"offset", false, &offset},
		{"numRecords", false, &numRecords},
		{"restrictToProject", false, &body.RestrictToProject},
		{"projectId", false, &projectID},
		{"docType", false, &docType},
		{"foundOnlyInFields", false, &inFields},
		{"restrictMetadataToOrganisms", false, &body.RestrictMetadataToOrganisms},
		{"restrictSearchToOrganisms", false, &body.RestrictSearchToOrganisms},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, b.required, b.name, q, b.dest); err != nil {
			return request.Params{}, fmt.Errorf("invalid query parameter %s: %w", b.name, err)
		}
	}

	if body.RestrictToProject == "" {
		body.RestrictToProject = projectID
	}
	body.Pagination = &PaginationBody{Offset: offset, NumRecords: numRecords}
	switch {
	case docType != "":
		body.DocumentTypeFilter = &DocumentTypeFilter{DocumentType: docType, FoundOnlyInFields: inFields}
	case len(inFields) > 0:
		return request.Params{}, fmt.Errorf("foundOnlyInFields requires docType")
	}
	return body.Params(), nil
}
