package plan

import (
	"testing"

	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

func newRequest(t *testing.T, p request.Params) *request.Request {
	t.Helper()
	p.SearchText = "kinase"
	r, err := request.New(p, request.PaginationIgnored)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func TestBuild(t *testing.T) {
	orgs := []string{"P. falciparum 3D7"}
	typeOnly := &request.DocTypeFilterParams{DocumentType: "gene"}
	typeFields := &request.DocTypeFilterParams{DocumentType: "gene", FoundOnlyInFields: []string{"TEXT__gene_product"}}

	tests := []struct {
		name            string
		params          request.Params
		wantFieldFacets bool
		wantPurposes    []Purpose
	}{
		{name: "plain"},
		{name: "organism filter", params: request.Params{RestrictSearchToOrganisms: orgs},
			wantPurposes: []Purpose{PurposeOrganismCounts}},
		{name: "type filter", params: request.Params{DocumentTypeFilter: typeOnly},
			wantFieldFacets: true},
		{name: "type and fields", params: request.Params{DocumentTypeFilter: typeFields},
			wantFieldFacets: true, wantPurposes: []Purpose{PurposeFieldCounts}},
		{name: "everything", params: request.Params{RestrictSearchToOrganisms: orgs, DocumentTypeFilter: typeFields},
			wantFieldFacets: true, wantPurposes: []Purpose{PurposeOrganismCounts, PurposeFieldCounts}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			primary, corrections := Build(newRequest(t, tc.params), false)

			if primary.Purpose != PurposePrimary || primary.OmitResults ||
				!primary.ApplyOrganismFilter || !primary.ApplyFieldsFilter {
				t.Errorf("unexpected primary call: %+v", primary)
			}
			if primary.RequestFieldFacets != tc.wantFieldFacets {
				t.Errorf("primary field facets = %v, want %v", primary.RequestFieldFacets, tc.wantFieldFacets)
			}
			if len(corrections) != len(tc.wantPurposes) {
				t.Fatalf("got %d corrections, want %d", len(corrections), len(tc.wantPurposes))
			}
			for i, c := range corrections {
				if c.Purpose != tc.wantPurposes[i] {
					t.Errorf("correction %d purpose = %s", i, c.Purpose)
				}
				if !c.OmitResults {
					t.Errorf("correction %s must omit results", c.Purpose)
				}
				switch c.Purpose {
				case PurposeOrganismCounts:
					if c.ApplyOrganismFilter || !c.ApplyFieldsFilter || c.RequestFieldFacets {
						t.Errorf("unexpected organism correction: %+v", c)
					}
				case PurposeFieldCounts:
					if !c.ApplyOrganismFilter || c.ApplyFieldsFilter || !c.RequestFieldFacets {
						t.Errorf("unexpected field correction: %+v", c)
					}
				}
			}
		})
	}
}

func TestBuild_OmitResults(t *testing.T) {
	primary, _ := Build(newRequest(t, request.Params{}), true)
	if !primary.OmitResults {
		t.Error("primary call must honor omitResults")
	}
}
