package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog/field"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

const categoriesBlob = `[
  {"name": "Genome", "documentTypes": [
    {"id": "gene", "displayName": "Gene", "displayNamePlural": "Genes",
     "hasOrganismField": true, "boost": 2, "wdkSearchUrlName": "GenesByText"},
    {"id": "orphan", "displayName": "Orphan", "displayNamePlural": "Orphans",
     "hasOrganismField": false}
  ]},
  {"name": "Resources", "documentTypes": [
    {"id": "dataset", "displayName": "Dataset", "displayNamePlural": "Datasets",
     "hasOrganismField": false}
  ]}
]`

const fieldsBlob = `[
  {"document-type": "gene", "fields": [
    {"name": "TEXT__gene_product"},
    {"name": "MULTITEXT__gene_GOTerms", "displayName": "go terms", "boost": 1.5},
    {"name": "TEXT__gene_name", "isSearchable": false},
    {"name": "TEXT__gene_apicomplexa_note", "isSummary": false, "includeProjects": ["PlasmoDB"]}
  ]},
  {"document-type": "dataset", "fields": [
    {"name": "TEXT__dataset_description"}
  ]},
  {"document-type": "ghost", "fields": [
    {"name": "TEXT__ghost_x"}
  ]}
]`

func mustMerge(t *testing.T) (Catalog, []Warning) {
	t.Helper()
	cats, err := ParseCategories([]byte(categoriesBlob))
	if err != nil {
		t.Fatalf("ParseCategories: %v", err)
	}
	fields, err := ParseFields([]byte(fieldsBlob))
	if err != nil {
		t.Fatalf("ParseFields: %v", err)
	}
	c, warnings, err := Merge(cats, fields)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	return c, warnings
}

func mustRequest(t *testing.T, p request.Params) *request.Request {
	t.Helper()
	if p.SearchText == "" {
		p.SearchText = "kinase"
	}
	r, err := request.New(p, request.PaginationIgnored)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func names(fields []field.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name()
	}
	return out
}

func TestMerge_OrderAndWarnings(t *testing.T) {
	c, warnings := mustMerge(t)

	if got := strings.Join(c.TypeIDs(), ","); got != "gene,orphan,dataset" {
		t.Errorf("type order = %s", got)
	}
	if len(c.Categories()) != 2 || c.Categories()[0].Name() != "Genome" {
		t.Fatalf("unexpected categories: %+v", c.Categories())
	}
	if got := strings.Join(c.Categories()[0].DocumentTypeIDs(), ","); got != "gene,orphan" {
		t.Errorf("Genome members = %s", got)
	}

	want := map[Warning]bool{
		{Kind: WarningTypeWithoutFields, DocumentType: "orphan"}: true,
		{Kind: WarningUnknownFieldsType, DocumentType: "ghost"}:  true,
	}
	if len(warnings) != len(want) {
		t.Fatalf("warnings = %v", warnings)
	}
	for _, w := range warnings {
		if !want[w] {
			t.Errorf("unexpected warning %v", w)
		}
		if !strings.Contains(w.String(), w.DocumentType) {
			t.Errorf("warning text must name the type: %s", w)
		}
	}

	orphan, ok := c.DocumentType("orphan")
	if !ok || len(orphan.Fields()) != 0 {
		t.Error("orphan must exist with zero fields")
	}
	if _, ok := c.DocumentType("ghost"); ok {
		t.Error("ghost must not be part of the catalog")
	}
}

func TestMerge_GeneFields(t *testing.T) {
	c, _ := mustMerge(t)
	gene, _ := c.DocumentType("gene")

	if !gene.IsLinkedRecordType() || gene.SearchName() != "GenesByText" {
		t.Error("gene must be a linked record type")
	}
	// Sorted case-insensitively by display name: "Apicomplexa Note", "go terms", "Name", "Product".
	wantOrder := "TEXT__gene_apicomplexa_note,MULTITEXT__gene_GOTerms,TEXT__gene_name,TEXT__gene_product"
	if got := strings.Join(names(gene.Fields()), ","); got != wantOrder {
		t.Errorf("field order = %s", got)
	}

	summary := gene.SummaryFields("")
	if len(summary) != 3 {
		t.Errorf("summary fields = %v, want 3", names(summary))
	}
	for _, f := range gene.Fields() {
		switch f.Name() {
		case "TEXT__gene_product":
			if f.Boost() != 2 {
				t.Errorf("product boost = %v, want 2", f.Boost())
			}
		case "MULTITEXT__gene_GOTerms":
			if f.Boost() != 3 {
				t.Errorf("GOTerms boost = %v, want 3", f.Boost())
			}
		}
	}
}

func TestMerge_ProjectScope(t *testing.T) {
	c, _ := mustMerge(t)
	gene, _ := c.DocumentType("gene")

	if got := len(gene.SearchFields("PlasmoDB")); got != 3 {
		t.Errorf("PlasmoDB search fields = %d, want 3", got)
	}
	if got := len(gene.SearchFields("ToxoDB")); got != 2 {
		t.Errorf("ToxoDB search fields = %d, want 2", got)
	}
}

func TestMerge_Errors(t *testing.T) {
	dupType := []CategoryDefinition{
		{Name: "A", DocumentTypes: []TypeDefinition{{ID: "gene"}}},
		{Name: "B", DocumentTypes: []TypeDefinition{{ID: "gene"}}},
	}
	if _, _, err := Merge(dupType, nil); !errors.Is(err, domain.ErrCatalogInvalid) {
		t.Errorf("duplicate type: expected ErrCatalogInvalid, got %v", err)
	}

	one := []CategoryDefinition{{Name: "A", DocumentTypes: []TypeDefinition{{ID: "gene"}}}}
	dupFields := []FieldsDefinition{{DocumentType: "gene"}, {DocumentType: "gene"}}
	if _, _, err := Merge(one, dupFields); !errors.Is(err, domain.ErrCatalogInvalid) {
		t.Errorf("duplicate fields entry: expected ErrCatalogInvalid, got %v", err)
	}

	badField := []FieldsDefinition{{DocumentType: "gene", Fields: []field.Definition{{}}}}
	if _, _, err := Merge(one, badField); !errors.Is(err, domain.ErrCatalogInvalid) {
		t.Errorf("unnamed field: expected ErrCatalogInvalid, got %v", err)
	}

	if _, err := ParseCategories([]byte(`{"not":"a list"}`)); !errors.Is(err, domain.ErrCatalogInvalid) {
		t.Errorf("bad blob: expected ErrCatalogInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	c, _ := mustMerge(t)

	tests := []struct {
		name    string
		filter  *request.DocTypeFilterParams
		project string
		wantErr string
	}{
		{name: "no filter"},
		{name: "known type", filter: &request.DocTypeFilterParams{DocumentType: "gene"}},
		{
			name:    "unknown type",
			filter:  &request.DocTypeFilterParams{DocumentType: "protein"},
			wantErr: "gene, orphan, dataset",
		},
		{
			name: "valid subset",
			filter: &request.DocTypeFilterParams{
				DocumentType:      "gene",
				FoundOnlyInFields: []string{"TEXT__gene_product"},
			},
		},
		{
			name: "non-searchable field",
			filter: &request.DocTypeFilterParams{
				DocumentType:      "gene",
				FoundOnlyInFields: []string{"TEXT__gene_product", "TEXT__gene_name"},
			},
			wantErr: "TEXT__gene_name",
		},
		{
			name: "field outside project",
			filter: &request.DocTypeFilterParams{
				DocumentType:      "gene",
				FoundOnlyInFields: []string{"TEXT__gene_apicomplexa_note"},
			},
			project: "ToxoDB",
			wantErr: "TEXT__gene_apicomplexa_note",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := mustRequest(t, request.Params{DocumentTypeFilter: tc.filter, RestrictToProject: tc.project})
			err := c.Validate(req)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q should contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestSelectSearchFields(t *testing.T) {
	c, _ := mustMerge(t)

	all := mustRequest(t, request.Params{})
	fields, allIncluded := c.SelectSearchFields(all, true)
	if !allIncluded || len(fields) != 4 {
		t.Errorf("no filter: got %v, %v", names(fields), allIncluded)
	}

	typed := mustRequest(t, request.Params{DocumentTypeFilter: &request.DocTypeFilterParams{DocumentType: "gene"}})
	fields, allIncluded = c.SelectSearchFields(typed, true)
	if !allIncluded || len(fields) != 3 {
		t.Errorf("type filter: got %v, %v", names(fields), allIncluded)
	}

	subset := mustRequest(t, request.Params{DocumentTypeFilter: &request.DocTypeFilterParams{
		DocumentType:      "gene",
		FoundOnlyInFields: []string{"TEXT__gene_product"},
	}})
	fields, allIncluded = c.SelectSearchFields(subset, true)
	if allIncluded || strings.Join(names(fields), ",") != "TEXT__gene_product" {
		t.Errorf("subset: got %v, %v", names(fields), allIncluded)
	}
	full := mustRequest(t, request.Params{DocumentTypeFilter: &request.DocTypeFilterParams{
		DocumentType:      "gene",
		FoundOnlyInFields: []string{"TEXT__gene_product", "MULTITEXT__gene_GOTerms", "TEXT__gene_apicomplexa_note"},
	}})
	fields, allIncluded = c.SelectSearchFields(full, true)
	if !allIncluded || len(fields) != 3 {
		t.Errorf("subset naming every field: got %v, %v", names(fields), allIncluded)
	}

	fields, allIncluded = c.SelectSearchFields(subset, false)
	if !allIncluded || len(fields) != 3 {
		t.Errorf("subset suppressed: got %v, %v", names(fields), allIncluded)
	}

	scoped := mustRequest(t, request.Params{RestrictToProject: "ToxoDB"})
	fields, _ = c.SelectSearchFields(scoped, true)
	if len(fields) != 3 {
		t.Errorf("project scope: got %v", names(fields))
	}
}
