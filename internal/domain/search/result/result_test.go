package result

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kailas-cloud/sitesearch/internal/domain/catalog"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog/field"
)

func testCatalog(t *testing.T) catalog.Catalog {
	t.Helper()
	cats := []catalog.CategoryDefinition{
		{Name: "Genome", DocumentTypes: []catalog.TypeDefinition{
			{ID: "gene", DisplayName: "Gene", DisplayNamePlural: "Genes", HasOrganismField: true, WdkSearchURLName: "GenesByText"},
			{ID: "orphan", DisplayName: "Orphan", DisplayNamePlural: "Orphans"},
		}},
	}
	scoped := "PlasmoDB"
	fields := []catalog.FieldsDefinition{
		{DocumentType: "gene", Fields: []field.Definition{
			{Name: "TEXT__gene_product"},
			{Name: "TEXT__gene_note", IncludeProjects: []string{scoped}},
		}},
	}
	c, _, err := catalog.Merge(cats, fields)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	return c
}

func TestNewCatalog(t *testing.T) {
	out := NewCatalog(testCatalog(t), "", map[string]int{"gene": 7})

	if len(out.Categories) != 1 || strings.Join(out.Categories[0].DocumentTypes, ",") != "gene,orphan" {
		t.Fatalf("categories = %+v", out.Categories)
	}
	gene, orphan := out.DocumentTypes[0], out.DocumentTypes[1]
	if gene.Count != 7 || orphan.Count != 0 {
		t.Errorf("counts = %d/%d", gene.Count, orphan.Count)
	}
	if !gene.IsWdkRecordType || gene.WdkRecordTypeData == nil || gene.WdkRecordTypeData.SearchName != "GenesByText" {
		t.Errorf("gene record data = %+v", gene.WdkRecordTypeData)
	}
	if len(gene.SummaryFields) != 2 || gene.SummaryFields[0].Term != "note" {
		t.Errorf("summary fields = %+v", gene.SummaryFields)
	}
	if orphan.IsWdkRecordType || orphan.WdkRecordTypeData != nil {
		t.Error("orphan must not be linked")
	}
}

func TestNewCatalog_ProjectScope(t *testing.T) {
	out := NewCatalog(testCatalog(t), "ToxoDB", nil)
	gene := out.DocumentTypes[0]
	if len(gene.SummaryFields) != 1 || gene.SummaryFields[0].Name != "TEXT__gene_product" {
		t.Errorf("summary fields = %+v", gene.SummaryFields)
	}
	if len(gene.WdkRecordTypeData.SearchFields) != 1 {
		t.Errorf("search fields = %+v", gene.WdkRecordTypeData.SearchFields)
	}
}

func TestResults_JSONShape(t *testing.T) {
	r := Results{
		Categories:     []Category{},
		DocumentTypes:  []DocumentType{},
		OrganismCounts: map[string]int{},
		SearchResults: &SearchResults{Documents: []Document{{
			DocumentType:     "gene",
			PrimaryKey:       []string{"PF3D7_0100100"},
			FoundInFields:    []string{},
			SummaryFieldData: map[string]any{},
		}}},
	}
	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	for _, key := range []string{`"organismCounts":{}`, `"totalCount":0`, `"foundInFields":[]`, `"summaryFieldData":{}`} {
		if !strings.Contains(s, key) {
			t.Errorf("missing %s in %s", key, s)
		}
	}
	for _, key := range []string{"fieldCounts", "organism\"", "hyperlinkName"} {
		if strings.Contains(s, key) {
			t.Errorf("unexpected %s in %s", key, s)
		}
	}
}
