package result

import (
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog/field"
)

// Results is the search response envelope.
type Results struct {
	Categories     []Category     `json:"categories"`
	DocumentTypes  []DocumentType `json:"documentTypes"`
	OrganismCounts map[string]int `json:"organismCounts"`
	FieldCounts    map[string]int `json:"fieldCounts,omitempty"`
	SearchResults  *SearchResults `json:"searchResults,omitempty"`
}

// Catalog is the catalog-only envelope.
type Catalog struct {
	Categories    []Category     `json:"categories"`
	DocumentTypes []DocumentType `json:"documentTypes"`
}

// Category is a category with its ordered member type ids.
type Category struct {
	Name          string   `json:"name"`
	DocumentTypes []string `json:"documentTypes"`
}

// DocumentType describes a document type and its per-request count.
type DocumentType struct {
	ID                string          `json:"id"`
	DisplayName       string          `json:"displayName"`
	DisplayNamePlural string          `json:"displayNamePlural"`
	HasOrganismField  bool            `json:"hasOrganismField"`
	Count             int             `json:"count"`
	IsWdkRecordType   bool            `json:"isWdkRecordType"`
	SummaryFields     []Field         `json:"summaryFields"`
	WdkRecordTypeData *RecordTypeData `json:"wdkRecordTypeData,omitempty"`
}

// RecordTypeData links a document type to its record type search.
type RecordTypeData struct {
	SearchName   string  `json:"searchName"`
	SearchFields []Field `json:"searchFields"`
}

// Field is the public view of a document field.
type Field struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Term        string `json:"term"`
	IsSubtitle  bool   `json:"isSubtitle"`
}

// SearchResults holds the total hit count and the current page.
type SearchResults struct {
	TotalCount int64      `json:"totalCount"`
	Documents  []Document `json:"documents"`
}

// Document is one formatted search hit.
type Document struct {
	DocumentType        string         `json:"documentType"`
	PrimaryKey          []string       `json:"primaryKey"`
	Score               float64        `json:"score"`
	Organism            string         `json:"organism,omitempty"`
	WdkPrimaryKeyString string         `json:"wdkPrimaryKeyString,omitempty"`
	HyperlinkName       string         `json:"hyperlinkName,omitempty"`
	FoundInFields       []string       `json:"foundInFields"`
	SummaryFieldData    map[string]any `json:"summaryFieldData"`
}

// NewCatalog renders a catalog for a project. typeCounts may be nil.
func NewCatalog(c catalog.Catalog, project string, typeCounts map[string]int) Catalog {
	out := Catalog{
		Categories:    make([]Category, 0, len(c.Categories())),
		DocumentTypes: make([]DocumentType, 0, len(c.DocumentTypes())),
	}
	for _, cat := range c.Categories() {
		out.Categories = append(out.Categories, Category{
			Name:          cat.Name(),
			DocumentTypes: cat.DocumentTypeIDs(),
		})
	}
	for _, t := range c.DocumentTypes() {
		dt := DocumentType{
			ID:                t.ID(),
			DisplayName:       t.DisplayName(),
			DisplayNamePlural: t.DisplayNamePlural(),
			HasOrganismField:  t.HasOrganismField(),
			Count:             typeCounts[t.ID()],
			IsWdkRecordType:   t.IsLinkedRecordType(),
			SummaryFields:     newFields(t.SummaryFields(project)),
		}
		if t.IsLinkedRecordType() {
			dt.WdkRecordTypeData = &RecordTypeData{
				SearchName:   t.SearchName(),
				SearchFields: newFields(t.SearchFields(project)),
			}
		}
		out.DocumentTypes = append(out.DocumentTypes, dt)
	}
	return out
}

func newFields(fields []field.Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{
			Name:        f.Name(),
			DisplayName: f.DisplayName(),
			Term:        f.Term(),
			IsSubtitle:  f.IsSubtitle(),
		}
	}
	return out
}
