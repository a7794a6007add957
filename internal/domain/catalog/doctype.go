package catalog

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/sitesearch/internal/domain/catalog/field"
)

// Category groups document types for display.
type Category struct {
	name    string
	typeIDs []string
}

// Name returns the category name.
func (c Category) Name() string { return c.name }

// DocumentTypeIDs returns the member type ids in display order.
func (c Category) DocumentTypeIDs() []string { return c.typeIDs }

// DocumentType is a kind of indexed record.
type DocumentType struct {
	id                string
	displayName       string
	displayNamePlural string
	hasOrganismField  bool
	boost             float64
	searchName        string
	fields            []field.Field
}

func newDocumentType(def TypeDefinition) DocumentType {
	boost := field.DefaultBoost
	if def.Boost != nil {
		boost = *def.Boost
	}
	return DocumentType{
		id:                def.ID,
		displayName:       def.DisplayName,
		displayNamePlural: def.DisplayNamePlural,
		hasOrganismField:  def.HasOrganismField,
		boost:             boost,
		searchName:        def.WdkSearchURLName,
	}
}

// withFields attaches fields, applying the type boost once and sorting by
// display name case-insensitively.
func (t DocumentType) withFields(fields []field.Field) DocumentType {
	attached := make([]field.Field, 0, len(t.fields)+len(fields))
	attached = append(attached, t.fields...)
	for _, f := range fields {
		attached = append(attached, f.WithBoostMultiplier(t.boost))
	}
	slices.SortStableFunc(attached, func(a, b field.Field) int {
		return strings.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName()))
	})
	t.fields = attached
	return t
}

// ID returns the unique type id.
func (t DocumentType) ID() string { return t.id }

// DisplayName returns the singular label.
func (t DocumentType) DisplayName() string { return t.displayName }

// DisplayNamePlural returns the plural label.
func (t DocumentType) DisplayNamePlural() string { return t.displayNamePlural }

// HasOrganismField reports whether records of this type carry an organism.
func (t DocumentType) HasOrganismField() bool { return t.hasOrganismField }

// Boost returns the multiplier applied to all fields of the type.

// SearchName returns the linked-record search name ("" when not linked).
func (t DocumentType) SearchName() string { return t.searchName }

// IsLinkedRecordType reports whether the type maps to a linked record type.
func (t DocumentType) IsLinkedRecordType() bool { return t.searchName != "" }

// Fields returns all attached fields in display order.
func (t DocumentType) Fields() []field.Field { return t.fields }

// SummaryFields returns the summary fields visible for a project.
func (t DocumentType) SummaryFields(project string) []field.Field {
	return t.filterFields(project, field.Field.IsSummary)
}

// SearchFields returns the searchable fields visible for a project.
func (t DocumentType) SearchFields(project string) []field.Field {
	return t.filterFields(project, field.Field.IsSearchable)
}

func (t DocumentType) filterFields(project string, keep func(field.Field) bool) []field.Field {
	var out []field.Field
	for _, f := range t.fields {
		if f.IncludeInProject(project) && keep(f) {
			out = append(out, f)
		}
	}
	return out
}
