package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog/field"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

// WarningKind classifies a non-fatal inconsistency between the two catalog documents.
type WarningKind string

const (
	// WarningTypeWithoutFields: a categorized type has no fields entry and can never match.
	WarningTypeWithoutFields WarningKind = "type_without_fields"
	// WarningUnknownFieldsType: a fields entry names a type no category declares.
	WarningUnknownFieldsType WarningKind = "unknown_fields_type"
)

// Warning is reported by Merge for inconsistencies that do not fail the load.
type Warning struct {
	Kind         WarningKind
	DocumentType string
}

func (w Warning) String() string {
	switch w.Kind {
	case WarningTypeWithoutFields:
		return fmt.Sprintf("categories declare document type %q but the fields document does not; "+
			"no records of that type can be found", w.DocumentType)
	case WarningUnknownFieldsType:
		return fmt.Sprintf("fields document declares document type %q but no category does; "+
			"the type is not used", w.DocumentType)
	default:
		return fmt.Sprintf("%s: %s", w.Kind, w.DocumentType)
	}
}

// Catalog is the merged, immutable metadata: categories plus an index of
// document types in flattened category order.
type Catalog struct {
	categories []Category
	types      []DocumentType
	index      map[string]int
}

// Merge joins the categories and fields documents into a Catalog.
// Duplicate type ids or fields entries fail with ErrCatalogInvalid.
func Merge(categories []CategoryDefinition, fields []FieldsDefinition) (Catalog, []Warning, error) {
	c := Catalog{index: make(map[string]int)}
	for _, cd := range categories {
		cat := Category{name: cd.Name, typeIDs: make([]string, 0, len(cd.DocumentTypes))}
		for _, td := range cd.DocumentTypes {
			if td.ID == "" {
				return Catalog{}, nil, fmt.Errorf("%w: category %q has a document type without id",
					domain.ErrCatalogInvalid, cd.Name)
			}
			if _, dup := c.index[td.ID]; dup {
				return Catalog{}, nil, fmt.Errorf("%w: duplicate document type %q", domain.ErrCatalogInvalid, td.ID)
			}
			c.index[td.ID] = len(c.types)
			c.types = append(c.types, newDocumentType(td))
			cat.typeIDs = append(cat.typeIDs, td.ID)
		}
		c.categories = append(c.categories, cat)
	}

	var warnings []Warning
	seen := make(map[string]bool, len(fields))
	for _, fd := range fields {
		if seen[fd.DocumentType] {
			return Catalog{}, nil, fmt.Errorf("%w: duplicate fields entry for document type %q",
				domain.ErrCatalogInvalid, fd.DocumentType)
		}
		seen[fd.DocumentType] = true

		i, ok := c.index[fd.DocumentType]
		if !ok {
			warnings = append(warnings, Warning{Kind: WarningUnknownFieldsType, DocumentType: fd.DocumentType})
			continue
		}
		parsed := make([]field.Field, 0, len(fd.Fields))
		for _, def := range fd.Fields {
			f, err := field.New(def)
			if err != nil {
				return Catalog{}, nil, fmt.Errorf("%w: document type %q: %w", domain.ErrCatalogInvalid, fd.DocumentType, err)
			}
			parsed = append(parsed, f)
		}
		c.types[i] = c.types[i].withFields(parsed)
	}

	for _, t := range c.types {
		if !seen[t.id] {
			warnings = append(warnings, Warning{Kind: WarningTypeWithoutFields, DocumentType: t.id})
		}
	}
	return c, warnings, nil
}

// Categories returns the categories in display order.
func (c Catalog) Categories() []Category { return c.categories }

// DocumentTypes returns all document types in flattened category order.
func (c Catalog) DocumentTypes() []DocumentType { return c.types }

// DocumentType looks up a type by id.
func (c Catalog) DocumentType(id string) (DocumentType, bool) {
	i, ok := c.index[id]
	if !ok {
		return DocumentType{}, false
	}
	return c.types[i], true
}

// TypeIDs returns all type ids in flattened category order.
func (c Catalog) TypeIDs() []string {
	ids := make([]string, len(c.types))
	for i, t := range c.types {
		ids[i] = t.id
	}
	return ids
}

// Validate checks the request's document type filter against the catalog.
func (c Catalog) Validate(req *request.Request) error {
	filter, ok := req.DocTypeFilter()
	if !ok {
		return nil
	}
	t, ok := c.DocumentType(filter.DocType())
	if !ok {
		return fmt.Errorf("%w: document type filtered %q is not valid, must be one of: %s",
			domain.ErrInvalidRequest, filter.DocType(), strings.Join(c.TypeIDs(), ", "))
	}
	if !filter.HasFields() {
		return nil
	}
	valid := t.SearchFields(req.Project())
	var invalid []string
	for _, name := range filter.FoundOnlyInFields() {
		if !slices.ContainsFunc(valid, func(f field.Field) bool { return f.Name() == name }) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("%w: invalid field names in filter: %s",
			domain.ErrInvalidRequest, strings.Join(invalid, ", "))
	}
	return nil
}

// SelectSearchFields returns the fields a query should search, honoring the
// project scope. allIncluded is false when a field subset left out at least
// one searchable field of the filtered type.
func (c Catalog) SelectSearchFields(req *request.Request, applyFieldsFilter bool) (fields []field.Field, allIncluded bool) {
	filter, hasType := req.DocTypeFilter()
	project := req.Project()
	if !hasType {
		for _, t := range c.types {
			fields = append(fields, t.SearchFields(project)...)
		}
		return fields, true
	}

	t, ok := c.DocumentType(filter.DocType())
	if !ok {
		return nil, true
	}
	if !applyFieldsFilter || !filter.HasFields() {
		return t.SearchFields(project), true
	}
	searchable := t.SearchFields(project)
	for _, f := range searchable {
		if slices.Contains(filter.FoundOnlyInFields(), f.Name()) {
			fields = append(fields, f)
		}
	}
	return fields, len(fields) == len(searchable)
}
