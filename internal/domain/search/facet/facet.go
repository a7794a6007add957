package facet

import (
	"slices"
	"strings"
)

// Counts holds the facet counts of one search.
type Counts struct {
	DocumentTypes map[string]int
	Organisms     map[string]int
	Fields        map[string]int
}

// NewCounts returns Counts with empty, non-nil maps.
func NewCounts() Counts {
	return Counts{
		DocumentTypes: map[string]int{},
		Organisms:     map[string]int{},
		Fields:        map[string]int{},
	}
}

// FilterOrganisms keeps only organisms in scope. A nil scope keeps all.
func FilterOrganisms(counts map[string]int, scope []string) map[string]int {
	out := make(map[string]int, len(counts))
	for org, n := range counts {
		if scope == nil || slices.Contains(scope, org) {
			out[org] = n
		}
	}
	return out
}

// FieldCountsFromQueries reduces facet query keys "field:(text)" to the field name.
func FieldCountsFromQueries(queries map[string]int) map[string]int {
	out := make(map[string]int, len(queries))
	for q, n := range queries {
		name, _, _ := strings.Cut(q, ":")
		out[name] = n
	}
	return out
}

// FieldQuery builds the facet query counting matches of text within one field.
func FieldQuery(fieldName, text string) string {
	return fieldName + ":(" + text + ")"
}
