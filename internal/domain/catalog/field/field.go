package field

import (
	"fmt"
	"slices"
	"strings"
)

// Wire-name prefixes encoding the value kind of a field.
const (
	PrefixText      = "TEXT__"
	PrefixMultiText = "MULTITEXT__"
)

// DefaultBoost is the weight of a field that does not declare one.
const DefaultBoost = 1.0

// Definition is a field entry of the fields catalog document.
// Pointer members distinguish "absent" from the zero value.
type Definition struct {
	Name            string   `json:"name"`
	DisplayName     *string  `json:"displayName,omitempty"`
	IsSummary       *bool    `json:"isSummary,omitempty"`
	IsSearchable    *bool    `json:"isSearchable,omitempty"`
	IsSubtitle      *bool    `json:"isSubtitle,omitempty"`
	Boost           *float64 `json:"boost,omitempty"`
	IncludeProjects []string `json:"includeProjects,omitempty"`
}

// Field is an immutable value object describing a searchable document field.
type Field struct {
	name            string
	term            string
	displayName     string
	multiText       bool
	summary         bool
	searchable      bool
	subtitle        bool
	boost           float64
	boostMultiplier float64
	includeProjects []string
}

// New validates a definition and creates a Field.
// Defaults: isSummary=true, isSearchable=true, isSubtitle=false, boost=1.
func New(def Definition) (Field, error) {
	if def.Name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	term := ParseTerm(def.Name)
	f := Field{
		name:            def.Name,
		term:            term,
		displayName:     DisplayName(term),
		multiText:       strings.HasPrefix(def.Name, PrefixMultiText),
		summary:         true,
		searchable:      true,
		boost:           DefaultBoost,
		boostMultiplier: 1,
	}
	if def.DisplayName != nil {
		f.displayName = *def.DisplayName
	}
	if def.IsSummary != nil {
		f.summary = *def.IsSummary
	}
	if def.IsSearchable != nil {
		f.searchable = *def.IsSearchable
	}
	if def.IsSubtitle != nil {
		f.subtitle = *def.IsSubtitle
	}
	if def.Boost != nil {
		if *def.Boost < 0 {
			return Field{}, fmt.Errorf("field %q: boost must be >= 0", def.Name)
		}
		f.boost = *def.Boost
	}
	if def.IncludeProjects != nil {
		f.includeProjects = slices.Clone(def.IncludeProjects)
	}
	return f, nil
}

// ParseTerm strips the value-kind prefix and the owning document type segment:
// "MULTITEXT__gene_GOTerms" -> "GOTerms", "TEXT__gene_product" -> "product".
func ParseTerm(name string) string {
	switch {
	case strings.HasPrefix(name, PrefixMultiText):
		name = name[len(PrefixMultiText):]
	case strings.HasPrefix(name, PrefixText):
		name = name[len(PrefixText):]
	}
	if _, rest, ok := strings.Cut(name, "_"); ok {
		return rest
	}
	return name
}

// DisplayName builds a human label from a term: "gene_product" -> "Gene Product".
func DisplayName(term string) string {
	parts := strings.Split(term, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// WithBoostMultiplier returns a copy carrying the owning document type's boost.
func (f Field) WithBoostMultiplier(m float64) Field {
	f.boostMultiplier = m
	return f
}

// Name returns the wire name of the field.
func (f Field) Name() string { return f.name }

// Term returns the derived human term.
func (f Field) Term() string { return f.term }

// DisplayName returns the display label.
func (f Field) DisplayName() string { return f.displayName }

// IsMultiText reports whether the field holds multiple values.
func (f Field) IsMultiText() bool { return f.multiText }

// IsSummary reports whether the field is shown in compact result rows.
func (f Field) IsSummary() bool { return f.summary }

// IsSearchable reports whether the field takes part in text search.
func (f Field) IsSearchable() bool { return f.searchable }

// IsSubtitle reports whether the field is used as a secondary label.
func (f Field) IsSubtitle() bool { return f.subtitle }

// Boost returns the effective boost (own boost times the type multiplier).
func (f Field) Boost() float64 { return f.boost * f.boostMultiplier }

// IncludeInProject reports whether the field is visible for a project.
// An empty project means no project scope.
func (f Field) IncludeInProject(project string) bool {
	if project == "" || f.includeProjects == nil {
		return true
	}
	return slices.Contains(f.includeProjects, project)
}
