package db

import (
	"fmt"
	"slices"
)

// QueryBuilder is a fluent builder for select queries.
type QueryBuilder struct {
	q Query
}

// NewQuery starts building a query for the given text.
func NewQuery(text string) *QueryBuilder {
	return &QueryBuilder{q: Query{Text: text}}
}

// Parser sets the query parser (defType).
func (b *QueryBuilder) Parser(name string) *QueryBuilder {
	b.q.Parser = name
	return b
}

// Field adds a query field with its boost.
func (b *QueryBuilder) Field(name string, boost float64) *QueryBuilder {
	b.q.Fields = append(b.q.Fields, BoostedField{Name: name, Boost: boost})
	return b
}

// Filter adds a filter query clause.
func (b *QueryBuilder) Filter(clause string) *QueryBuilder {
	b.q.Filters = append(b.q.Filters, clause)
	return b
}

// Page sets the result window.
func (b *QueryBuilder) Page(start, rows int) *QueryBuilder {
	b.q.Start = start
	b.q.Rows = rows
	return b
}

// Cursor enables cursor paging from the given mark.
func (b *QueryBuilder) Cursor(mark string) *QueryBuilder {
	b.q.Cursor = mark
	return b
}

// SortBy adds a sort clause.
func (b *QueryBuilder) SortBy(field string, order SortOrder) *QueryBuilder {
	b.q.Sort = append(b.q.Sort, SortField{Field: field, Order: order})
	return b
}

// FacetField requests term counts for a field.
func (b *QueryBuilder) FacetField(names ...string) *QueryBuilder {
	b.q.FacetFields = append(b.q.FacetFields, names...)
	return b
}

// FacetQuery requests a match count for a query.
func (b *QueryBuilder) FacetQuery(queries ...string) *QueryBuilder {
	b.q.FacetQueries = append(b.q.FacetQueries, queries...)
	return b
}

// Highlight toggles highlighting.
func (b *QueryBuilder) Highlight(on bool) *QueryBuilder {
	b.q.Highlight = on
	return b
}

// Return sets the returned fields.
func (b *QueryBuilder) Return(fields ...string) *QueryBuilder {
	b.q.ReturnFields = append(b.q.ReturnFields, fields...)
	return b
}

// Build validates and returns the query.
func (b *QueryBuilder) Build() (*Query, error) {
	q := b.q
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}

// MustBuild is like Build but panics on error. Use only with static input.
func (b *QueryBuilder) MustBuild() *Query {
	q, err := b.Build()
	if err != nil {
		panic(err)
	}
	return q
}

// Validate checks structural constraints of the query.
// Cursor paging requires start 0 and a sort on the unique key "id".
func (q *Query) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("%w: query text is required", ErrInvalidQuery)
	}
	if q.Start < 0 || q.Rows < 0 {
		return fmt.Errorf("%w: start and rows must be >= 0", ErrInvalidQuery)
	}
	for _, f := range q.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: query field name is required", ErrInvalidQuery)
		}
	}
	if q.Cursor != "" {
		if q.Start != 0 {
			return fmt.Errorf("%w: cursor paging requires start 0", ErrInvalidQuery)
		}
		if !slices.ContainsFunc(q.Sort, func(s SortField) bool { return s.Field == "id" }) {
			return fmt.Errorf("%w: cursor paging requires a sort on id", ErrInvalidQuery)
		}
	}
	return nil
}
