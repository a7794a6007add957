package db

// ParserEdismax is the query parser for user-entered search text.
const ParserEdismax = "edismax"

// CursorStart is the cursor mark that begins a deep-paging walk.
const CursorStart = "*"

// SortOrder is a sort direction.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortField is one sort clause.
type SortField struct {
	Field string
	Order SortOrder
}

// BoostedField is a query field with its weight.
type BoostedField struct {
	Name  string
	Boost float64
}

// Query is a backend-neutral select query.
type Query struct {
	Text         string
	Parser       string
	Fields       []BoostedField
	Filters      []string
	Start        int
	Rows         int
	Cursor       string
	Sort         []SortField
	FacetFields  []string
	FacetQueries []string
	Highlight    bool
	ReturnFields []string
}

// HasFacets reports whether the query asks for any facet.
func (q *Query) HasFacets() bool {
	return len(q.FacetFields) > 0 || len(q.FacetQueries) > 0
}
