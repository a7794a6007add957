package solr

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/sitesearch/internal/db"
)

// encodeQuery renders a query as Solr request parameters.
func encodeQuery(q *db.Query) url.Values {
	v := url.Values{}
	v.Set("q", q.Text)
	v.Set("wt", "json")
	if q.Parser != "" {
		v.Set("defType", q.Parser)
	}
	if len(q.Fields) > 0 {
		v.Set("qf", formatFields(q.Fields))
	}
	for _, fq := range q.Filters {
		v.Add("fq", fq)
	}
	if q.Cursor != "" {
		v.Set("cursorMark", q.Cursor)
		v.Set("echoParams", "none")
	} else {
		v.Set("start", strconv.Itoa(q.Start))
	}
	v.Set("rows", strconv.Itoa(q.Rows))
	if len(q.Sort) > 0 {
		v.Set("sort", formatSort(q.Sort))
	}
	if q.HasFacets() {
		v.Set("facet", "true")
		for _, f := range q.FacetFields {
			v.Add("facet.field", f)
		}
		for _, fq := range q.FacetQueries {
			v.Add("facet.query", fq)
		}
		// every value of a facet field is reported, zero counts included
		v.Set("facet.limit", "-1")
	}
	if q.Highlight {
		v.Set("hl", "true")
		v.Set("hl.fl", "*")
		v.Set("hl.method", "unified")
	}
	if len(q.ReturnFields) > 0 {
		v.Set("fl", strings.Join(q.ReturnFields, " "))
	}
	return v
}

// formatFields renders "name^boost" pairs. A boost of 1 is left implicit;
// other boosts use two decimals.
func formatFields(fields []db.BoostedField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f.Boost == 1 {
			parts[i] = f.Name
			continue
		}
		parts[i] = f.Name + "^" + strconv.FormatFloat(f.Boost, 'f', 2, 64)
	}
	return strings.Join(parts, " ")
}

func formatSort(sort []db.SortField) string {
	parts := make([]string, len(sort))
	for i, s := range sort {
		parts[i] = s.Field + " " + string(s.Order)
	}
	return strings.Join(parts, ", ")
}
