package search

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/sitesearch/internal/db"
	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog/field"
	"github.com/kailas-cloud/sitesearch/internal/domain/document"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/facet"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/plan"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
)

// PrimaryKeyBoost weights exact primary key matches above any field match.
const PrimaryKeyBoost = 100

var termEscaper = strings.NewReplacer(
	`\`, `\\`, `+`, `\+`, `-`, `\-`, `!`, `\!`, `(`, `\(`, `)`, `\)`,
	`{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`, `^`, `\^`, `"`, `\"`,
	`~`, `\~`, `*`, `\*`, `?`, `\?`, `:`, `\:`, `/`, `\/`, `&`, `\&`,
	`|`, `\|`, ` `, `\ `,
)

// BuildQuery renders one planned call of a search request.
func BuildQuery(req *request.Request, cat catalog.Catalog, call plan.Call) (*db.Query, error) {
	fields, _ := cat.SelectSearchFields(req, call.ApplyFieldsFilter)

	b := db.NewQuery(req.SearchText()).
		Parser(db.ParserEdismax).
		SortBy(document.FieldScore, db.SortDesc).
		SortBy(document.FieldID, db.SortAsc).
		FacetField(document.FieldDocumentType, document.FieldOrganism).
		Return("*", document.FieldScore)
	addFields(b, fields)
	addFilters(b, req, call.ApplyOrganismFilter)

	if call.RequestFieldFacets {
		for _, f := range fields {
			b.FacetQuery(facet.FieldQuery(f.Name(), req.SearchText()))
		}
	}

	if call.OmitResults {
		b.Page(0, 0)
	} else {
		page, ok := req.Pagination()
		if !ok {
			return nil, fmt.Errorf("%w: pagination is required", domain.ErrInvalidRequest)
		}
		b.Page(page.Offset(), page.NumRecords()).Highlight(true)
	}

	q, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", call.Purpose, err)
	}
	return q, nil
}

// BuildExportQuery renders one cursor page of a streaming export.
func BuildExportQuery(req *request.Request, cat catalog.Catalog, batchSize int, cursor string) (*db.Query, error) {
	fields, _ := cat.SelectSearchFields(req, true)

	b := db.NewQuery(req.SearchText()).
		Parser(db.ParserEdismax).
		Page(0, batchSize).
		Cursor(cursor).
		SortBy(document.FieldScore, db.SortDesc).
		SortBy(document.FieldID, db.SortAsc).
		Return(document.FieldPrimaryKey, document.FieldScore)
	addFields(b, fields)
	addFilters(b, req, true)

	q, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build export query: %w", err)
	}
	return q, nil
}

func addFields(b *db.QueryBuilder, fields []field.Field) {
	b.Field(document.FieldPrimaryKey, PrimaryKeyBoost)
	for _, f := range fields {
		b.Field(f.Name(), f.Boost())
	}
}

func addFilters(b *db.QueryBuilder, req *request.Request, applyOrganismFilter bool) {
	// -(project:[* TO *] AND -project:(P)): records without a project match every project
	if p := req.Project(); p != "" {
		b.Filter(missingOrAnyOf(document.FieldProject, termEscaper.Replace(p)))
	}
	if f, ok := req.DocTypeFilter(); ok {
		b.Filter(document.FieldDocumentType + ":(" + termEscaper.Replace(f.DocType()) + ")")
	}
	if applyOrganismFilter && req.HasOrganismFilter() {
		orgs := req.SearchOrganisms()
		quoted := make([]string, len(orgs))
		for i, org := range orgs {
			quoted[i] = request.QuotePhrase(org)
		}
		b.Filter(missingOrAnyOf(document.FieldOrganism, strings.Join(quoted, " OR ")))
	}
}

func missingOrAnyOf(field, condition string) string {
	return "-(" + field + ":[* TO *] AND -" + field + ":(" + condition + "))"
}
