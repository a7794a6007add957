package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sitesearch/internal/db"
	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog/field"
	"github.com/kailas-cloud/sitesearch/internal/domain/document"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/facet"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
	"github.com/kailas-cloud/sitesearch/internal/logger"
)

func format(
	ctx context.Context, req *request.Request, cat catalog.Catalog,
	counts facet.Counts, resp *db.Response, omitResults bool,
) (result.Results, error) {
	meta := result.NewCatalog(cat, req.Project(), counts.DocumentTypes)
	out := result.Results{
		Categories:     meta.Categories,
		DocumentTypes:  meta.DocumentTypes,
		OrganismCounts: facet.FilterOrganisms(counts.Organisms, req.MetadataOrganisms()),
	}
	if req.HasDocTypeFilter() {
		out.FieldCounts = counts.Fields
	}
	if omitResults {
		return out, nil
	}

	log := logger.FromContext(ctx)
	docs := make([]result.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		if document.IsInternalType(d.Type()) {
			continue
		}
		doc, err := formatDocument(d, resp.Highlighting[d.ID()], cat, req.Project(), log)
		if err != nil {
			return result.Results{}, err
		}
		docs = append(docs, doc)
	}
	out.SearchResults = &result.SearchResults{TotalCount: resp.Total, Documents: docs}
	return out, nil
}

func formatDocument(
	d document.Document, highlighted []string, cat catalog.Catalog, project string, log *zap.Logger,
) (result.Document, error) {
	t, ok := cat.DocumentType(d.Type())
	if !ok {
		return result.Document{}, fmt.Errorf("%w: document %q has unknown type %q",
			domain.ErrBackendIntegrity, d.ID(), d.Type())
	}
	pk, err := d.PrimaryKey()
	if err != nil {
		return result.Document{}, fmt.Errorf("%w: %w", domain.ErrBackendIntegrity, err)
	}

	found := highlighted
	if found == nil {
		found = []string{}
	}

	summary := make(map[string]any)
	for _, f := range t.SummaryFields(project) {
		v, ok := summaryValue(d, f)
		if !ok {
			log.Debug("summary field missing",
				zap.String("document_id", d.ID()),
				zap.String("field", f.Name()),
			)
			continue
		}
		summary[f.Name()] = v
	}

	return result.Document{
		DocumentType:        t.ID(),
		PrimaryKey:          pk,
		Score:               d.Score(),
		Organism:            d.String(document.FieldOrganism),
		WdkPrimaryKeyString: d.String(document.FieldWdkPrimaryKey),
		HyperlinkName:       d.String(document.FieldHyperlinkName),
		FoundInFields:       found,
		SummaryFieldData:    summary,
	}, nil
}

// summaryValue returns a list for multi-valued fields and a scalar otherwise.
func summaryValue(d document.Document, f field.Field) (any, bool) {
	v, ok := d[f.Name()]
	if !ok || v == nil {
		return nil, false
	}
	list, isList := v.([]any)
	switch {
	case f.IsMultiText() && isList:
		return list, true
	case f.IsMultiText():
		return []any{v}, true
	case isList && len(list) == 0:
		return nil, false
	case isList:
		return list[0], true
	}
	return v, true
}
