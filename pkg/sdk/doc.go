// Package sitesearch is an embeddable client for the site search engine:
// the same faceted search, export and catalog operations the HTTP service
// exposes, run in-process against a Solr core.
//
//	client, err := sitesearch.New(ctx,
//	    sitesearch.WithSolr("http://localhost:8983/solr/site_search"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	res, _ := client.Search(ctx, sitesearch.SearchRequest{
//	    Text:         "kinase",
//	    Project:      "PlasmoDB",
//	    DocumentType: "gene",
//	})
//	for _, d := range res.SearchResults.Documents {
//	    fmt.Println(d.PrimaryKey, d.Score, d.FoundInFields)
//	}
//
// # Export
//
// Stream writes every matching document as a line of
// "<primaryKey JSON array>\t<score>\n", walking the backend cursor in batches:
//
//	n, err := client.Stream(ctx, sitesearch.SearchRequest{Text: "kinase"}, os.Stdout)
//
// # Catalog cache
//
// WithCatalogCache keeps the two raw catalog documents in Redis so repeated
// requests skip reading them from Solr. The catalog is still merged per call.
package sitesearch
