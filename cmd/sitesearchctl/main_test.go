package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sitesearch "github.com/kailas-cloud/sitesearch/pkg/sdk"
)

const (
	categoriesBlob = `[{"name":"Genome","documentTypes":[{"id":"gene","displayName":"Gene","displayNamePlural":"Genes"}]}]`
	fieldsBlob     = `[{"document-type":"gene","fields":[{"name":"TEXT__gene_product"}]}]`
)

// fakeSolr serves the catalog documents, a one-hit search and a two-line
// cursor walk. catalogReads counts catalog document requests.
func fakeSolr(t *testing.T, catalogReads *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case slices.Contains(r.Form["fq"], "document-type:(document-categories)"):
			catalogReads.Add(1)
			_, _ = w.Write([]byte(`{"response":{"numFound":1,"docs":[{"json-blob":` + categoriesBlob + `}]}}`))
		case slices.Contains(r.Form["fq"], "document-type:(document-fields)"):
			catalogReads.Add(1)
			_, _ = w.Write([]byte(`{"response":{"numFound":1,"docs":[{"json-blob":` + fieldsBlob + `}]}}`))
		case r.Form.Get("cursorMark") == "*":
			_, _ = w.Write([]byte(`{"response":{"numFound":2,"docs":[
			  {"id":"g1","document-type":"gene","primaryKey":["PF3D7_1"],"score":3},
			  {"id":"g2","document-type":"gene","primaryKey":["PF3D7_2","3D7"],"score":1.25}
			]},"nextCursorMark":"next"}`))
		case r.Form.Get("cursorMark") != "":
			_, _ = w.Write([]byte(`{"response":{"numFound":2,"docs":[]},"nextCursorMark":"` + r.Form.Get("cursorMark") + `"}`))
		default:
			_, _ = w.Write([]byte(`{"response":{"numFound":1,"docs":[
			  {"id":"g1","document-type":"gene","primaryKey":["PF3D7_1"],"score":3}
			]},"facet_counts":{"facet_fields":{"document-type":["gene",1],"organism":[]}}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(args ...string) (string, error) {
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run(append([]string{"sitesearchctl"}, args...))
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	srv := fakeSolr(t, &atomic.Int32{})

	out, err := run("--solr", srv.URL+"/solr/site", "search", "--limit", "5", "kinase")
	require.NoError(t, err)

	var res sitesearch.Results
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.SearchResults)
	assert.Equal(t, int64(1), res.SearchResults.TotalCount)
	require.Len(t, res.SearchResults.Documents, 1)
	assert.Equal(t, []string{"PF3D7_1"}, res.SearchResults.Documents[0].PrimaryKey)
}

func TestSearchCommand_CountsOnly(t *testing.T) {
	srv := fakeSolr(t, &atomic.Int32{})

	out, err := run("--solr", srv.URL+"/solr/site", "search", "--counts-only", "kinase")
	require.NoError(t, err)

	var res sitesearch.Results
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Nil(t, res.SearchResults)
	require.Len(t, res.DocumentTypes, 1)
	assert.Equal(t, 1, res.DocumentTypes[0].Count)
}

func TestSearchCommand_RequiresText(t *testing.T) {
	_, err := run("search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search text is required")
}

func TestSearchCommand_LimitOverCap(t *testing.T) {
	srv := fakeSolr(t, &atomic.Int32{})

	_, err := run("--solr", srv.URL+"/solr/site", "search", "--limit", "51", "kinase")
	require.Error(t, err)
	assert.ErrorIs(t, err, sitesearch.ErrInvalidRequest)
}

func TestExportCommand(t *testing.T) {
	srv := fakeSolr(t, &atomic.Int32{})

	out, err := run("--solr", srv.URL+"/solr/site", "export", "--batch-size", "2", "kinase")
	require.NoError(t, err)
	assert.Equal(t, "[\"PF3D7_1\"]\t3\n[\"PF3D7_2\",\"3D7\"]\t1.25\n", out)
}

func TestCategoriesCommand(t *testing.T) {
	srv := fakeSolr(t, &atomic.Int32{})

	out, err := run("--solr", srv.URL+"/solr/site", "categories")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Genome"`)
}

func TestCategoriesCommand_DiskCache(t *testing.T) {
	reads := &atomic.Int32{}
	srv := fakeSolr(t, reads)
	dir := t.TempDir()

	for range 2 {
		_, err := run("--solr", srv.URL+"/solr/site", "--cache-dir", dir, "categories")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), reads.Load(), "second run must read the catalog from the cache")
}

func TestSuggestCommand_ShortInput(t *testing.T) {
	// Short prefixes never reach the backend, so no server is needed.
	out, err := run("--solr", "http://127.0.0.1:1/solr/site", "suggest", "ki")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run("--log-level", "loud", "categories")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
