package sitesearch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_NoSolrURL(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no solr url provided")
	}
}

func TestNew_InvalidSolrURL(t *testing.T) {
	_, err := New(context.Background(), WithSolr("not a url"))
	if err == nil {
		t.Fatal("expected error for invalid solr url")
	}
}

func TestNew_WithoutCache(t *testing.T) {
	c, err := New(context.Background(), WithSolr("http://localhost:8983/solr/site_search"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	if c.cache != nil {
		t.Error("cache must be nil unless WithCatalogCache is used")
	}
}

func TestCreateCache_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{cacheDriver: "memcached"}
	if _, err := createCache(cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithSolr("http://solr:8983/solr/site").apply(cfg)
	if cfg.solrURL != "http://solr:8983/solr/site" {
		t.Errorf("solrURL = %q", cfg.solrURL)
	}

	WithTimeout(5 * time.Second).apply(cfg)
	if cfg.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.timeout)
	}

	hc := &http.Client{}
	WithHTTPClient(hc).apply(cfg)
	if cfg.httpClient != hc {
		t.Error("expected http client to be set")
	}

	WithStreamBatchSize(500).apply(cfg)
	if cfg.streamBatchSize != 500 {
		t.Errorf("streamBatchSize = %d, want 500", cfg.streamBatchSize)
	}

	WithCatalogCache("localhost:6379", "secret", time.Minute).apply(cfg)
	if len(cfg.cacheAddrs) != 1 || cfg.cacheAddrs[0] != "localhost:6379" {
		t.Errorf("cacheAddrs = %v", cfg.cacheAddrs)
	}
	if cfg.cacheDriver != "redis" || cfg.cachePassword != "secret" || cfg.cacheTTL != time.Minute {
		t.Errorf("cache = (%q, %q, %v)", cfg.cacheDriver, cfg.cachePassword, cfg.cacheTTL)
	}

	WithCatalogDiskCache("/tmp/catalog", time.Hour).apply(cfg)
	if cfg.cacheDriver != "badger" || cfg.cacheDir != "/tmp/catalog" || cfg.cacheTTL != time.Hour {
		t.Errorf("disk cache = (%q, %q, %v)", cfg.cacheDriver, cfg.cacheDir, cfg.cacheTTL)
	}

	logger := slog.Default()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestClient_Close_NilCache(t *testing.T) {
	c := &Client{}
	c.Close()
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
	if obs.correctionsVec() != nil || obs.streamedCounter() != nil {
		t.Error("nil observer must hand out nil counters")
	}
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("search", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("search", time.Now(), errors.New("fail"))

	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("search", "ok")); got != 1 {
		t.Errorf("ok operations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("search", "error")); got != 1 {
		t.Errorf("error operations = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "sitesearch_sdk_operations_total" {
			found = true
		}
	}
	if !found {
		t.Error("sitesearch_sdk_operations_total not found")
	}
	if obs.correctionsVec() == nil || obs.warningsVec() == nil || obs.cacheVec() == nil || obs.streamedCounter() == nil {
		t.Error("domain counters must be handed out when metrics are enabled")
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first observer: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second observer: %v", err)
	}
	if first.metrics.operations != second.metrics.operations {
		t.Error("second observer must reuse the registered counter")
	}
	if first.metrics.streamed != second.metrics.streamed {
		t.Error("second observer must reuse the registered streamed counter")
	}
}

func TestObserver_IncompatibleMetric(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sitesearch",
		Subsystem: "sdk",
		Name:      "operations_total",
	}, []string{"operation", "status"}))

	if _, err := newObserver(nil, reg); err == nil {
		t.Fatal("expected error for an incompatible collector")
	}
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.Default(), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("stream", time.Now(), nil, "documents", int64(3))
	obs.observe("stream", time.Now(), errors.New("test error"))
}

func TestSearchRequest_Params(t *testing.T) {
	tests := []struct {
		name       string
		req        SearchRequest
		wantLimit  int
		wantFilter bool
	}{
		{"defaults", SearchRequest{Text: "kinase"}, DefaultLimit, false},
		{"explicit page", SearchRequest{Text: "kinase", Offset: 40, Limit: 10}, 10, false},
		{"type filter", SearchRequest{Text: "kinase", DocumentType: "gene"}, DefaultLimit, true},
		{"fields without type", SearchRequest{Text: "kinase", FoundOnlyInFields: []string{"TEXT__gene_product"}}, DefaultLimit, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.req.params()
			if p.SearchText != tc.req.Text {
				t.Errorf("SearchText = %q", p.SearchText)
			}
			if p.Pagination == nil || p.Pagination.NumRecords != tc.wantLimit || p.Pagination.Offset != tc.req.Offset {
				t.Errorf("Pagination = %+v", p.Pagination)
			}
			if (p.DocumentTypeFilter != nil) != tc.wantFilter {
				t.Errorf("DocumentTypeFilter = %+v, want present=%v", p.DocumentTypeFilter, tc.wantFilter)
			}
		})
	}
}
