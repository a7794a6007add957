package sitesearch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	solrURL    string
	timeout    time.Duration
	httpClient *http.Client

	streamBatchSize int

	cacheDriver   string // "redis" or "badger"
	cacheAddrs    []string
	cachePassword string
	cacheDir      string
	cacheTTL      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSolr sets the Solr core base URL, e.g. http://localhost:8983/solr/site_search.
// Required.
func WithSolr(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.solrURL = url
	})
}

// WithTimeout bounds a single backend request. Default: 30s.
// Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient replaces the HTTP client used to talk to Solr.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithStreamBatchSize sets the number of documents fetched per export page.
// Default: 10000.
func WithStreamBatchSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.streamBatchSize = n
	})
}

// WithCatalogCache keeps the raw catalog documents in Redis for ttl.
// Disabled by default: every request then reads the catalog from Solr.
func WithCatalogCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithCatalogDiskCache keeps the raw catalog documents in an embedded
// database under dir for ttl. Entries survive process restarts, which
// suits short-lived tools.
func WithCatalogDiskCache(dir string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "badger"
		c.cacheDir = dir
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations,
// facet corrections, streamed documents, catalog cache hits) on the given
// registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
