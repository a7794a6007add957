package sitesearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sitesearch/internal/db"
	dbBadger "github.com/kailas-cloud/sitesearch/internal/db/badger"
	dbRedis "github.com/kailas-cloud/sitesearch/internal/db/redis"
	"github.com/kailas-cloud/sitesearch/internal/db/solr"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
	catalogrepo "github.com/kailas-cloud/sitesearch/internal/repository/catalog"
	"github.com/kailas-cloud/sitesearch/internal/repository/catalogcache"
	searchrepo "github.com/kailas-cloud/sitesearch/internal/repository/search"
	cataloguc "github.com/kailas-cloud/sitesearch/internal/usecase/catalog"
	exportuc "github.com/kailas-cloud/sitesearch/internal/usecase/export"
	healthuc "github.com/kailas-cloud/sitesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/sitesearch/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/sitesearch/internal/usecase/suggest"
)

const defaultReadinessTimeout = 10 * time.Second

// searchUseCase is the internal interface for faceted search.
type searchUseCase interface {
	Search(ctx context.Context, params request.Params) (result.Results, error)
	FieldCounts(ctx context.Context, params request.Params) (result.Results, error)
}

// exportUseCase is the internal interface for streaming exports.
type exportUseCase interface {
	Prepare(ctx context.Context, params request.Params) (*exportuc.Export, error)
	Stream(ctx context.Context, exp *exportuc.Export, w io.Writer) (int64, error)
}

// catalogUseCase is the internal interface for catalog reads.
type catalogUseCase interface {
	Metadata(ctx context.Context, project string) (result.Catalog, error)
}

// suggestUseCase is the internal interface for typeahead.
type suggestUseCase interface {
	Suggest(ctx context.Context, text string) ([]string, error)
}

// pinger checks backend connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

// Client is the sitesearch SDK entry point.
type Client struct {
	backend    pinger
	cache      db.CacheStore
	searchSvc  searchUseCase
	exportSvc  exportUseCase
	catalogSvc catalogUseCase
	suggestSvc suggestUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client. WithSolr is required.
// With a catalog cache configured, New waits for it to become ready.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.solrURL == "" {
		return nil, errors.New("sitesearch: solr url is required (use WithSolr)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	backend, err := solr.NewClient(solr.Config{
		URL:        cfg.solrURL,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		Logger:     zap.NewNop(),
	})
	if err != nil {
		return nil, fmt.Errorf("sitesearch: %w", err)
	}

	var cache db.CacheStore
	if cfg.cacheDriver != "" {
		cache, err = createCache(cfg)
		if err != nil {
			return nil, err
		}
		if err := cache.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			cache.Close()
			return nil, fmt.Errorf("sitesearch: catalog cache not ready: %w", err)
		}
	}

	return wireClient(backend, cache, cfg, obs), nil
}

func createCache(cfg *clientConfig) (db.CacheStore, error) {
	switch cfg.cacheDriver {
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:       cfg.cacheAddrs,
			Password:    cfg.cachePassword,
			DialTimeout: cfg.timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("sitesearch: catalog cache: %w", err)
		}
		return store, nil
	case "badger":
		store, err := dbBadger.Open(dbBadger.Config{Dir: cfg.cacheDir})
		if err != nil {
			return nil, fmt.Errorf("sitesearch: catalog cache: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("sitesearch: unknown cache driver %q", cfg.cacheDriver)
	}
}

func wireClient(backend *solr.Client, cache db.CacheStore, cfg *clientConfig, obs *observer) *Client {
	var source cataloguc.Source = catalogrepo.New(backend)
	var cachePinger healthuc.Pinger
	if cache != nil {
		source = catalogcache.New(source, cache, cfg.cacheTTL, obs.cacheVec(), zap.NewNop())
		cachePinger = cache
	}

	repo := searchrepo.New(backend)
	catalogSvc := cataloguc.New(source, obs.warningsVec())

	return &Client{
		backend:    backend,
		cache:      cache,
		searchSvc:  searchuc.New(catalogSvc, repo, obs.correctionsVec()),
		exportSvc:  exportuc.New(catalogSvc, repo, cfg.streamBatchSize, obs.streamedCounter()),
		catalogSvc: catalogSvc,
		suggestSvc: suggestuc.New(backend),
		healthSvc:  healthuc.New(backend, cachePinger),
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Ping checks backend connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.backend.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
