package catalogcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sitesearch/internal/db"
)

// KeyPrefix namespaces cached catalog documents.
const KeyPrefix = "sitesearch:catalog:"

// DefaultTTL is used when a non-positive TTL is configured.
const DefaultTTL = 5 * time.Minute

// Source loads the raw json-blob of a catalog document.
type Source interface {
	Fetch(ctx context.Context, docType string) ([]byte, error)
}

// store is the consumer interface for the catalog cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSource caches raw catalog documents in a key-value store.
// Cache failures degrade to the inner source.
type CachedSource struct {
	inner      Source
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Source,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedSource{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Fetch returns a cached document or loads it from the inner source.
func (c *CachedSource) Fetch(ctx context.Context, docType string) ([]byte, error) {
	key := KeyPrefix + docType

	if blob, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return blob, nil
	}

	c.incCache("miss")

	blob, err := c.inner.Fetch(ctx, docType)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", docType, err)
	}

	c.putToCache(ctx, key, blob)
	return blob, nil
}

func (c *CachedSource) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedSource) getFromCache(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached catalog document", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}

func (c *CachedSource) putToCache(ctx context.Context, key string, blob []byte) {
	if err := c.store.SetWithTTL(ctx, key, blob, c.ttl); err != nil {
		c.logger.Warn("Failed to cache catalog document", zap.String("key", key), zap.Error(err))
	}
}
