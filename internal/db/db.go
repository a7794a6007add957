package db

import (
	"context"
	"time"
)

// Backend is the text-search backend facade.
type Backend interface {
	Searcher
	Suggester
	Pinger
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher executes select queries.
type Searcher interface {
	Select(ctx context.Context, q *Query) (*Response, error)
}

// Suggester returns typeahead terms for a prefix.
type Suggester interface {
	Suggest(ctx context.Context, text string) ([]string, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CacheStore is a key-value store with connection lifecycle.
type CacheStore interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}
