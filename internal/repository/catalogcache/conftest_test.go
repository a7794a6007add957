package catalogcache

import (
	"context"
	"time"

	"github.com/kailas-cloud/sitesearch/internal/db"
)

type mockSource struct {
	blob  []byte
	err   error
	calls int
}

func (m *mockSource) Fetch(_ context.Context, _ string) ([]byte, error) {
	m.calls++
	return m.blob, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}
