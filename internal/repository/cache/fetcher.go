// Package cache provides read-through caching of upstream responses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gridprox/internal/db"
	"github.com/kailas-cloud/gridprox/internal/domain"
)

// store is the consumer interface for the cache backend (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Fetcher serves values from the store and falls back to a fetch function on miss.
// Backend failures are logged and never fail the caller.
type Fetcher struct {
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a read-through fetcher.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Fetcher {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Fetcher{
		store:      s,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Key returns the namespaced backend key for name.
func (f *Fetcher) Key(name string) string {
	return f.prefix + name
}

// GetOrFetch returns the cached bytes for name or calls fetch and stores its result.
func (f *Fetcher) GetOrFetch(
	ctx context.Context,
	name string,
	fetch func(ctx context.Context) ([]byte, error),
) ([]byte, error) {
	key := f.Key(name)

	if data, ok := f.get(ctx, key); ok {
		f.incCache("hit")
		return data, nil
	}
	f.incCache("miss")

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	f.put(ctx, key, data)
	return data, nil
}

// fetchJSON is GetOrFetch for JSON-encoded values. Undecodable cache entries count as misses.
func fetchJSON[T any](
	ctx context.Context,
	f *Fetcher,
	name string,
	fetch func(ctx context.Context) (T, error),
) (T, error) {
	key := f.Key(name)

	if data, ok := f.get(ctx, key); ok {
		var v T
		err := json.Unmarshal(data, &v)
		if err == nil {
			f.incCache("hit")
			return v, nil
		}
		f.logger.Warn("Failed to decode cached value", zap.String("key", key), zap.Error(err))
	}
	f.incCache("miss")

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return v, fmt.Errorf("encode %s: %w", key, err)
	}
	f.put(ctx, key, data)
	return v, nil
}

func (f *Fetcher) incCache(result string) {
	if f.cacheTotal != nil {
		f.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (f *Fetcher) get(ctx context.Context, key string) ([]byte, bool) {
	data, err := f.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) && !errors.Is(err, domain.ErrCacheDisabled) {
			f.logger.Warn("Failed to read cache", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}

func (f *Fetcher) put(ctx context.Context, key string, data []byte) {
	if err := f.store.SetWithTTL(ctx, key, data, f.ttl); err != nil && !errors.Is(err, domain.ErrCacheDisabled) {
		f.logger.Warn("Failed to write cache", zap.String("key", key), zap.Error(err))
	}
}
