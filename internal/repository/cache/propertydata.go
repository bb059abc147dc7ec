package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/gridprox/internal/domain"
)

// SuburbsKey is the cache key name of the suburb list.
const SuburbsKey = "suburbs:v1"

// Compile-time check: CachedPropertySource implements domain.PropertySource.
var _ domain.PropertySource = (*CachedPropertySource)(nil)

// CachedPropertySource caches the suburb list and per-suburb line data.
type CachedPropertySource struct {
	inner   domain.PropertySource
	fetcher *Fetcher
}

// NewPropertySource creates a caching property-data decorator.
func NewPropertySource(inner domain.PropertySource, f *Fetcher) *CachedPropertySource {
	return &CachedPropertySource{inner: inner, fetcher: f}
}

// ListSuburbs returns the cached suburb list or calls the inner source.
func (c *CachedPropertySource) ListSuburbs(ctx context.Context) ([]domain.SuburbRef, error) {
	return fetchJSON(ctx, c.fetcher, SuburbsKey, func(ctx context.Context) ([]domain.SuburbRef, error) {
		res, err := c.inner.ListSuburbs(ctx)
		if err != nil {
			return nil, fmt.Errorf("list suburbs: %w", err)
		}
		return res, nil
	})
}

// SelectSuburb returns cached line data for the suburb or calls the inner source.
func (c *CachedPropertySource) SelectSuburb(ctx context.Context, suburb domain.SuburbRef) (domain.SuburbLines, error) {
	return fetchJSON(ctx, c.fetcher, SuburbKey(suburb.ID), func(ctx context.Context) (domain.SuburbLines, error) {
		res, err := c.inner.SelectSuburb(ctx, suburb)
		if err != nil {
			return domain.SuburbLines{}, fmt.Errorf("select suburb %s: %w", suburb.Name, err)
		}
		return res, nil
	})
}

// SuburbKey is the cache key name of one suburb's line data.
func SuburbKey(id int) string {
	return "suburb:" + strconv.Itoa(id)
}
