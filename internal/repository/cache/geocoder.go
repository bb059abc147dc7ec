package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/kailas-cloud/gridprox/internal/domain"
)

// Compile-time check: CachedGeocoder implements domain.Geocoder.
var _ domain.Geocoder = (*CachedGeocoder)(nil)

// CachedGeocoder caches geocoder candidates per normalized address.
type CachedGeocoder struct {
	inner   domain.Geocoder
	fetcher *Fetcher
}

// NewGeocoder creates a caching geocoder decorator.
func NewGeocoder(inner domain.Geocoder, f *Fetcher) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, fetcher: f}
}

// Search returns cached candidates or calls the inner geocoder.
func (c *CachedGeocoder) Search(ctx context.Context, address string) ([]domain.AddressCandidate, error) {
	return fetchJSON(ctx, c.fetcher, GeocodeKey(address), func(ctx context.Context) ([]domain.AddressCandidate, error) {
		res, err := c.inner.Search(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", address, err)
		}
		return res, nil
	})
}

// GeocodeKey is the cache key name for an address; case and surrounding space are ignored.
func GeocodeKey(address string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(address))))
	return "geocode:" + hex.EncodeToString(h[:])
}
