package cache

import (
	"context"
	"time"

	"github.com/kailas-cloud/gridprox/internal/db"
	"github.com/kailas-cloud/gridprox/internal/domain"
)

// Compile-time check: Disabled implements db.Store.
var _ db.Store = Disabled{}

// Disabled is the backend for driver "none": every read misses, writes are dropped.
type Disabled struct{}

// Ping always succeeds.
func (Disabled) Ping(context.Context) error { return nil }

// Get always reports domain.ErrCacheDisabled.
func (Disabled) Get(context.Context, string) ([]byte, error) { return nil, domain.ErrCacheDisabled }

// SetWithTTL drops the value.
func (Disabled) SetWithTTL(context.Context, string, []byte, time.Duration) error {
	return domain.ErrCacheDisabled
}

// Del is a no-op.
func (Disabled) Del(context.Context, string) error { return nil }

// Close is a no-op.
func (Disabled) Close() {}
