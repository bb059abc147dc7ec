package gridprox

import "github.com/kailas-cloud/gridprox/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrAddressNotFound = domain.ErrAddressNotFound
	ErrInvalidQuery    = domain.ErrInvalidQuery
	ErrUpstream        = domain.ErrUpstream
	ErrMalformedFeed   = domain.ErrMalformedFeed
)
