package domain

import (
	"errors"
	"fmt"
)

// KeyPrefix namespaces every cache key written by gridprox.
const KeyPrefix = "gridprox:"

var (
	// ErrAddressNotFound signals that the geocoder returned no candidate.
	ErrAddressNotFound = errors.New("address not found")
	// ErrPostcodeNotFound signals that no postcode could be extracted from an address.
	ErrPostcodeNotFound = errors.New("postcode not found")
	// ErrUpstream signals a failure of an external data service.
	ErrUpstream = errors.New("upstream service error")
	// ErrMalformedFeed signals upstream data that does not match the expected shape.
	ErrMalformedFeed = errors.New("malformed feed")
	// ErrCacheDisabled signals that caching is turned off.
	ErrCacheDisabled = errors.New("cache disabled")
	// ErrInvalidQuery signals bad caller input.
	ErrInvalidQuery = errors.New("invalid query")
)

// UpstreamError wraps ErrUpstream with the failing service and HTTP status.
type UpstreamError struct {
	Service    string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrUpstream.Error(), e.Service, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// NewUpstreamError creates an upstream status error.
func NewUpstreamError(service string, statusCode int) error {
	return &UpstreamError{Service: service, StatusCode: statusCode}
}
