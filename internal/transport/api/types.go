// Package api holds the HTTP wire types and the chi routing for the gridprox API.
package api

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeAddressNotFound  ErrorResponseCode = "address_not_found"
	ErrorResponseCodeUpstreamError    ErrorResponseCode = "upstream_error"
	ErrorResponseCodeMalformedFeed    ErrorResponseCode = "malformed_feed"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// GetProximityParams defines parameters for GetProximity.
type GetProximityParams struct {
	// Address is free-form text passed to the geocoder.
	Address string `form:"address" json:"address"`

	// Radius overrides the suburb search radius, in metres.
	Radius *float64 `form:"radius,omitempty" json:"radius,omitempty"`
}

// VoltageDistance is the distance to the nearest line of one voltage class.
type VoltageDistance struct {
	VoltageKv int     `json:"voltage_kv"`
	DistanceM float64 `json:"distance_m"`
	Lines     int     `json:"lines"`
}

// ProximityResponse is the result of a proximity query.
type ProximityResponse struct {
	Address    string            `json:"address"`
	Latitude   float64           `json:"latitude"`
	Longitude  float64           `json:"longitude"`
	Postcode   *int              `json:"postcode,omitempty"`
	HomeSuburb *string           `json:"home_suburb,omitempty"`
	Suburbs    []string          `json:"suburbs"`
	Distances  []VoltageDistance `json:"distances"`
	Highlights []VoltageDistance `json:"highlights"`
	Summary    []string          `json:"summary"`
}

// HealthResponseStatus is the overall service status.
type HealthResponseStatus string

// HealthResponseChecks is the status of one dependency.
type HealthResponseChecks string

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status HealthResponseStatus            `json:"status"`
	Checks map[string]HealthResponseChecks `json:"checks"`
}
