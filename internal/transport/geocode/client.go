// Package geocode is a client for the geocode.maps.co forward-geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gridprox/internal/domain"
	"github.com/kailas-cloud/gridprox/internal/metrics"
)

const service = "geocode"

// Compile-time check: Client implements domain.Geocoder.
var _ domain.Geocoder = (*Client)(nil)

// Config holds the geocoder settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client resolves addresses to coordinates.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewClient creates a geocoder client.
func NewClient(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		logger:  logger,
	}
}

// Search implements domain.Geocoder. Candidates keep the service's ranking;
// callers normally take the first one.
func (c *Client) Search(ctx context.Context, address string) ([]domain.AddressCandidate, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("empty address: %w", domain.ErrInvalidQuery)
	}

	// QueryEscape encodes spaces as '+', which is what the service expects.
	endpoint := c.baseURL + "/search?q=" + url.QueryEscape(strings.TrimSpace(address))
	c.logger.Debug("Geocoding address", zap.String("url", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveUpstream(service, 0, start)
		return nil, fmt.Errorf("geocode request: %v: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(service, resp.StatusCode, start)

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstreamError(service, resp.StatusCode)
	}

	var raw []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode geocode response: %v: %w", err, domain.ErrMalformedFeed)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%q: %w", address, domain.ErrAddressNotFound)
	}
	if len(raw) > 1 {
		c.logger.Warn("More than one result found for address, the first one will be used",
			zap.String("address", address),
			zap.Int("results", len(raw)),
			zap.String("used", raw[0].DisplayName),
		)
	}

	first, err := raw[0].toDomain()
	if err != nil {
		return nil, err
	}
	out := make([]domain.AddressCandidate, 1, len(raw))
	out[0] = first
	for i, r := range raw[1:] {
		cand, err := r.toDomain()
		if err != nil {
			c.logger.Warn("Skipping malformed geocode candidate",
				zap.Int("index", i+1),
				zap.String("display_name", r.DisplayName),
				zap.Error(err),
			)
			continue
		}
		out = append(out, cand)
	}
	c.logger.Debug("Address found",
		zap.String("display_name", out[0].DisplayName),
		zap.Float64("lat", out[0].Latitude),
		zap.Float64("lon", out[0].Longitude),
	)
	return out, nil
}

func (r searchResult) toDomain() (domain.AddressCandidate, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return domain.AddressCandidate{}, fmt.Errorf("latitude %q: %w", r.Lat, domain.ErrMalformedFeed)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return domain.AddressCandidate{}, fmt.Errorf("longitude %q: %w", r.Lon, domain.ErrMalformedFeed)
	}
	return domain.AddressCandidate{DisplayName: r.DisplayName, Latitude: lat, Longitude: lon}, nil
}
