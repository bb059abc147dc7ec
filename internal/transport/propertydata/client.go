// Package propertydata is a client for the propertydatamap.com.au map service,
// the source of suburb centres and high-voltage power-line geometry.
package propertydata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gridprox/internal/domain"
	"github.com/kailas-cloud/gridprox/internal/metrics"
)

const (
	service = "property_data"

	initialPath      = "/Property/00_PHP_9/Server_Initial_Initial.php"
	selectSuburbPath = "/Property/00_PHP_9/Server_Map_SelectSuburb.php"

	// initialSuburb is the suburb code the initial page load is requested with;
	// the suburb list in the response does not depend on it.
	initialSuburb = "4167"
)

// Compile-time check: Client implements domain.PropertySource.
var _ domain.PropertySource = (*Client)(nil)

// Config holds the property-data service settings.
type Config struct {
	BaseURL    string
	State      string
	Country    string
	Language   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client queries the property-data map service.
type Client struct {
	baseURL  string
	state    string
	country  string
	language string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient creates a property-data client.
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
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		state:    cfg.State,
		country:  cfg.Country,
		language: cfg.Language,
		http:     hc,
		logger:   logger,
	}
}

func (c *Client) form(suburb string) url.Values {
	return url.Values{
		"Local_Language":      {c.language},
		"Local_Country":       {c.country},
		"Local_State":         {c.state},
		"Local_Suburb":        {suburb},
		"Menu_Lv1":            {"Utilities"},
		"Menu_Lv2":            {"Electricity Line"},
		"CurrentLocation_Lat": {""},
		"CurrentLocation_Lon": {""},
	}
}

// post submits the form and decodes the JSON response body into out.
func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveUpstream(service, 0, start)
		return fmt.Errorf("%s: %v: %w", path, err, domain.ErrUpstream)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(service, resp.StatusCode, start)

	if resp.StatusCode != http.StatusOK {
		return domain.NewUpstreamError(service, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %v: %w", path, err, domain.ErrMalformedFeed)
	}
	return nil
}

// HealthCheck verifies the service answers; any non-5xx response counts as up.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %v: %w", err, domain.ErrUpstream)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return domain.NewUpstreamError(service, resp.StatusCode)
	}
	return nil
}
