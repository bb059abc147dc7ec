package gridprox

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver    string // "file", "redis", "valkey" or "none"
	cachePath string
	addrs     []string
	password  string

	originLat, originLon float64
	searchRadiusM        float64
	workers              int
	fetchConcurrency     int
	exportFormats        []string

	geocoderURL     string
	propertyDataURL string
	httpClient      *http.Client

	logger     *slog.Logger
	zapLogger  *zap.Logger
	metricsReg prometheus.Registerer
}

// WithFileCache stores upstream responses in a JSON file at path.
func WithFileCache(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "file"
		c.cachePath = path
	})
}

// WithValkey caches upstream responses in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis caches upstream responses in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithoutCache sends every lookup to the upstream services.
func WithoutCache() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "none"
	})
}

// WithOrigin sets the projection origin in degrees. Defaults to the Sydney CBD.
func WithOrigin(lat, lon float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.originLat = lat
		c.originLon = lon
	})
}

// WithSearchRadius sets the default suburb search radius in metres. Default: 5000.
func WithSearchRadius(m float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchRadiusM = m
	})
}

// WithWorkers sets how many goroutines scan one power line. Default: 2.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithFetchConcurrency bounds concurrent suburb downloads. Default: 4.
func WithFetchConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.fetchConcurrency = n
	})
}

// WithExportFormats selects scene export formats: "vtk", "geojson", "parquet". Default: vtk.
func WithExportFormats(formats ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.exportFormats = formats
	})
}

// WithUpstreams overrides the geocoder and property-data base URLs.
func WithUpstreams(geocoderURL, propertyDataURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.geocoderURL = geocoderURL
		c.propertyDataURL = propertyDataURL
	})
}

// WithHTTPClient sets the HTTP client used for upstream requests.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithZapLogger receives the engine's internal logs (skipped runs, cache failures).
func WithZapLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.zapLogger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
