package gridprox

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gridprox/internal/db"
	dbFile "github.com/kailas-cloud/gridprox/internal/db/file"
	dbRedis "github.com/kailas-cloud/gridprox/internal/db/redis"
	dbValkey "github.com/kailas-cloud/gridprox/internal/db/valkey"
	"github.com/kailas-cloud/gridprox/internal/domain"
	"github.com/kailas-cloud/gridprox/internal/domain/geo"
	"github.com/kailas-cloud/gridprox/internal/export"
	"github.com/kailas-cloud/gridprox/internal/metrics"
	"github.com/kailas-cloud/gridprox/internal/repository/cache"
	"github.com/kailas-cloud/gridprox/internal/transport/geocode"
	"github.com/kailas-cloud/gridprox/internal/transport/propertydata"
	healthuc "github.com/kailas-cloud/gridprox/internal/usecase/health"
	proximityuc "github.com/kailas-cloud/gridprox/internal/usecase/proximity"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 32 * 24 * time.Hour
	defaultCachePath        = ".cache/gridprox.json"
	defaultCacheVersion     = "v1"

	defaultOriginLat        = -33.88243560003056
	defaultOriginLon        = 151.2064118987779
	defaultSearchRadiusM    = 5000
	defaultWorkers          = 2
	defaultFetchConcurrency = 4
	defaultGeocoderURL      = "https://geocode.maps.co"
	defaultPropertyDataURL  = "https://www.propertydatamap.com.au"
	defaultUpstreamTimeout  = 30 * time.Second
)

// proximityUseCase is the internal interface for proximity queries.
type proximityUseCase interface {
	Query(ctx context.Context, address string, opts proximityuc.Options) (*domain.Report, error)
}

// Client is the gridprox SDK entry point.
type Client struct {
	store     db.Store
	proxSvc   proximityUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. Without a cache option responses are cached in
// .cache/gridprox.json. The provided context bounds the Redis/Valkey readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:           "file",
		cachePath:        defaultCachePath,
		originLat:        defaultOriginLat,
		originLon:        defaultOriginLon,
		searchRadiusM:    defaultSearchRadiusM,
		workers:          defaultWorkers,
		fetchConcurrency: defaultFetchConcurrency,
		geocoderURL:      defaultGeocoderURL,
		propertyDataURL:  defaultPropertyDataURL,
		exportFormats:    []string{export.FormatVTK},
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if !geo.ValidateCoordinates(cfg.originLat, cfg.originLon) {
		return nil, fmt.Errorf("gridprox: invalid origin (%v, %v)", cfg.originLat, cfg.originLon)
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "none":
		return cache.Disabled{}, nil
	case "file":
		s, err := dbFile.NewStore(cfg.cachePath, defaultCacheVersion)
		if err != nil {
			return nil, fmt.Errorf("gridprox: open file cache: %w", err)
		}
		return s, nil
	case "valkey":
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("gridprox: create valkey store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("gridprox: valkey not ready: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("gridprox: create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("gridprox: redis not ready: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("gridprox: unknown cache driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	logger := cfg.zapLogger
	if logger == nil {
		logger = zap.NewNop()
	}

	geocoder := geocode.NewClient(&geocode.Config{
		BaseURL:    cfg.geocoderURL,
		Timeout:    defaultUpstreamTimeout,
		HTTPClient: cfg.httpClient,
		Logger:     logger,
	})
	property := propertydata.NewClient(&propertydata.Config{
		BaseURL:    cfg.propertyDataURL,
		State:      "NSW",
		Country:    "AUS",
		Language:   "ZHS",
		Timeout:    defaultUpstreamTimeout,
		HTTPClient: cfg.httpClient,
		Logger:     logger,
	})

	exporter, err := export.New(cfg.exportFormats, logger)
	if err != nil {
		return nil, fmt.Errorf("gridprox: %w", err)
	}

	fetcher := cache.New(store, domain.KeyPrefix, defaultCacheTTL, metrics.CacheTotal, logger)
	proxSvc := proximityuc.New(
		cache.NewGeocoder(geocoder, fetcher),
		cache.NewPropertySource(property, fetcher),
		exporter,
		proximityuc.Config{
			Origin:           geo.FromDegrees(cfg.originLat, cfg.originLon),
			SearchRadiusM:    cfg.searchRadiusM,
			Workers:          cfg.workers,
			FetchConcurrency: cfg.fetchConcurrency,
		},
		logger,
	)
	healthSvc := healthuc.New(store, map[string]healthuc.UpstreamChecker{"property_data": property})

	return &Client{
		store:     store,
		proxSvc:   proxSvc,
		healthSvc: healthSvc,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks cache connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// QueryOption tunes a single Proximity call.
type QueryOption func(*proximityuc.Options)

// WithRadius overrides the suburb search radius in metres.
func WithRadius(m float64) QueryOption {
	return func(o *proximityuc.Options) { o.RadiusM = m }
}

// WithExport writes the query scene to dir in the configured formats.
func WithExport(dir string) QueryOption {
	return func(o *proximityuc.Options) { o.ExportDir = dir }
}

// Proximity measures the distance from address to the nearest power line of each voltage.
func (c *Client) Proximity(ctx context.Context, address string, opts ...QueryOption) (res *Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("proximity", start, err, "address", address) }()

	var o proximityuc.Options
	for _, opt := range opts {
		opt(&o)
	}

	rep, err := c.proxSvc.Query(ctx, address, o)
	if err != nil {
		return nil, fmt.Errorf("proximity: %w", err)
	}
	return resultFromReport(rep), nil
}
