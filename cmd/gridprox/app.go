package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gridprox/internal/config"
	"github.com/kailas-cloud/gridprox/internal/db"
	dbFile "github.com/kailas-cloud/gridprox/internal/db/file"
	dbRedis "github.com/kailas-cloud/gridprox/internal/db/redis"
	dbValkey "github.com/kailas-cloud/gridprox/internal/db/valkey"
	"github.com/kailas-cloud/gridprox/internal/domain/geo"
	"github.com/kailas-cloud/gridprox/internal/export"
	"github.com/kailas-cloud/gridprox/internal/metrics"
	"github.com/kailas-cloud/gridprox/internal/repository/cache"
	"github.com/kailas-cloud/gridprox/internal/transport/geocode"
	"github.com/kailas-cloud/gridprox/internal/transport/propertydata"
	healthuc "github.com/kailas-cloud/gridprox/internal/usecase/health"
	proximityuc "github.com/kailas-cloud/gridprox/internal/usecase/proximity"
)

// app is the composition root shared by the query and serve commands.
type app struct {
	store     db.Store
	proximity *proximityuc.Service
	health    *healthuc.Service
}

// newApp wires the cache backend, upstream clients and use cases.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	metrics.RegisterMetrics()

	store, err := newStore(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	logger.Debug("Cache ready", zap.String("driver", cfg.Cache.Driver))

	geocoder := geocode.NewClient(&geocode.Config{
		BaseURL: cfg.Geocoder.BaseURL,
		Timeout: time.Duration(cfg.Geocoder.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	property := propertydata.NewClient(&propertydata.Config{
		BaseURL:  cfg.PropertyData.BaseURL,
		State:    cfg.PropertyData.State,
		Country:  cfg.PropertyData.Country,
		Language: cfg.PropertyData.Language,
		Timeout:  time.Duration(cfg.PropertyData.TimeoutSec) * time.Second,
		Logger:   logger,
	})

	fetcher := cache.New(store, cfg.Cache.KeyPrefix, cfg.Cache.TTL(), metrics.CacheTotal, logger)

	exporter, err := export.New(cfg.Export.Formats, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	svc := proximityuc.New(
		cache.NewGeocoder(geocoder, fetcher),
		cache.NewPropertySource(property, fetcher),
		exporter,
		proximityuc.Config{
			Origin:           geo.FromDegrees(cfg.Geo.OriginLat, cfg.Geo.OriginLon),
			SearchRadiusM:    cfg.Proximity.SearchRadiusM,
			Workers:          cfg.Proximity.Workers,
			FetchConcurrency: cfg.Proximity.FetchConcurrency,
		},
		logger,
	)

	health := healthuc.New(store, map[string]healthuc.UpstreamChecker{
		"property_data": property,
	})

	return &app{store: store, proximity: svc, health: health}, nil
}

func (a *app) Close() {
	a.store.Close()
}

// newStore creates the cache backend for the configured driver.
func newStore(ctx context.Context, cfg config.CacheConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.CacheDriverNone:
		return cache.Disabled{}, nil
	case config.CacheDriverFile:
		s, err := dbFile.NewStore(cfg.Path, cfg.Version)
		if err != nil {
			return nil, fmt.Errorf("open file cache: %w", err)
		}
		return s, nil
	case config.CacheDriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Addrs, Password: cfg.Password})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			s.Close()
			return nil, fmt.Errorf("redis not ready: %w", err)
		}
		return s, nil
	case config.CacheDriverValkey:
		s, err := dbValkey.NewStore(dbValkey.Config{Addrs: cfg.Addrs, Password: cfg.Password})
		if err != nil {
			return nil, fmt.Errorf("create valkey store: %w", err)
		}
		if err := s.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			s.Close()
			return nil, fmt.Errorf("valkey not ready: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
