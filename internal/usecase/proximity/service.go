// Package proximity answers how far an address is from each class of high-voltage power line.
package proximity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/gridprox/internal/domain"
	"github.com/kailas-cloud/gridprox/internal/domain/geo"
	"github.com/kailas-cloud/gridprox/internal/export"
	logpkg "github.com/kailas-cloud/gridprox/internal/logger"
	"github.com/kailas-cloud/gridprox/internal/metrics"
)

// Config holds query tuning.
type Config struct {
	Origin           geo.GeoPosition
	SearchRadiusM    float64
	Workers          int
	FetchConcurrency int
}

// Options are per-query overrides.
type Options struct {
	RadiusM   float64 // 0 = configured search radius
	ExportDir string  // empty = no export
}

// Service runs proximity queries.
type Service struct {
	geocoder  domain.Geocoder
	source    domain.PropertySource
	exporter  SceneExporter
	projector *geo.Projector
	cfg       Config
	logger    *zap.Logger
}

// New creates a proximity service. exporter can be nil.
func New(
	geocoder domain.Geocoder,
	source domain.PropertySource,
	exporter SceneExporter,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		geocoder:  geocoder,
		source:    source,
		exporter:  exporter,
		projector: geo.NewProjector(cfg.Origin),
		cfg:       cfg,
		logger:    logger,
	}
}

// Query geocodes address and measures the distance to the nearest line of every voltage class
// found in the suburbs around it.
func (s *Service) Query(ctx context.Context, address string, opts Options) (*domain.Report, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("address is required: %w", domain.ErrInvalidQuery)
	}
	radius := opts.RadiusM
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("radius must be a positive number of metres: %w", domain.ErrInvalidQuery)
	}
	if radius == 0 {
		radius = s.cfg.SearchRadiusM
	}

	logger := logpkg.FromContextOr(ctx, s.logger)

	candidates, err := s.geocoder.Search(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("geocode address: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%q: %w", address, domain.ErrAddressNotFound)
	}
	addr := candidates[0]

	report := &domain.Report{
		Address:  addr,
		Location: s.projector.ProjectDegrees(addr.Latitude, addr.Longitude),
	}
	if report.Postcode, err = addr.Postcode(); err != nil {
		logger.Warn("Postcode not found in address", zap.String("address", addr.DisplayName), zap.Error(err))
	}

	suburbs, err := s.source.ListSuburbs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suburbs: %w", err)
	}
	if report.Postcode != 0 {
		if home, ok := domain.PostcodeIndex(suburbs)[report.Postcode]; ok {
			report.HomeSuburb = home.Name
		}
	}

	nearby := s.suburbsWithin(suburbs, report.Location, radius)
	report.Suburbs = make([]string, len(nearby))
	for i, sub := range nearby {
		report.Suburbs[i] = sub.Name
	}
	logger.Debug("Suburbs within radius filtered",
		zap.Float64("radius_m", radius), zap.Strings("suburbs", report.Suburbs))

	fetched, err := s.fetchLines(ctx, nearby)
	if err != nil {
		return nil, err
	}

	shapes, lines := s.buildShapes(fetched, logger)
	report.Distances = s.distances(lines, report.Location)
	logger.Debug("Distances computed", zap.Any("distances", report.Distances))

	if opts.ExportDir != "" && s.exporter != nil {
		files, err := s.exporter.Export(opts.ExportDir, export.Scene{Address: report.Location, Suburbs: shapes})
		if err != nil {
			return nil, fmt.Errorf("export scene: %w", err)
		}
		report.ExportedFiles = files
	}

	return report, nil
}

// suburbsWithin keeps suburbs whose centre lies strictly within radius of loc, ordered by name.
func (s *Service) suburbsWithin(suburbs []domain.SuburbRef, loc geo.Point, radius float64) []domain.SuburbRef {
	var out []domain.SuburbRef
	for _, sub := range suburbs {
		centre := s.projector.ProjectDegrees(sub.Latitude, sub.Longitude)
		if geo.Distance(centre, loc) < radius {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// fetchLines loads line data for every suburb with bounded concurrency, preserving input order.
func (s *Service) fetchLines(ctx context.Context, suburbs []domain.SuburbRef) ([]domain.SuburbLines, error) {
	out := make([]domain.SuburbLines, len(suburbs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FetchConcurrency)
	for i, sub := range suburbs {
		g.Go(func() error {
			lines, err := s.source.SelectSuburb(gctx, sub)
			if err != nil {
				return fmt.Errorf("fetch lines for %s: %w", sub.Name, err)
			}
			out[i] = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// buildShapes projects every suburb's geometry. A line ID seen in an earlier suburb is skipped,
// and malformed runs or catchments are dropped with a warning.
func (s *Service) buildShapes(
	fetched []domain.SuburbLines,
	logger *zap.Logger,
) ([]export.SuburbShapes, []domain.PowerLine) {
	seen := make(map[string]struct{})
	shapes := make([]export.SuburbShapes, 0, len(fetched))
	var all []domain.PowerLine

	for _, sl := range fetched {
		shape := export.SuburbShapes{Name: sl.Name}
		if len(sl.Catchment) > 0 {
			pg, err := domain.BuildCatchment(s.projector, sl.Catchment)
			if err != nil {
				logger.Warn("Skipping malformed catchment", zap.String("suburb", sl.Name), zap.Error(err))
			} else {
				shape.Catchment = pg
			}
		}
		for _, raw := range sl.Lines {
			if _, dup := seen[raw.ID]; dup {
				continue
			}
			seen[raw.ID] = struct{}{}

			line, err := domain.BuildPowerLine(s.projector, raw)
			if err != nil {
				logger.Warn("Skipping malformed power line",
					zap.String("suburb", sl.Name), zap.String("line_id", raw.ID), zap.Error(err))
				continue
			}
			shape.Lines = append(shape.Lines, line)
			all = append(all, line)
		}
		shapes = append(shapes, shape)
	}
	return shapes, all
}

// distances returns the minimum distance per voltage, highest voltage first.
func (s *Service) distances(lines []domain.PowerLine, loc geo.Point) []domain.VoltageDistance {
	groups, voltages := domain.GroupByVoltage(lines)
	out := make([]domain.VoltageDistance, 0, len(voltages))
	for _, v := range voltages {
		group := groups[v]
		best := math.Inf(1)
		for _, l := range group {
			if d := l.Path.DistanceToParallel(loc, s.cfg.Workers); d < best {
				best = d
			}
		}
		metrics.ObserveDistance(v)
		out = append(out, domain.VoltageDistance{VoltageKV: v, DistanceM: best, Lines: len(group)})
	}
	return out
}
