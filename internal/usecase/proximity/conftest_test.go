package proximity

import (
	"context"
	"math"
	"sync"

	"github.com/kailas-cloud/gridprox/internal/domain"
	"github.com/kailas-cloud/gridprox/internal/domain/geo"
	"github.com/kailas-cloud/gridprox/internal/export"
)

const (
	originLat = -33.88
	originLon = 151.2
)

// metersToLat converts a northward offset in metres to degrees of latitude.
func metersToLat(m float64) float64 {
	return m / geo.EarthRadiusMeters * 180 / math.Pi
}

// eastWest builds a horizontal run m metres north of the origin.
func eastWest(id string, kv int, m float64) domain.RawLine {
	lat := originLat + metersToLat(m)
	return domain.RawLine{
		ID:        id,
		VoltageKV: kv,
		Coordinates: []domain.LonLat{
			{originLon - 0.01, lat},
			{originLon, lat},
			{originLon + 0.01, lat},
		},
	}
}

// --- Mocks ---

var (
	_ domain.Geocoder       = (*mockGeocoder)(nil)
	_ domain.PropertySource = (*mockPropertySource)(nil)
	_ SceneExporter         = (*mockExporter)(nil)
)

type mockGeocoder struct {
	candidates []domain.AddressCandidate
	err        error
	calls      int
}

func (m *mockGeocoder) Search(_ context.Context, _ string) ([]domain.AddressCandidate, error) {
	m.calls++
	return m.candidates, m.err
}

type mockPropertySource struct {
	suburbs  []domain.SuburbRef
	lines    map[int]domain.SuburbLines
	listErr  error
	fetchErr error

	mu      sync.Mutex
	fetched []string
}

func (m *mockPropertySource) ListSuburbs(_ context.Context) ([]domain.SuburbRef, error) {
	return m.suburbs, m.listErr
}

func (m *mockPropertySource) SelectSuburb(_ context.Context, s domain.SuburbRef) (domain.SuburbLines, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, s.Name)
	m.mu.Unlock()
	if m.fetchErr != nil {
		return domain.SuburbLines{}, m.fetchErr
	}
	return m.lines[s.ID], nil
}

type mockExporter struct {
	dir   string
	scene export.Scene
	files []string
	err   error
}

func (m *mockExporter) Export(dir string, scene export.Scene) ([]string, error) {
	m.dir = dir
	m.scene = scene
	return m.files, m.err
}

// fixture builds a source with three suburbs around the origin:
// ALPHA at the origin, BETA 2km north and FAR 8km north.
func fixture() (*mockGeocoder, *mockPropertySource) {
	gc := &mockGeocoder{candidates: []domain.AddressCandidate{{
		DisplayName: "1 George Street, Sydney, New South Wales, 2000, Australia",
		Latitude:    originLat,
		Longitude:   originLon,
	}}}

	src := &mockPropertySource{
		suburbs: []domain.SuburbRef{
			{ID: 30, Name: "FAR", Postcode: 2999, Latitude: originLat + metersToLat(8000), Longitude: originLon},
			{ID: 20, Name: "BETA", Postcode: 2001, Latitude: originLat + metersToLat(2000), Longitude: originLon},
			{ID: 10, Name: "ALPHA", Postcode: 2000, Latitude: originLat, Longitude: originLon},
		},
		lines: map[int]domain.SuburbLines{
			10: {
				SuburbID: 10,
				Name:     "ALPHA",
				Catchment: []domain.LonLat{
					{originLon - 0.02, originLat - 0.02},
					{originLon + 0.02, originLat - 0.02},
					{originLon + 0.02, originLat + 0.02},
					{originLon - 0.02, originLat + 0.02},
				},
				Lines: []domain.RawLine{
					eastWest("L1", 132, 300),
					eastWest("L2", 66, 120),
					{ID: "L3", VoltageKV: 33, Coordinates: []domain.LonLat{{originLon, originLat}}},
				},
			},
			20: {
				SuburbID: 20,
				Name:     "BETA",
				Lines: []domain.RawLine{
					eastWest("L1", 132, 10),
					eastWest("L4", 33, 700),
				},
			},
			30: {
				SuburbID: 30,
				Name:     "FAR",
				Lines:    []domain.RawLine{eastWest("L9", 330, 8000)},
			},
		},
	}
	return gc, src
}

func newTestService(gc domain.Geocoder, src domain.PropertySource, exp SceneExporter) *Service {
	return New(gc, src, exp, Config{
		Origin:           geo.FromDegrees(originLat, originLon),
		SearchRadiusM:    5000,
		Workers:          2,
		FetchConcurrency: 2,
	}, nil)
}
