package domain

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/gridprox/internal/domain/geo"
)

// SuburbRef is a suburb known to the property-data service, centre in degrees.
// Postcode is 0 for suburbs the service lists without one.
type SuburbRef struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Postcode  int     `json:"postcode,omitempty"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// LonLat is a [longitude, latitude] pair in degrees, the order used by the upstream feed.
type LonLat [2]float64

// RawLine is one power-line run as delivered by the feed.
type RawLine struct {
	ID          string   `json:"id"`
	VoltageKV   int      `json:"voltage_kv"`
	Coordinates []LonLat `json:"coordinates"`
}

// SuburbLines is the line data (and optional catchment boundary) of one suburb.
type SuburbLines struct {
	SuburbID  int       `json:"suburb_id"`
	Name      string    `json:"name"`
	Catchment []LonLat  `json:"catchment,omitempty"`
	Lines     []RawLine `json:"lines"`
}

// PowerLine is a projected power-line run.
type PowerLine struct {
	ID        string
	VoltageKV int
	Path      *geo.PolyLine
}

// ProjectPoints converts feed coordinates to plane points.
func ProjectPoints(pr *geo.Projector, coords []LonLat) []geo.Point {
	out := make([]geo.Point, len(coords))
	for i, c := range coords {
		out[i] = pr.ProjectDegrees(c[1], c[0])
	}
	return out
}

// BuildPowerLine projects a raw run and builds its polyline.
func BuildPowerLine(pr *geo.Projector, raw RawLine) (PowerLine, error) {
	path, err := geo.NewPolyLine(ProjectPoints(pr, raw.Coordinates))
	if err != nil {
		return PowerLine{}, fmt.Errorf("power line %s: %w", raw.ID, err)
	}
	return PowerLine{ID: raw.ID, VoltageKV: raw.VoltageKV, Path: path}, nil
}

// BuildCatchment projects a raw boundary and builds its polygon.
func BuildCatchment(pr *geo.Projector, boundary []LonLat) (*geo.Polygon, error) {
	pg, err := geo.NewPolygon(ProjectPoints(pr, boundary))
	if err != nil {
		return nil, fmt.Errorf("catchment: %w", err)
	}
	return pg, nil
}

// GroupByVoltage buckets lines by voltage class and returns the voltages in descending order.
func GroupByVoltage(lines []PowerLine) (map[int][]PowerLine, []int) {
	groups := make(map[int][]PowerLine)
	for _, l := range lines {
		groups[l.VoltageKV] = append(groups[l.VoltageKV], l)
	}
	voltages := make([]int, 0, len(groups))
	for v := range groups {
		voltages = append(voltages, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(voltages)))
	return groups, voltages
}

// PostcodeIndex maps postcode to suburb ID. Suburbs without a postcode are skipped;
// when several suburbs share a postcode the one with the lowest ID wins.
func PostcodeIndex(suburbs []SuburbRef) map[int]SuburbRef {
	idx := make(map[int]SuburbRef, len(suburbs))
	for _, s := range suburbs {
		if s.Postcode == 0 {
			continue
		}
		if cur, ok := idx[s.Postcode]; ok && cur.ID < s.ID {
			continue
		}
		idx[s.Postcode] = s
	}
	return idx
}
