package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/kailas-cloud/gridprox/internal/domain"
	"github.com/kailas-cloud/gridprox/internal/domain/geo"
)

// GeoJSONFile is the name of the GeoJSON scene file. Coordinates are plane metres, not degrees.
const GeoJSONFile = "scene.geojson"

func writeGeoJSON(dir string, scene Scene) ([]string, error) {
	data, err := json.Marshal(featureCollection(scene))
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	p := filepath.Join(dir, GeoJSONFile)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return nil, fmt.Errorf("write %s: %w", p, err)
	}
	return []string{p}, nil
}

func featureCollection(scene Scene) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}

	for _, s := range scene.Suburbs {
		if s.Catchment != nil {
			fc.Features = append(fc.Features, &geojson.Feature{
				ID:       s.Name + "/catchment",
				Geometry: polygonGeom(s.Catchment),
				Properties: map[string]any{
					"suburb": s.Name,
					"shape":  "catchment",
				},
			})
		}

		groups, voltages := domain.GroupByVoltage(s.Lines)
		for _, v := range voltages {
			lines := groups[v]
			sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
			ml, ids := multiLineGeom(lines)
			fc.Features = append(fc.Features, &geojson.Feature{
				ID:       fmt.Sprintf("%s/%dkV", s.Name, v),
				Geometry: ml,
				Properties: map[string]any{
					"suburb":     s.Name,
					"shape":      "power_lines",
					"voltage_kv": v,
					"line_ids":   ids,
				},
			})
		}
	}

	fc.Features = append(fc.Features, &geojson.Feature{
		ID:         "address",
		Geometry:   geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{scene.Address.X, scene.Address.Y}),
		Properties: map[string]any{"shape": "address"},
	})
	return fc
}

// polygonGeom converts a polygon to a closed GeoJSON ring.
func polygonGeom(pg *geo.Polygon) *geom.Polygon {
	vs := pg.Vertices()
	ring := make([]geom.Coord, 0, len(vs)+1)
	for _, p := range vs {
		ring = append(ring, geom.Coord{p.X, p.Y})
	}
	ring = append(ring, geom.Coord{vs[0].X, vs[0].Y})
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{ring})
}

func multiLineGeom(lines []domain.PowerLine) (*geom.MultiLineString, []string) {
	coords := make([][]geom.Coord, 0, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		vs := l.Path.Vertices()
		cs := make([]geom.Coord, len(vs))
		for i, p := range vs {
			cs[i] = geom.Coord{p.X, p.Y}
		}
		coords = append(coords, cs)
		ids = append(ids, l.ID)
	}
	return geom.NewMultiLineString(geom.XY).MustSetCoords(coords), ids
}
