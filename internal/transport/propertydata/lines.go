package propertydata

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gridprox/internal/domain"
)

const (
	lineStringType = "LineString"
	polygonType    = "Polygon"

	// noLinesMarker appears in Array_Data when a suburb has no power lines: the popup map
	// degrades to an array of arrays instead of an object.
	noLinesMarker = `Geometry_Selected_Popup_Info":[["`
)

type selectResponse struct {
	ArrayData string `json:"Array_Data"`
}

type arrayData struct {
	LatLon    map[string]string   `json:"Geometry_Selected_LatLon"`
	PopupInfo map[string][]string `json:"Geometry_Selected_Popup_Info"`
	Polygon   json.RawMessage     `json:"Geometry_Selected_Polygon,omitempty"`
}

type lineGeometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"` // [lon, lat, elevation]
}

type polygonGeometry struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"` // rings of [lon, lat]
}

// SelectSuburb implements domain.PropertySource. Malformed runs are skipped with a warning.
func (c *Client) SelectSuburb(ctx context.Context, suburb domain.SuburbRef) (domain.SuburbLines, error) {
	c.logger.Debug("Fetching suburb power lines", zap.String("suburb", suburb.Name), zap.Int("suburb_id", suburb.ID))

	var resp selectResponse
	if err := c.post(ctx, selectSuburbPath, c.form(strconv.Itoa(suburb.ID)), &resp); err != nil {
		return domain.SuburbLines{}, err
	}

	out := domain.SuburbLines{SuburbID: suburb.ID, Name: suburb.Name}
	if strings.Contains(resp.ArrayData, noLinesMarker) {
		c.logger.Debug("No high voltage power line in suburb", zap.String("suburb", suburb.Name))
		return out, nil
	}

	var data arrayData
	if err := json.Unmarshal([]byte(resp.ArrayData), &data); err != nil {
		return domain.SuburbLines{}, fmt.Errorf("decode Array_Data for %s: %v: %w", suburb.Name, err, domain.ErrMalformedFeed)
	}

	ids := make([]string, 0, len(data.LatLon))
	for id := range data.LatLon {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		line, err := parseLine(id, data.LatLon[id], data.PopupInfo[id])
		if err != nil {
			c.logger.Warn("Skipping malformed power line",
				zap.String("suburb", suburb.Name), zap.String("line_id", id), zap.Error(err))
			continue
		}
		out.Lines = append(out.Lines, line)
	}

	if len(data.Polygon) > 0 {
		ring, err := parseCatchment(data.Polygon)
		if err != nil {
			c.logger.Warn("Skipping malformed catchment", zap.String("suburb", suburb.Name), zap.Error(err))
		} else {
			out.Catchment = ring
		}
	}
	return out, nil
}

func parseLine(id, rawGeometry string, labels []string) (domain.RawLine, error) {
	var g lineGeometry
	if err := json.Unmarshal([]byte(rawGeometry), &g); err != nil {
		return domain.RawLine{}, fmt.Errorf("decode geometry: %v: %w", err, domain.ErrMalformedFeed)
	}
	if g.Type != lineStringType {
		return domain.RawLine{}, fmt.Errorf("only %s is supported for lines, got %q: %w",
			lineStringType, g.Type, domain.ErrMalformedFeed)
	}
	voltage, err := ParseVoltage(labels)
	if err != nil {
		return domain.RawLine{}, err
	}

	coords := make([]domain.LonLat, 0, len(g.Coordinates))
	for i, c := range g.Coordinates {
		if len(c) < 2 {
			return domain.RawLine{}, fmt.Errorf("coordinate %d has %d values: %w", i, len(c), domain.ErrMalformedFeed)
		}
		coords = append(coords, domain.LonLat{c[0], c[1]})
	}
	return domain.RawLine{ID: id, VoltageKV: voltage, Coordinates: coords}, nil
}

// parseCatchment accepts the polygon either inline or as an embedded JSON string
// and returns its outer ring.
func parseCatchment(raw json.RawMessage) ([]domain.LonLat, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode polygon string: %v: %w", err, domain.ErrMalformedFeed)
		}
		raw = json.RawMessage(s)
	}
	var g polygonGeometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode polygon: %v: %w", err, domain.ErrMalformedFeed)
	}
	if g.Type != polygonType || len(g.Coordinates) == 0 {
		return nil, fmt.Errorf("unsupported catchment geometry %q: %w", g.Type, domain.ErrMalformedFeed)
	}
	ring := make([]domain.LonLat, 0, len(g.Coordinates[0]))
	for i, c := range g.Coordinates[0] {
		if len(c) < 2 {
			return nil, fmt.Errorf("catchment coordinate %d has %d values: %w", i, len(c), domain.ErrMalformedFeed)
		}
		ring = append(ring, domain.LonLat{c[0], c[1]})
	}
	return ring, nil
}

// ParseVoltage reads the single "<n>kV" popup label of a line. The unit suffix is case sensitive.
func ParseVoltage(labels []string) (int, error) {
	if len(labels) != 1 {
		return 0, fmt.Errorf("expected exactly one voltage label, got %q: %w", labels, domain.ErrMalformedFeed)
	}
	num, ok := strings.CutSuffix(labels[0], "kV")
	if !ok {
		return 0, fmt.Errorf("voltage label %q has no kV suffix: %w", labels[0], domain.ErrMalformedFeed)
	}
	v, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("voltage label %q: %w", labels[0], domain.ErrMalformedFeed)
	}
	return v, nil
}
