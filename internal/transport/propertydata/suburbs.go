package propertydata

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gridprox/internal/domain"
)

// noPostcode marks suburbs the service lists without a postcode (national parks and similar).
const noPostcode = "None"

type initialResponse struct {
	ArraySuburb string `json:"Array_Suburb"`
}

// ListSuburbs implements domain.PropertySource. Suburbs are returned sorted by ID.
func (c *Client) ListSuburbs(ctx context.Context) ([]domain.SuburbRef, error) {
	var resp initialResponse
	if err := c.post(ctx, initialPath, c.form(initialSuburb), &resp); err != nil {
		return nil, err
	}

	suburbs, err := parseSuburbs(resp.ArraySuburb)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Suburb list received", zap.Int("suburbs", len(suburbs)))
	return suburbs, nil
}

// parseSuburbs decodes the embedded id -> [name, postcode, lat, lon] map.
func parseSuburbs(raw string) ([]domain.SuburbRef, error) {
	var m map[string][4]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("decode Array_Suburb: %v: %w", err, domain.ErrMalformedFeed)
	}

	out := make([]domain.SuburbRef, 0, len(m))
	for idStr, info := range m {
		s, err := parseSuburb(idStr, info)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func parseSuburb(idStr string, info [4]string) (domain.SuburbRef, error) {
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return domain.SuburbRef{}, fmt.Errorf("suburb id %q: %w", idStr, domain.ErrMalformedFeed)
	}
	s := domain.SuburbRef{ID: id, Name: info[0]}
	if info[1] != noPostcode {
		if s.Postcode, err = strconv.Atoi(info[1]); err != nil {
			return domain.SuburbRef{}, fmt.Errorf("suburb %s postcode %q: %w", idStr, info[1], domain.ErrMalformedFeed)
		}
	}
	if s.Latitude, err = strconv.ParseFloat(info[2], 64); err != nil {
		return domain.SuburbRef{}, fmt.Errorf("suburb %s latitude %q: %w", idStr, info[2], domain.ErrMalformedFeed)
	}
	if s.Longitude, err = strconv.ParseFloat(info[3], 64); err != nil {
		return domain.SuburbRef{}, fmt.Errorf("suburb %s longitude %q: %w", idStr, info[3], domain.ErrMalformedFeed)
	}
	return s, nil
}
