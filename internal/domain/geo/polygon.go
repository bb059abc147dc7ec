package geo

import (
	"strings"
)

// Polygon is a closed, validated loop of segments (e.g. a suburb catchment).
type Polygon struct {
	segments []Segment
}

// NewPolygon builds a closed loop from ordered points. The loop is closed automatically when
// the last point does not coincide with the first.
func NewPolygon(points []Point) (*Polygon, error) {
	if len(points) < 3 {
		return nil, newError(KindInsufficientPoints, points,
			"at least 3 points are needed to form a polygon, got %d", len(points))
	}
	if len(points) == 3 && Coincides(points[0], points[2]) {
		return nil, newError(KindDegenerateShape, points,
			"3 points with the first equal to the last collapse to a line")
	}
	if n := distinctPoints(points, 3); n < 3 {
		return nil, newError(KindInsufficientPoints, points,
			"at least 3 distinct points are needed to form a polygon, got %d", n)
	}

	segments := make([]Segment, 0, len(points))
	for i := 1; i < len(points); i++ {
		seg, err := NewSegment(points[i-1], points[i])
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	first, last := points[0], points[len(points)-1]
	if !Coincides(first, last) {
		seg, err := NewSegment(last, first)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}

	return NewPolygonFromSegments(segments)
}

// distinctPoints counts points that do not coincide with an earlier one, stopping at limit.
func distinctPoints(points []Point, limit int) int {
	seen := make([]Point, 0, limit)
	for _, p := range points {
		dup := false
		for _, q := range seen {
			if Coincides(p, q) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen = append(seen, p)
		if len(seen) == limit {
			break
		}
	}
	return len(seen)
}

// NewPolygonFromSegments validates that segments form a continuous closed loop.
func NewPolygonFromSegments(segments []Segment) (*Polygon, error) {
	if err := validateLoop(segments); err != nil {
		return nil, err
	}
	owned := make([]Segment, len(segments))
	copy(owned, segments)
	return &Polygon{segments: owned}, nil
}

func validateLoop(segments []Segment) error {
	if len(segments) < 3 {
		return newError(KindInsufficientPoints, nil,
			"at least 3 segments are needed to form a polygon, got %d", len(segments))
	}
	for i := 1; i < len(segments); i++ {
		prev, cur := segments[i-1], segments[i]
		if Distance(prev.b, cur.a) > Tolerance {
			return newError(KindDiscontinuousChain, []Point{prev.b, cur.a},
				"end of segment %d %s is not the start of segment %d %s", i-1, prev, i, cur)
		}
	}
	first, last := segments[0], segments[len(segments)-1]
	if Distance(first.a, last.b) > Tolerance {
		return newError(KindUnclosedLoop, []Point{last.b, first.a},
			"end of the last segment %s is not the start of the first segment %s", last, first)
	}
	return nil
}

// Segments returns a copy of the loop's segments.
func (pg *Polygon) Segments() []Segment {
	out := make([]Segment, len(pg.segments))
	copy(out, pg.segments)
	return out
}

// Vertices returns the distinct loop vertices in order; the closing point is not repeated.
func (pg *Polygon) Vertices() []Point {
	out := make([]Point, len(pg.segments))
	for i, s := range pg.segments {
		out[i] = s.a
	}
	return out
}

func (pg *Polygon) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, s := range pg.segments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.String())
	}
	b.WriteString("]")
	return b.String()
}
