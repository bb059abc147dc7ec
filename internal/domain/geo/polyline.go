package geo

// PolyLine is an open chain of segments (e.g. one power-line run).
type PolyLine struct {
	segments []Segment
}

// NewPolyLine builds a chain from at least two ordered points.
func NewPolyLine(points []Point) (*PolyLine, error) {
	if len(points) < 2 {
		return nil, newError(KindInsufficientPoints, points,
			"at least 2 points are needed to form a polyline, got %d", len(points))
	}
	segments := make([]Segment, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		seg, err := NewSegment(points[i], points[i+1])
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return &PolyLine{segments: segments}, nil
}

// DistanceTo returns the minimum distance from p to any segment, folded sequentially.
func (pl *PolyLine) DistanceTo(p Point) float64 {
	return MinOver(len(pl.segments), 1, func(i int) float64 {
		return pl.segments[i].DistanceTo(p)
	})
}

// DistanceToParallel is DistanceTo evaluated across up to workers goroutines.
// The result is identical to DistanceTo.
func (pl *PolyLine) DistanceToParallel(p Point, workers int) float64 {
	return MinOver(len(pl.segments), workers, func(i int) float64 {
		return pl.segments[i].DistanceTo(p)
	})
}

// Len returns the number of segments.
func (pl *PolyLine) Len() int { return len(pl.segments) }

// Segments returns a copy of the chain's segments.
func (pl *PolyLine) Segments() []Segment {
	out := make([]Segment, len(pl.segments))
	copy(out, pl.segments)
	return out
}

// Vertices returns the chain's points: the first start, then every segment end.
func (pl *PolyLine) Vertices() []Point {
	out := make([]Point, 0, len(pl.segments)+1)
	out = append(out, pl.segments[0].a)
	for _, s := range pl.segments {
		out = append(out, s.b)
	}
	return out
}
