package geo

import (
	"fmt"
	"math"
)

// Segment is a straight edge between two distinct points.
type Segment struct {
	a Point
	b Point
}

// NewSegment validates and creates a Segment. The endpoints must be at least Tolerance apart.
func NewSegment(a, b Point) (Segment, error) {
	if Distance(a, b) < Tolerance {
		return Segment{}, newError(KindDegenerateSegment, []Point{a, b},
			"can not form a segment from two points at the same coordinate (eps=%g)", Tolerance)
	}
	return Segment{a: a, b: b}, nil
}

// A returns the start point.
func (s Segment) A() Point { return s.a }

// B returns the end point.
func (s Segment) B() Point { return s.b }

// Length returns the distance between the endpoints.
func (s Segment) Length() float64 { return Distance(s.a, s.b) }

func (s Segment) String() string {
	return fmt.Sprintf("(%s -> %s)", s.a, s.b)
}

// Projection returns the orthogonal projection of p onto the infinite line through the segment.
func (s Segment) Projection(p Point) Point {
	dx := s.b.X - s.a.X
	dy := s.b.Y - s.a.Y
	// vertical line x = a.x, slope undefined
	if math.Abs(dx) < Tolerance {
		return Point{X: s.a.X, Y: p.Y}
	}
	// y = k*x + c
	k := dy / dx
	c := s.a.Y - k*s.a.X
	denom := 1 + k*k
	return Point{
		X: (p.X + k*p.Y - k*c) / denom,
		Y: (k*p.X + k*k*p.Y + c) / denom,
	}
}

// ClosestPoint returns the point of the segment nearest to p.
//
// The checks run in a fixed order: p already on the line, projection on endpoint a, projection
// on endpoint b, then the cross-product side test. Reordering them changes the result in
// degenerate collinear cases.
//
// A p on the segment's infinite line is returned as is, even outside the span between a and b,
// so DistanceTo is 0 there: (10,150) against (10,0)-(10,100) gives 0, not 50. Callers that need
// the clamped distance must check collinearity themselves.
func (s Segment) ClosestPoint(p Point) Point {
	proj := s.Projection(p)

	toProj := NewVector(p, proj)
	if toProj.Magnitude() < Tolerance {
		// p is on the line, both cross products would be zero
		return proj
	}
	projToA := NewVector(proj, s.a)
	if projToA.Magnitude() < Tolerance {
		return s.a
	}
	projToB := NewVector(proj, s.b)
	if projToB.Magnitude() < Tolerance {
		return s.b
	}

	crossA := toProj.Cross(projToA)
	crossB := toProj.Cross(projToB)
	if (crossA > 0 && crossB > 0) || (crossA < 0 && crossB < 0) {
		// a and b on the same side of the perpendicular: projection is outside the span
		if Distance(p, s.a) > Distance(p, s.b) {
			return s.b
		}
		return s.a
	}
	return proj
}

// DistanceTo returns the distance from p to the nearest point of the segment.
func (s Segment) DistanceTo(p Point) float64 {
	return Distance(s.ClosestPoint(p), p)
}
