// Package geo is the planar geometry engine: it projects geodetic positions onto a local
// tangent plane and answers distance queries against segments, polygons and polylines.
package geo

import (
	"fmt"
	"math"
)

// Tolerance is the coincidence threshold (metres) for every degenerate-case decision.
const Tolerance = 1e-14

// Point is a position on the local plane, in metres relative to the projector origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("[%v, %v]", p.X, p.Y)
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Coincides reports whether p and q are closer than Tolerance.
func Coincides(p, q Point) bool {
	return Distance(p, q) < Tolerance
}

// Vector is a displacement between two points.
type Vector struct {
	X float64
	Y float64
}

// NewVector returns the displacement from -> to.
func NewVector(from, to Point) Vector {
	return Vector{X: to.X - from.X, Y: to.Y - from.Y}
}

// Cross is the 2D scalar cross product. The sign gives the turn direction.
func (v Vector) Cross(u Vector) float64 {
	return v.X*u.Y - v.Y*u.X
}

// Magnitude returns the Euclidean length of v.
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}
