// Package export writes a query scene (catchments, power lines and the address)
// to files for inspection in external viewers.
package export

import (
	"math"
	"strings"

	"github.com/kailas-cloud/gridprox/internal/domain"
	"github.com/kailas-cloud/gridprox/internal/domain/geo"
)

// CircleSamples is the number of vertices used to draw an address ring.
const CircleSamples = 64

// AddressRadii are the rings drawn around the address, in metres.
var AddressRadii = []float64{100, 200}

// SuburbShapes is the projected geometry of one suburb.
type SuburbShapes struct {
	Name      string
	Catchment *geo.Polygon // nil when the feed has no boundary
	Lines     []domain.PowerLine
}

// Scene is everything exported for one query, in plane coordinates.
type Scene struct {
	Address geo.Point
	Suburbs []SuburbShapes
}

// Circle samples a ring of radius r around origin.
func Circle(origin geo.Point, r float64, samples int) (*geo.Polygon, error) {
	pts := make([]geo.Point, samples)
	for i := range pts {
		angle := 2 * math.Pi * float64(i) / float64(samples)
		pts[i] = geo.Point{X: origin.X + math.Cos(angle)*r, Y: origin.Y + math.Sin(angle)*r}
	}
	return geo.NewPolygon(pts)
}

// fileName makes a suburb name safe to use as a file name component.
func fileName(name string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}
