package gridprox

import (
	"fmt"

	"github.com/kailas-cloud/gridprox/internal/domain"
)

// Distance is the distance from the address to the nearest line of one voltage class.
type Distance struct {
	VoltageKV int
	Meters    float64
	Lines     int // lines of this voltage found around the address
}

// String formats the distance as "<m>m away from <kv>kV power line".
func (d Distance) String() string {
	return fmt.Sprintf("%.0fm away from %dkV power line", d.Meters, d.VoltageKV)
}

// Result is the answer to a proximity query.
type Result struct {
	Address    string
	Latitude   float64
	Longitude  float64
	Postcode   int    // 0 when the address has none
	HomeSuburb string // suburb registered under Postcode, if known
	Suburbs    []string
	// Distances are ordered by voltage, highest first.
	Distances     []Distance
	ExportedFiles []string

	highlights []Distance
}

// Highlights returns the distances that are strictly closer than every higher voltage.
func (r *Result) Highlights() []Distance {
	return r.highlights
}

// Nearest returns the closest line of any voltage.
func (r *Result) Nearest() (Distance, bool) {
	if len(r.highlights) == 0 {
		return Distance{}, false
	}
	return r.highlights[len(r.highlights)-1], true
}

func resultFromReport(rep *domain.Report) *Result {
	return &Result{
		Address:       rep.Address.DisplayName,
		Latitude:      rep.Address.Latitude,
		Longitude:     rep.Address.Longitude,
		Postcode:      rep.Postcode,
		HomeSuburb:    rep.HomeSuburb,
		Suburbs:       rep.Suburbs,
		Distances:     distancesFromDomain(rep.Distances),
		ExportedFiles: rep.ExportedFiles,
		highlights:    distancesFromDomain(rep.Highlights()),
	}
}

func distancesFromDomain(ds []domain.VoltageDistance) []Distance {
	out := make([]Distance, len(ds))
	for i, d := range ds {
		out[i] = Distance{VoltageKV: d.VoltageKV, Meters: d.DistanceM, Lines: d.Lines}
	}
	return out
}
