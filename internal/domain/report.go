package domain

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/gridprox/internal/domain/geo"
)

// VoltageDistance is the minimum distance from the address to any line of one voltage class.
type VoltageDistance struct {
	VoltageKV int     `json:"voltage_kv"`
	DistanceM float64 `json:"distance_m"`
	Lines     int     `json:"lines"`
}

// String renders the distance the way the CLI prints it, e.g. "120m away from 66kV power line".
func (d VoltageDistance) String() string {
	return fmt.Sprintf("%.0fm away from %dkV power line", d.DistanceM, d.VoltageKV)
}

// Report is the outcome of a proximity query.
type Report struct {
	Address  AddressCandidate `json:"address"`
	Postcode int              `json:"postcode,omitempty"`
	// HomeSuburb is the suburb registered under the address postcode, if any.
	HomeSuburb    string            `json:"home_suburb,omitempty"`
	Location      geo.Point         `json:"location"`
	Suburbs       []string          `json:"suburbs"`
	Distances     []VoltageDistance `json:"distances"`
	ExportedFiles []string          `json:"exported_files,omitempty"`
}

// Highlights walks the distances from the highest voltage down and keeps each entry that is
// strictly closer than every higher-voltage entry before it.
func (r *Report) Highlights() []VoltageDistance {
	out := make([]VoltageDistance, 0, len(r.Distances))
	closest := math.Inf(1)
	for _, d := range r.Distances {
		if d.DistanceM < closest {
			closest = d.DistanceM
			out = append(out, d)
		}
	}
	return out
}

// Nearest returns the overall closest entry, or false when no line was found.
func (r *Report) Nearest() (VoltageDistance, bool) {
	if len(r.Distances) == 0 {
		return VoltageDistance{}, false
	}
	best := r.Distances[0]
	for _, d := range r.Distances[1:] {
		if d.DistanceM < best.DistanceM {
			best = d
		}
	}
	return best, true
}
