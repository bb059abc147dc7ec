package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by the local-plane projection.
const EarthRadiusMeters = 6_371_071.0

// GeoPosition is a geodetic coordinate in radians.
type GeoPosition struct {
	Latitude  float64
	Longitude float64
}

// FromDegrees builds a GeoPosition from latitude/longitude given in degrees.
func FromDegrees(latDeg, lonDeg float64) GeoPosition {
	return GeoPosition{
		Latitude:  latDeg * math.Pi / 180,
		Longitude: lonDeg * math.Pi / 180,
	}
}

// Projector maps geodetic positions onto an equirectangular plane anchored at Origin.
// Accuracy is only adequate within a few tens of kilometres of the origin.
type Projector struct {
	origin GeoPosition
}

// NewProjector creates a projector anchored at origin.
func NewProjector(origin GeoPosition) *Projector {
	return &Projector{origin: origin}
}

// Origin returns the reference position.
func (pr *Projector) Origin() GeoPosition {
	return pr.origin
}

// Project converts pos to plane coordinates. The longitude scale uses the latitude of pos,
// not the origin's.
func (pr *Projector) Project(pos GeoPosition) Point {
	longitudeScale := EarthRadiusMeters * math.Cos(pos.Latitude)
	return Point{
		X: longitudeScale * (pos.Longitude - pr.origin.Longitude),
		Y: EarthRadiusMeters * (pos.Latitude - pr.origin.Latitude),
	}
}

// ProjectDegrees is Project for a latitude/longitude pair in degrees.
func (pr *Projector) ProjectDegrees(latDeg, lonDeg float64) Point {
	return pr.Project(FromDegrees(latDeg, lonDeg))
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
