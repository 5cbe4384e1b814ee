// Package haversine implements internal/geo.Distance with the great-circle
// formula over WGS84 coordinates, no database round-trip. No other package
// in this module constructs an Estimator; the search takes transfer walk
// times from the catalog's transfer edges.
package haversine

import (
	"math"

	"github.com/antigravity/transit-mc-router/internal/transit"
)

// earthRadiusMeters is the mean Earth radius used by the teacher's
// ST_Distance(...::geography) calls, which default to the spheroid; a
// sphere of this radius keeps the two within a few meters of each other
// over urban-scale distances.
const earthRadiusMeters = 6371000.0

// Estimator converts a great-circle distance into a walking-time estimate
// at a fixed average speed.
type Estimator struct {
	// WalkSpeedKmh is the assumed pedestrian speed; defaults to 4.5 km/h
	// (a typical accessible-route planning speed) when zero.
	WalkSpeedKmh float64
}

// New returns an Estimator at the given walking speed; 0 selects the
// default.
func New(walkSpeedKmh float64) *Estimator {
	return &Estimator{WalkSpeedKmh: walkSpeedKmh}
}

// MetersBetween returns the great-circle distance between a and b in
// meters.
func MetersBetween(a, b transit.Station) float64 {
	lat1, lon1 := a.Lat*math.Pi/180, a.Lon*math.Pi/180
	lat2, lon2 := b.Lat*math.Pi/180, b.Lon*math.Pi/180

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// WalkMinutes implements geo.Distance.
func (e *Estimator) WalkMinutes(a, b transit.Station) (float64, error) {
	speed := e.WalkSpeedKmh
	if speed <= 0 {
		speed = 4.5
	}
	meters := MetersBetween(a, b)
	hours := (meters / 1000) / speed
	return hours * 60, nil
}
