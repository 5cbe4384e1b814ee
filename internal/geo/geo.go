// Package geo declares a station-to-station walking-time oracle.
// internal/geo/haversine (pure, no I/O) implements it;
// internal/geo/pgdistance offers a PostGIS-backed estimate with a
// context-taking signature and does not implement it.
//
// internal/costmodel does not consult a Distance: it costs a cross-line
// transfer solely from the walk minutes stored on the catalog's
// TransferEdge, and nothing in the module selects or wires a Distance at
// startup.
package geo

import "github.com/antigravity/transit-mc-router/internal/transit"

// Distance estimates the walking time in minutes between two stations.
type Distance interface {
	WalkMinutes(a, b transit.Station) (float64, error)
}
