// Package pgdistance queries PostGIS directly for station-to-station walk
// distance, mirroring the teacher's loader.go transfer-generation query
// (ST_Distance over a geography cast) instead of recomputing the
// great-circle formula in Go.
//
// It deliberately does not implement internal/geo.Distance: that interface
// is called from CostModel's hot path, which spec §5 requires stay
// synchronous and I/O-free. internal/catalog/pgcatalog constructs an
// Estimator, but its read path does not call it: TransferEdge.WalkMinutes
// comes straight from the transfer_edges table. Nothing in RoundEngine
// ever queries the database directly.
package pgdistance

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antigravity/transit-mc-router/internal/transit"
)

// Estimator queries ST_Distance between two stations' stored geometries and
// converts the result to a walking-time estimate.
type Estimator struct {
	db           *pgxpool.Pool
	walkSpeedKmh float64
}

// New returns an Estimator backed by db. walkSpeedKmh of 0 selects the
// same 4.5 km/h default as internal/geo/haversine.
func New(db *pgxpool.Pool, walkSpeedKmh float64) *Estimator {
	return &Estimator{db: db, walkSpeedKmh: walkSpeedKmh}
}

// WalkMinutes estimates walking minutes via a single ST_Distance query (it
// takes a context, so it does not satisfy geo.Distance), grounded on the teacher's `ST_Distance(s1.location::geography,
// s2.location::geography)` transfer-generation expression.
func (e *Estimator) WalkMinutes(ctx context.Context, a, b transit.Station) (float64, error) {
	const q = `
		SELECT ST_Distance(
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography
		)`

	var meters float64
	if err := e.db.QueryRow(ctx, q, a.Lon, a.Lat, b.Lon, b.Lat).Scan(&meters); err != nil {
		return 0, err
	}

	speed := e.walkSpeedKmh
	if speed <= 0 {
		speed = 4.5
	}
	hours := (meters / 1000) / speed
	return hours * 60, nil
}

// NearbyPair is one row of NearbyPairs: two station ids and their distance
// in meters, a candidate for a TransferEdge.
type NearbyPair struct {
	StationA transit.StationID
	StationB transit.StationID
	Meters   float64
}

// NearbyPairs reproduces the teacher's ST_DWithin transfer-pair discovery
// query (a 300m radius when radiusMeters is not positive).
func (e *Estimator) NearbyPairs(ctx context.Context, radiusMeters float64) ([]NearbyPair, error) {
	if radiusMeters <= 0 {
		radiusMeters = 300
	}
	const q = `
		SELECT s1.code, s2.code, ST_Distance(s1.location::geography, s2.location::geography)
		FROM stops s1
		JOIN stops s2 ON ST_DWithin(s1.location::geography, s2.location::geography, $1)
		WHERE s1.code != s2.code`

	rows, err := e.db.Query(ctx, q, radiusMeters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NearbyPair
	for rows.Next() {
		var a, b string
		var meters float64
		if err := rows.Scan(&a, &b, &meters); err != nil {
			return nil, err
		}
		out = append(out, NearbyPair{StationA: transit.StationID(a), StationB: transit.StationID(b), Meters: meters})
	}
	return out, rows.Err()
}
