// Package pgcatalog implements internal/catalog.Catalog against
// Postgres/PostGIS, grounded on the teacher's repository.LineRepository
// (GetAllLines, GetLineDetails, GetStopsInViewport, GetStopDetails) and
// routing.Loader.LoadData (stop/line/section queries, the ST_X/ST_Y
// geometry accessors, and the ST_DWithin/ST_Distance transfer-generation
// query adapted here into internal/geo/pgdistance).
package pgcatalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antigravity/transit-mc-router/internal/catalog"
	"github.com/antigravity/transit-mc-router/internal/geo/pgdistance"
	"github.com/antigravity/transit-mc-router/internal/transit"
)

// Catalog is a catalog.Catalog backed by a live pgxpool.Pool.
type Catalog struct {
	db       *pgxpool.Pool
	distance *pgdistance.Estimator
}

// New returns a Catalog that queries db directly, grounded on the teacher's
// *pgxpool.Pool-holding repository pattern.
func New(db *pgxpool.Pool, walkSpeedKmh float64) *Catalog {
	return &Catalog{db: db, distance: pgdistance.New(db, walkSpeedKmh)}
}

// Stations mirrors loader.go's `SELECT id, code, name_fr, ST_X(...),
// ST_Y(...) FROM stops`, keyed by the catalog's natural station code
// rather than the teacher's dense DB id (spec §3: stations are opaque
// strings).
func (c *Catalog) Stations(ctx context.Context) ([]transit.Station, error) {
	rows, err := c.db.Query(ctx, `
		SELECT code, name_fr, ST_Y(location::geometry), ST_X(location::geometry)
		FROM stops`)
	if err != nil {
		return nil, fmt.Errorf("pgcatalog: stations query: %w", err)
	}
	defer rows.Close()

	var out []transit.Station
	for rows.Next() {
		var s transit.Station
		var code string
		if err := rows.Scan(&code, &s.Name, &s.Lat, &s.Lon); err != nil {
			return nil, fmt.Errorf("pgcatalog: scan station: %w", err)
		}
		s.ID = transit.StationID(code)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Station mirrors GetStopDetails' stop-info query, filtered to one code.
func (c *Catalog) Station(ctx context.Context, id transit.StationID) (transit.Station, bool, error) {
	var s transit.Station
	err := c.db.QueryRow(ctx, `
		SELECT code, name_fr, ST_Y(location::geometry), ST_X(location::geometry)
		FROM stops WHERE code = $1`, string(id)).Scan(&s.ID, &s.Name, &s.Lat, &s.Lon)
	if err != nil {
		if isNoRows(err) {
			return transit.Station{}, false, nil
		}
		return transit.Station{}, false, fmt.Errorf("pgcatalog: station %s: %w", id, err)
	}
	s.ID = id
	return s, true, nil
}

// Lines mirrors loader.go's "distinct line_id, direction" pattern query
// discovery plus the per-pattern ordered-stop query, folded into one
// per-line ascending/descending pair the way internal/netidx expects
// (ascending is the direction=0 sequence; descending is direction=1 when
// present, or its reverse otherwise, exactly as netidx.Build already
// tolerates).
func (c *Catalog) Lines(ctx context.Context) ([]transit.Line, error) {
	rows, err := c.db.Query(ctx, `SELECT l.code FROM lines l ORDER BY l.code ASC`)
	if err != nil {
		return nil, fmt.Errorf("pgcatalog: lines query: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("pgcatalog: scan line code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]transit.Line, 0, len(codes))
	for _, code := range codes {
		asc, err := c.stopSequence(ctx, code, 0)
		if err != nil {
			return nil, err
		}
		desc, err := c.stopSequence(ctx, code, 1)
		if err != nil {
			return nil, err
		}
		out = append(out, transit.Line{ID: transit.LineID(code), Ascending: asc, Descending: desc})
	}
	return out, nil
}

func (c *Catalog) stopSequence(ctx context.Context, lineCode string, direction int) ([]transit.StationID, error) {
	rows, err := c.db.Query(ctx, `
		SELECT s.code
		FROM stops s
		JOIN line_stops ls ON s.id = ls.stop_id
		JOIN lines l ON l.id = ls.line_id
		WHERE l.code = $1 AND ls.direction = $2
		ORDER BY ls.stop_sequence ASC`, lineCode, direction)
	if err != nil {
		return nil, fmt.Errorf("pgcatalog: stop sequence for line %s dir %d: %w", lineCode, direction, err)
	}
	defer rows.Close()

	var out []transit.StationID
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		out = append(out, transit.StationID(code))
	}
	return out, rows.Err()
}

// Sections derives the static segment table from the same ordered
// line_stops sequence Lines uses, with a day-dependent base duration
// mirroring the teacher's schedule-derived "180 seconds per hop" fallback
// — generalized here into a per-(line,direction,order) duration column so
// the search can actually vary by segment, not just by a flat constant.
func (c *Catalog) Sections(ctx context.Context, line transit.LineID, dayType catalog.DayType) ([]transit.Section, error) {
	query := `
		SELECT l.code, sec.direction, sec.from_order, sec.to_order, sec.base_duration_min, sec.peak_multiplier
		FROM sections sec
		JOIN lines l ON l.id = sec.line_id
		WHERE sec.day_type = $1`
	args := []any{string(dayType)}
	if line != "" {
		query += " AND l.code = $2"
		args = append(args, string(line))
	}
	query += " ORDER BY l.code, sec.direction, sec.from_order"

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgcatalog: sections query: %w", err)
	}
	defer rows.Close()

	var out []transit.Section
	for rows.Next() {
		var s transit.Section
		var code string
		var dir int
		if err := rows.Scan(&code, &dir, &s.FromOrder, &s.ToOrder, &s.BaseDurationMin, &s.PeakMultiplier); err != nil {
			return nil, fmt.Errorf("pgcatalog: scan section: %w", err)
		}
		s.Line = transit.LineID(code)
		if dir == 1 {
			s.Direction = transit.Descending
		} else {
			s.Direction = transit.Ascending
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ConvenienceScores loads the per-station, per-profile accessibility
// rating table — the catalog-side half of the data the teacher's commented-
// out PREFERRED_FACILITIES map in the original app/main.py anticipated but
// never wired to a database table.
func (c *Catalog) ConvenienceScores(ctx context.Context) ([]transit.ConvenienceScore, error) {
	rows, err := c.db.Query(ctx, `
		SELECT s.code, cs.profile, cs.score
		FROM convenience_scores cs
		JOIN stops s ON s.id = cs.stop_id`)
	if err != nil {
		return nil, fmt.Errorf("pgcatalog: convenience scores query: %w", err)
	}
	defer rows.Close()

	var out []transit.ConvenienceScore
	for rows.Next() {
		var cs transit.ConvenienceScore
		var code, profile string
		if err := rows.Scan(&code, &profile, &cs.Score); err != nil {
			return nil, fmt.Errorf("pgcatalog: scan convenience score: %w", err)
		}
		cs.Station = transit.StationID(code)
		cs.Profile = transit.Profile(profile)
		out = append(out, cs)
	}
	return out, rows.Err()
}

// TransferEdges loads the profile-scoped cross-line transfer table. Where
// the catalog has no precomputed edge for a (station, from_line, to_line,
// profile) tuple but the two lines' platforms are within walking range,
// internal/geo/pgdistance.NearbyPairs (mirroring the teacher's ST_DWithin
// query) can seed one; that materialization is an offline/admin step, not
// performed on this read path.
func (c *Catalog) TransferEdges(ctx context.Context) ([]transit.TransferEdge, error) {
	rows, err := c.db.Query(ctx, `
		SELECT s.code, lf.code, te.from_direction, lt.code, te.to_direction, te.profile,
		       te.walk_minutes, te.difficulty, te.convenience_delta, te.congestion_delta
		FROM transfer_edges te
		JOIN stops s ON s.id = te.stop_id
		JOIN lines lf ON lf.id = te.from_line_id
		JOIN lines lt ON lt.id = te.to_line_id`)
	if err != nil {
		return nil, fmt.Errorf("pgcatalog: transfer edges query: %w", err)
	}
	defer rows.Close()

	var out []transit.TransferEdge
	for rows.Next() {
		var e transit.TransferEdge
		var station, fromLine, toLine, profile string
		var fromDir, toDir int
		if err := rows.Scan(&station, &fromLine, &fromDir, &toLine, &toDir, &profile,
			&e.WalkMinutes, &e.Difficulty, &e.ConvenienceDelta, &e.CongestionDelta); err != nil {
			return nil, fmt.Errorf("pgcatalog: scan transfer edge: %w", err)
		}
		e.Station = transit.StationID(station)
		e.FromLine = transit.LineID(fromLine)
		e.ToLine = transit.LineID(toLine)
		e.Profile = transit.Profile(profile)
		e.FromDirection = directionOf(fromDir)
		e.ToDirection = directionOf(toDir)
		out = append(out, e)
	}
	return out, rows.Err()
}

func directionOf(v int) transit.Direction {
	if v == 1 {
		return transit.Descending
	}
	return transit.Ascending
}

// isNoRows mirrors the teacher's repository.IsNoRows helper.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
