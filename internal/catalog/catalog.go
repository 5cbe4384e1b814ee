// Package catalog declares the Catalog oracle spec §6 requires:
// `stations()`, `station(id)`, `sections(line?)`, `convenience_scores()` —
// "returns plain records". internal/netidx and internal/costmodel are
// built once at startup from a Catalog's output; nothing downstream talks
// to a database directly.
package catalog

import (
	"context"

	"github.com/antigravity/transit-mc-router/internal/transit"
)

// Catalog is the read-only static-data source for one running instance.
// Every method returns plain records — no query-time filtering logic
// beyond what the signature already implies.
type Catalog interface {
	// Stations returns every known station.
	Stations(ctx context.Context) ([]transit.Station, error)
	// Station returns a single station by id; ok=false if unknown.
	Station(ctx context.Context, id transit.StationID) (transit.Station, bool, error)
	// Lines returns every line with its per-direction station sequence.
	Lines(ctx context.Context) ([]transit.Line, error)
	// Sections returns the static segment table for line, or every line's
	// sections when line is empty, scoped to dayType (spec.md is silent on
	// service calendars; this carries the teacher's weekday/saturday/
	// sunday fan-out as the ambient structure for day-dependent segment
	// durations).
	Sections(ctx context.Context, line transit.LineID, dayType DayType) ([]transit.Section, error)
	// ConvenienceScores returns every per-station, per-profile
	// accessibility rating.
	ConvenienceScores(ctx context.Context) ([]transit.ConvenienceScore, error)
	// TransferEdges returns every cross-line transfer edge, profile-scoped.
	TransferEdges(ctx context.Context) ([]transit.TransferEdge, error)
}

// DayType selects which service calendar's sections/schedules apply,
// mirroring the teacher's day_type column ("weekday", "saturday", "sunday").
type DayType string

const (
	Weekday  DayType = "weekday"
	Saturday DayType = "saturday"
	Sunday   DayType = "sunday"
	Weekend  DayType = "weekend" // not a stored calendar; fanned out by DayOptions
)

// DayOptions expands a requested DayType into the ordered list of concrete
// calendars internal/query should try, mirroring transport_handler.go's
// dayOptions fan-out ("weekend" tries saturday then sunday, anything else
// is tried as-is).
func DayOptions(requested DayType) []DayType {
	if requested == Weekend {
		return []DayType{Saturday, Sunday}
	}
	return []DayType{requested}
}
