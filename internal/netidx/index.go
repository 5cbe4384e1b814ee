// Package netidx builds the read-only NetworkIndex described in spec §4.2
// from static catalog inputs: for each (line, direction) an ordered station
// sequence, for each station the set of incident (line, direction)
// memberships, and the direction-independent order of a station on a line.
// All lookups except Neighbors are O(1) after Build; Neighbors scans the
// (line, direction) sequence for the station's position.
package netidx

import "github.com/antigravity/transit-mc-router/internal/transit"

// Index is the built, immutable network index. It is safe to share across
// concurrent queries without synchronization (spec §5).
type Index struct {
	sequences map[transit.LineID]map[transit.Direction][]transit.StationID
	order     map[transit.LineID]map[transit.StationID]int
	memberships map[transit.StationID][]transit.Membership
	stations  map[transit.StationID]transit.Station
}

// Build derives an Index from the catalog's stations and lines. It
// returns DataIntegrityError (never during query — only at this build
// step, per spec §7) when a line's sequence references a station absent
// from stations.
func Build(stations []transit.Station, lines []transit.Line) (*Index, error) {
	idx := &Index{
		sequences:   make(map[transit.LineID]map[transit.Direction][]transit.StationID),
		order:       make(map[transit.LineID]map[transit.StationID]int),
		memberships: make(map[transit.StationID][]transit.Membership),
		stations:    make(map[transit.StationID]transit.Station, len(stations)),
	}

	for _, s := range stations {
		idx.stations[s.ID] = s
	}

	for _, line := range lines {
		if len(line.Ascending) == 0 {
			continue
		}
		for _, sid := range line.Ascending {
			if _, ok := idx.stations[sid]; !ok {
				return nil, &DataIntegrityError{Line: line.ID, Station: sid}
			}
		}

		ascending := make([]transit.StationID, len(line.Ascending))
		copy(ascending, line.Ascending)
		descending := line.Descending
		if len(descending) == 0 {
			descending = make([]transit.StationID, len(ascending))
			for i, s := range ascending {
				descending[len(ascending)-1-i] = s
			}
		} else {
			for _, sid := range descending {
				if _, ok := idx.stations[sid]; !ok {
					return nil, &DataIntegrityError{Line: line.ID, Station: sid}
				}
			}
		}

		idx.sequences[line.ID] = map[transit.Direction][]transit.StationID{
			transit.Ascending:  ascending,
			transit.Descending: descending,
		}

		orders := make(map[transit.StationID]int, len(ascending))
		for i, sid := range ascending {
			orders[sid] = i
		}
		idx.order[line.ID] = orders

		for _, dir := range []transit.Direction{transit.Ascending, transit.Descending} {
			for _, sid := range idx.sequences[line.ID][dir] {
				idx.memberships[sid] = appendMembershipOnce(idx.memberships[sid], transit.Membership{Line: line.ID, Direction: dir})
			}
		}
	}

	return idx, nil
}

func appendMembershipOnce(memberships []transit.Membership, m transit.Membership) []transit.Membership {
	for _, existing := range memberships {
		if existing == m {
			return memberships
		}
	}
	return append(memberships, m)
}

// LinesAt returns the (line, direction) memberships incident to station, in
// the deterministic order they were first added during Build (lines in
// input order, ascending before descending within a line).
func (idx *Index) LinesAt(station transit.StationID) []transit.Membership {
	return idx.memberships[station]
}

// OrderOf returns station's direction-independent order on line.
func (idx *Index) OrderOf(station transit.StationID, line transit.LineID) (int, bool) {
	orders, ok := idx.order[line]
	if !ok {
		return 0, false
	}
	o, ok := orders[station]
	return o, ok
}

// Sequence returns the ordered station list for (line, dir).
func (idx *Index) Sequence(line transit.LineID, dir transit.Direction) []transit.StationID {
	byDir, ok := idx.sequences[line]
	if !ok {
		return nil
	}
	return byDir[dir]
}

// Neighbors returns the predecessor and successor of station on
// (line, dir), with ok=false in place of a missing end (origin/terminus).
func (idx *Index) Neighbors(station transit.StationID, line transit.LineID, dir transit.Direction) (pred, succ transit.StationID, predOK, succOK bool) {
	seq := idx.Sequence(line, dir)
	pos := -1
	for i, s := range seq {
		if s == station {
			pos = i
			break
		}
	}
	if pos == -1 {
		return "", "", false, false
	}
	if pos > 0 {
		pred, predOK = seq[pos-1], true
	}
	if pos < len(seq)-1 {
		succ, succOK = seq[pos+1], true
	}
	return
}

// IsTransfer reports whether station belongs to more than one line.
func (idx *Index) IsTransfer(station transit.StationID) bool {
	lines := make(map[transit.LineID]struct{})
	for _, m := range idx.memberships[station] {
		lines[m.Line] = struct{}{}
	}
	return len(lines) > 1
}

// Station returns the catalog record for station, ok=false if unknown.
func (idx *Index) Station(station transit.StationID) (transit.Station, bool) {
	s, ok := idx.stations[station]
	return s, ok
}

// HasStation reports whether station is present in this index.
func (idx *Index) HasStation(station transit.StationID) bool {
	_, ok := idx.stations[station]
	return ok
}

// DataIntegrityError reports a static-input inconsistency detected at
// index build: a line sequence referencing a station missing from the
// catalog's station list. Fatal at build; spec §7 requires this never be
// raised during a query.
type DataIntegrityError struct {
	Line    transit.LineID
	Station transit.StationID
}

func (e *DataIntegrityError) Error() string {
	return "netidx: data integrity: line " + string(e.Line) + " references unknown station " + string(e.Station)
}
