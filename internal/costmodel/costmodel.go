// Package costmodel implements the pure, side-effect-free oracle functions
// spec §4.3 requires of the RoundEngine: segment duration, transfer cost,
// ride congestion, and ride convenience. Every function is deterministic —
// same inputs yield the same outputs, independent of path history — which
// is what makes the engine's output reproducible in tests.
//
// Constants here generalize the teacher's loader.go placeholder (a flat
// "180 seconds per hop") into a per-segment base duration plus a
// time-of-day congestion multiplier, so the search actually responds to
// departure instant the way spec §4.3 requires.
package costmodel

import "github.com/antigravity/transit-mc-router/internal/transit"

// Model evaluates segment/transfer costs over a static Section table and
// per-station convenience scores. It holds no query-specific state and may
// be shared, read-only, across concurrent queries (spec §5).
type Model struct {
	sections    map[sectionKey]transit.Section
	convenience map[convenienceKey]float64
}

type sectionKey struct {
	line      transit.LineID
	dir       transit.Direction
	fromOrder int
	toOrder   int
}

type convenienceKey struct {
	station transit.StationID
	profile transit.Profile
}

// New builds a Model from the catalog's sections and convenience scores.
func New(sections []transit.Section, scores []transit.ConvenienceScore) *Model {
	m := &Model{
		sections:    make(map[sectionKey]transit.Section, len(sections)),
		convenience: make(map[convenienceKey]float64, len(scores)),
	}
	for _, s := range sections {
		m.sections[sectionKey{s.Line, s.Direction, s.FromOrder, s.ToOrder}] = s
	}
	for _, c := range scores {
		m.convenience[convenienceKey{c.Station, c.Profile}] = c.Score
	}
	return m
}

// morningPeak*/eveningPeak* are minutes-since-midnight bounds of the congestion
// peak window (07:00-09:30 and 17:30-19:30), applied to departAbsMinute.
const (
	morningPeakStart = 7 * 60
	morningPeakEnd   = 9*60 + 30
	eveningPeakStart = 17*60 + 30
	eveningPeakEnd   = 19*60 + 30
)

func isPeak(departAbsMinute int) bool {
	m := departAbsMinute % (24 * 60)
	return (m >= morningPeakStart && m <= morningPeakEnd) || (m >= eveningPeakStart && m <= eveningPeakEnd)
}

// SegmentDuration returns the ride time in minutes from fromOrder to
// toOrder on (line, dir). It sums each adjacent section's base duration, so
// it is monotone nondecreasing in the number of hops covered and does not
// depend on anything but the section table and the endpoints — the
// "independent of path history" requirement of spec §4.3.
func (m *Model) SegmentDuration(line transit.LineID, dir transit.Direction, fromOrder, toOrder int, departAbsMinute int) (float64, bool) {
	lo, hi := fromOrder, toOrder
	if lo > hi {
		lo, hi = hi, lo
	}
	var total float64
	for o := lo; o < hi; o++ {
		sec, ok := m.sections[sectionKey{line, dir, o, o + 1}]
		if !ok {
			return 0, false
		}
		total += sec.BaseDurationMin
	}
	return total, true
}

// RideCongestion returns the accumulated congestion contribution for the
// same span SegmentDuration covers, scaled up during peak windows.
func (m *Model) RideCongestion(line transit.LineID, dir transit.Direction, fromOrder, toOrder int, departAbsMinute int) (float64, bool) {
	lo, hi := fromOrder, toOrder
	if lo > hi {
		lo, hi = hi, lo
	}
	peak := isPeak(departAbsMinute)
	var total float64
	for o := lo; o < hi; o++ {
		sec, ok := m.sections[sectionKey{line, dir, o, o + 1}]
		if !ok {
			return 0, false
		}
		base := 0.4 // baseline off-peak per-hop congestion contribution
		if peak {
			mult := sec.PeakMultiplier
			if mult == 0 {
				mult = 1.5
			}
			base *= mult
		}
		total += base
	}
	return total, true
}

// RideConvenience returns the accumulated convenience contribution for the
// span, from the destination-leaning station's per-profile score (a ride's
// convenience is driven by the stations it passes through, weighted toward
// the alighting end since that is what a rider experiences on arrival).
func (m *Model) RideConvenience(line transit.LineID, dir transit.Direction, fromOrder, toOrder int, profile transit.Profile, stationAtOrder func(int) (transit.StationID, bool)) float64 {
	lo, hi := fromOrder, toOrder
	if lo > hi {
		lo, hi = hi, lo
	}
	var total float64
	for o := lo + 1; o <= hi; o++ {
		sid, ok := stationAtOrder(o)
		if !ok {
			continue
		}
		total += m.convenience[convenienceKey{sid, profile}]
	}
	return total
}

// Transfer returns the walk duration, normalized difficulty, and
// convenience/congestion deltas for one transfer edge under profile.
func (m *Model) Transfer(edge transit.TransferEdge) (walkMinutes, difficulty, convenienceDelta, congestionDelta float64) {
	return edge.WalkMinutes, edge.Difficulty, edge.ConvenienceDelta, edge.CongestionDelta
}
