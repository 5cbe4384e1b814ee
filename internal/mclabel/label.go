// Package mclabel implements the label algebra described in spec §4.1: an
// immutable-after-construction record of a partial or complete journey, its
// dominance and ε-similarity relations, its normalized cost vector and
// weighted penalty, and parent-pointer route reconstruction.
//
// Labels are never allocated individually on the heap as free-standing
// pointers; they live in an Arena (arena.go) and are referenced by integer
// Handle, per the parent-pointer-tree design note in spec §9.
package mclabel

import "github.com/antigravity/transit-mc-router/internal/transit"

// Handle is an arena-relative label reference. NoParent marks a root label.
type Handle int32

const NoParent Handle = -1

// TransferInfo records a single cross-line transfer step.
type TransferInfo struct {
	Station  transit.StationID
	FromLine transit.LineID
	ToLine   transit.LineID
}

// VisitedSet is a persistent (structurally shared) set of station ids used
// to forbid U-turns. Extending it is O(1); membership is exact and costs
// O(depth), one step per station added along the parent chain.
// A bloom filter is deliberately not used here: spec §9 requires exact-set
// containment, and false positives in a bloom filter would silently prune
// valid journeys.
type VisitedSet struct {
	station transit.StationID
	parent  *VisitedSet
}

// NewVisitedSet returns a singleton set containing only station.
func NewVisitedSet(station transit.StationID) *VisitedSet {
	return &VisitedSet{station: station}
}

// Add returns a new set containing station and everything in v, without
// mutating v.
func (v *VisitedSet) Add(station transit.StationID) *VisitedSet {
	return &VisitedSet{station: station, parent: v}
}

// Contains reports exact membership.
func (v *VisitedSet) Contains(station transit.StationID) bool {
	for cur := v; cur != nil; cur = cur.parent {
		if cur.station == station {
			return true
		}
	}
	return false
}

// Label is a partial or complete journey up to some station on some line.
// See spec §3 for the field-by-field contract.
type Label struct {
	ArrivalTime           float64
	Transfers             int
	ConvenienceSum        float64
	CongestionSum         float64
	MaxTransferDifficulty float64
	Depth                 int
	CurrentStation        transit.StationID
	CurrentLine           transit.LineID
	CurrentDirection      transit.Direction
	Parent                Handle
	Visited               *VisitedSet
	TransferInfo          *TransferInfo
	IsFirstMove           bool
	CreatedRound          int
}

// MeanConvenience is the per-visit average convenience, spec §3's
// "per-visit mean ... derived from depth".
func (l Label) MeanConvenience() float64 {
	return l.ConvenienceSum / float64(l.Depth)
}

// MeanCongestion is the per-visit average congestion.
func (l Label) MeanCongestion() float64 {
	return l.CongestionSum / float64(l.Depth)
}

// BucketKey returns the FrontierStore bucket this label belongs in.
func (l Label) BucketKey() (transit.StationID, transit.LineID, int) {
	return l.CurrentStation, l.CurrentLine, l.Transfers
}
