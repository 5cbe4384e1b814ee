// Package weights declares the Weights oracle spec §6 requires: per
// rider-profile criterion weights consumed by mclabel's weighted penalty
// and epsilon-similarity distance. The oracle is deliberately external to
// the search core — RoundEngine and Ranker only ever see a resolved
// map[string]float64, never the ANP machinery that produced it.
package weights

import "github.com/antigravity/transit-mc-router/internal/transit"

// Criteria lists the five recognized weight keys, in the fixed order spec
// §6 names them.
var Criteria = [5]string{"travel_time", "transfers", "transfer_difficulty", "convenience", "congestion"}

// Table resolves a rider profile to its criterion weights. Missing entries
// default to 0.2 wherever mclabel consumes the result, per spec §6.
type Table interface {
	WeightsFor(profile transit.Profile) map[string]float64
}

// Static is a Table backed by a fixed, precomputed map — used in tests and
// as a fallback when no ANP solver is configured.
type Static map[transit.Profile]map[string]float64

// WeightsFor implements Table.
func (s Static) WeightsFor(profile transit.Profile) map[string]float64 {
	return s[profile]
}
