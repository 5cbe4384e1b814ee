// Package ranker implements spec §4.6: collapsing the final multi-set of
// destination-reaching labels into a total order via the profile-weighted
// penalty defined in internal/mclabel, never via dominance (dominance is
// FrontierStore's job, during the search; Ranker only scores what already
// survived).
//
// Grounded on the original label.py's calculate_weighted_score and the
// ranked_routes/(top_route, top_score) pairing consumed by the original
// test suite.
package ranker

import (
	"sort"

	"github.com/antigravity/transit-mc-router/internal/mclabel"
)

// Ranked pairs a surviving label with its scalarized penalty and its
// reconstructed route.
type Ranked struct {
	Handle  mclabel.Handle
	Label   mclabel.Label
	Route   mclabel.Route
	Penalty float64
	Rank    int
}

// Rank scores every (handle, label) destination-reaching pair under
// weights and returns them sorted ascending by penalty, ties broken by
// (arrival_time, transfers, max_transfer_difficulty) per spec §4.6.
func Rank(arena *mclabel.Arena, idx mclabel.SequenceIndex, handles []mclabel.Handle, weights map[string]float64) []Ranked {
	out := make([]Ranked, len(handles))
	for i, h := range handles {
		lbl := arena.Get(h)
		out[i] = Ranked{
			Handle:  h,
			Label:   lbl,
			Route:   mclabel.Reconstruct(arena, h, idx),
			Penalty: lbl.WeightedPenalty(weights),
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Penalty != b.Penalty {
			return a.Penalty < b.Penalty
		}
		if a.Label.ArrivalTime != b.Label.ArrivalTime {
			return a.Label.ArrivalTime < b.Label.ArrivalTime
		}
		if a.Label.Transfers != b.Label.Transfers {
			return a.Label.Transfers < b.Label.Transfers
		}
		return a.Label.MaxTransferDifficulty < b.Label.MaxTransferDifficulty
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
