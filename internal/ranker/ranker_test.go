package ranker

import (
	"testing"

	"github.com/antigravity/transit-mc-router/internal/mclabel"
	"github.com/antigravity/transit-mc-router/internal/transit"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct{}

func (fakeIndex) OrderOf(transit.StationID, transit.LineID) (int, bool) { return 0, false }
func (fakeIndex) Sequence(transit.LineID, transit.Direction) []transit.StationID {
	return nil
}

func TestRankOrdersByAscendingPenalty(t *testing.T) {
	arena := mclabel.NewArena()
	weights := map[string]float64{
		"travel_time": 1, "transfers": 0, "transfer_difficulty": 0, "convenience": 0, "congestion": 0,
	}

	slow := arena.NewRoot("A", "L1", transit.Ascending, 0)
	arena.Get(slow) // sanity no-op
	slowExtended := arena.Ride(slow, "B", 60, 0, 0, 0)
	fast := arena.Ride(arena.NewRoot("A", "L1", transit.Ascending, 0), "B", 10, 0, 0, 0)

	ranked := Rank(arena, fakeIndex{}, []mclabel.Handle{slowExtended, fast}, weights)
	require.Len(t, ranked, 2)
	require.Equal(t, fast, ranked[0].Handle, "the faster label must rank first under a travel_time-only weighting")
	require.Equal(t, 1, ranked[0].Rank)
	require.Equal(t, 2, ranked[1].Rank)
	require.Less(t, ranked[0].Penalty, ranked[1].Penalty)
}

func TestRankTieBreaksByArrivalThenTransfersThenDifficulty(t *testing.T) {
	arena := mclabel.NewArena()
	// Equal weights make the two labels below score identically if all
	// five normalized terms are equal; differentiate on transfers only.
	weights := map[string]float64{
		"travel_time": 0, "transfers": 0, "transfer_difficulty": 0, "convenience": 0, "congestion": 0,
	}

	root := arena.NewRoot("A", "L1", transit.Ascending, 0)
	noTransfer := arena.Ride(root, "B", 10, 0, 0, 0)
	withTransfer := arena.Transfer(root, "L2", transit.Ascending, 10, 0, 0, 0, 0)

	ranked := Rank(arena, fakeIndex{}, []mclabel.Handle{withTransfer, noTransfer}, weights)
	require.Equal(t, noTransfer, ranked[0].Handle, "fewer transfers must win the tie-break when penalties are equal")
}

func TestRankIncludesReconstructedRoute(t *testing.T) {
	arena := mclabel.NewArena()
	root := arena.NewRoot("A", "L1", transit.Ascending, 0)
	leaf := arena.Ride(root, "B", 5, 0, 0, 0)

	ranked := Rank(arena, fakeIndex{}, []mclabel.Handle{leaf}, nil)
	require.Len(t, ranked, 1)
	require.NotEmpty(t, ranked[0].Route.Stations)
	require.Equal(t, transit.StationID("A"), ranked[0].Route.Stations[0])
}
