package mclabel

import (
	"testing"

	"github.com/antigravity/transit-mc-router/internal/transit"
	"github.com/stretchr/testify/require"
)

func TestDominanceRequiresSameBucket(t *testing.T) {
	a := Label{CurrentStation: "S1", CurrentLine: "L1", Transfers: 0, Depth: 1, ArrivalTime: 5}
	b := Label{CurrentStation: "S2", CurrentLine: "L1", Transfers: 0, Depth: 1, ArrivalTime: 5}
	require.False(t, a.Dominates(b), "different station must never dominate")

	c := Label{CurrentStation: "S1", CurrentLine: "L1", Transfers: 1, Depth: 1, ArrivalTime: 1}
	require.False(t, a.Dominates(c), "different transfer count must never dominate")
}

func TestDominanceSoundnessAndStrictness(t *testing.T) {
	better := Label{CurrentStation: "S1", CurrentLine: "L1", Transfers: 0, Depth: 2, ArrivalTime: 10, ConvenienceSum: 8, CongestionSum: 1.0, MaxTransferDifficulty: 0.2}
	worse := Label{CurrentStation: "S1", CurrentLine: "L1", Transfers: 0, Depth: 2, ArrivalTime: 12, ConvenienceSum: 8, CongestionSum: 1.0, MaxTransferDifficulty: 0.2}

	require.True(t, better.Dominates(worse))
	require.False(t, worse.Dominates(better))

	// Equal on every criterion: neither dominates (no strict improvement).
	twin := better
	require.False(t, better.Dominates(twin))
	require.False(t, twin.Dominates(better))
}

func TestDominanceAntisymmetry(t *testing.T) {
	a := Label{CurrentStation: "S1", CurrentLine: "L1", Transfers: 0, Depth: 1, ArrivalTime: 5, MaxTransferDifficulty: 0.1, ConvenienceSum: 4, CongestionSum: 0.5}
	b := Label{CurrentStation: "S1", CurrentLine: "L1", Transfers: 0, Depth: 1, ArrivalTime: 7, MaxTransferDifficulty: 0.3, ConvenienceSum: 2, CongestionSum: 0.9}
	require.False(t, a.Dominates(b) && b.Dominates(a))
}

func TestWeightedPenaltyDeterministic(t *testing.T) {
	weights := map[string]float64{"travel_time": 0.4, "transfers": 0.1, "transfer_difficulty": 0.2, "convenience": 0.2, "congestion": 0.1}
	l := Label{ArrivalTime: 60, Transfers: 2, MaxTransferDifficulty: 0.3, Depth: 3, ConvenienceSum: 9, CongestionSum: 2.1}

	p1 := l.WeightedPenalty(weights)
	p2 := l.WeightedPenalty(weights)
	require.Equal(t, p1, p2, "same label and weights must yield identical penalty")
	require.Greater(t, p1, 0.0)
}

func TestWeightedPenaltyDefaultsToPointTwo(t *testing.T) {
	l := Label{ArrivalTime: 0, Transfers: 0, Depth: 1, ConvenienceSum: 5, CongestionSum: 0}
	got := l.WeightedPenalty(nil)
	// all norm_* terms are 0 except convenience (1 - 5/5 = 0) too, so penalty is 0.
	require.InDelta(t, 0.0, got, 1e-9)
}

func TestVisitedSetExactContainment(t *testing.T) {
	root := NewVisitedSet("A")
	withB := root.Add("B")
	withC := withB.Add("C")

	require.True(t, withC.Contains("A"))
	require.True(t, withC.Contains("B"))
	require.True(t, withC.Contains("C"))
	require.False(t, withC.Contains("D"))
	// root is untouched by extension (structural sharing, not mutation).
	require.False(t, root.Contains("B"))
}

func TestArenaRideIncrementsDepthAndArrival(t *testing.T) {
	arena := NewArena()
	root := arena.NewRoot("A", "boarding", transit.Ascending, 0)
	child := arena.Ride(root, "B", 5.0, 1.0, 0.2, 1)

	rl := arena.Get(root)
	cl := arena.Get(child)
	require.Equal(t, rl.Depth+1, cl.Depth)
	require.Greater(t, cl.ArrivalTime, rl.ArrivalTime)
	require.True(t, cl.Visited.Contains("A"))
	require.True(t, cl.Visited.Contains("B"))
	require.False(t, cl.IsFirstMove)
}

func TestArenaTransferIncrementsTransfersAndTracksDifficulty(t *testing.T) {
	arena := NewArena()
	root := arena.NewRoot("A", "L1", transit.Ascending, 0)
	ridden := arena.Ride(root, "B", 5, 1, 0.1, 1)
	transferred := arena.Transfer(ridden, "L2", transit.Ascending, 2.0, 0.6, 0, 0, 1)

	rl := arena.Get(ridden)
	tl := arena.Get(transferred)
	require.Equal(t, rl.Transfers+1, tl.Transfers)
	require.Equal(t, 0.6, tl.MaxTransferDifficulty)
	require.NotNil(t, tl.TransferInfo)
	require.Equal(t, transit.StationID("B"), tl.TransferInfo.Station)
	require.True(t, tl.IsFirstMove)
}

func TestTransferCountCoherence(t *testing.T) {
	arena := NewArena()
	root := arena.NewRoot("A", "L1", transit.Ascending, 0)
	h := root
	expectedTransfers := 0
	for i := 0; i < 3; i++ {
		h = arena.Ride(h, transit.StationID("S"), 1, 0, 0, 1)
		h = arena.Transfer(h, "L2", transit.Ascending, 1, 0.1, 0, 0, 1)
		expectedTransfers++
	}
	final := arena.Get(h)
	require.Equal(t, expectedTransfers, final.Transfers)

	// Walk the chain and recount ancestors with TransferInfo present.
	count := 0
	for cur := h; cur != NoParent; cur = arena.Get(cur).Parent {
		if arena.Get(cur).TransferInfo != nil {
			count++
		}
	}
	require.Equal(t, expectedTransfers, count)
}

func TestReconstructExpandsIntermediateStations(t *testing.T) {
	arena := NewArena()
	root := arena.NewRoot("S0", "L1", transit.Ascending, 0)
	leaf := arena.Ride(root, "S3", 9, 0, 0, 1)

	idx := fakeIndex{
		order: map[transit.LineID]map[transit.StationID]int{
			"L1": {"S0": 0, "S1": 1, "S2": 2, "S3": 3},
		},
		ascending: map[transit.LineID][]transit.StationID{
			"L1": {"S0", "S1", "S2", "S3"},
		},
	}

	route := Reconstruct(arena, leaf, idx)
	require.Equal(t, []transit.StationID{"S0", "S1", "S2", "S3"}, route.Stations)
	require.Len(t, route.Lines, len(route.Stations))
}

func TestReconstructExpandsIntermediateStationsDescending(t *testing.T) {
	arena := NewArena()
	root := arena.NewRoot("S3", "L1", transit.Descending, 0)
	leaf := arena.Ride(root, "S0", 9, 0, 0, 1)

	idx := fakeIndex{
		order: map[transit.LineID]map[transit.StationID]int{
			"L1": {"S0": 0, "S1": 1, "S2": 2, "S3": 3},
		},
		ascending: map[transit.LineID][]transit.StationID{
			"L1": {"S0", "S1", "S2", "S3"},
		},
	}

	route := Reconstruct(arena, leaf, idx)
	require.Equal(t, []transit.StationID{"S3", "S2", "S1", "S0"}, route.Stations,
		"a descending ride must exclude its starting station and end at the destination, not the reverse")
}

func TestReconstructTransferEmitsStationOnce(t *testing.T) {
	arena := NewArena()
	root := arena.NewRoot("A", "L1", transit.Ascending, 0)
	transferred := arena.Transfer(root, "L2", transit.Ascending, 2, 0.5, 0, 0, 0)

	route := Reconstruct(arena, transferred, fakeIndex{})
	require.Equal(t, []transit.StationID{"A"}, route.Stations, "same-station transfer must not duplicate the station")
	require.Len(t, route.Transfers, 1)
}

type fakeIndex struct {
	order     map[transit.LineID]map[transit.StationID]int
	ascending map[transit.LineID][]transit.StationID
}

func (f fakeIndex) OrderOf(station transit.StationID, line transit.LineID) (int, bool) {
	m, ok := f.order[line]
	if !ok {
		return 0, false
	}
	o, ok := m[station]
	return o, ok
}

func (f fakeIndex) Sequence(line transit.LineID, dir transit.Direction) []transit.StationID {
	seq := f.ascending[line]
	if dir == transit.Ascending {
		return seq
	}
	out := make([]transit.StationID, len(seq))
	for i, s := range seq {
		out[len(seq)-1-i] = s
	}
	return out
}
