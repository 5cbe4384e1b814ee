package roundengine

import (
	"context"
	"testing"
	"time"

	"github.com/antigravity/transit-mc-router/internal/costmodel"
	"github.com/antigravity/transit-mc-router/internal/frontier"
	"github.com/antigravity/transit-mc-router/internal/mclabel"
	"github.com/antigravity/transit-mc-router/internal/netidx"
	"github.com/antigravity/transit-mc-router/internal/transit"
	"github.com/stretchr/testify/require"
)

// buildStubNetwork assembles a small two-line network crossing at a single
// transfer station, loosely modeled on the station codes exercised by the
// original acceptance fixtures (a short PHY-profile trunk line crossing a
// second line at one transfer point). It is deliberately small: these tests
// exercise the round loop's bookkeeping, not network scale.
//
//	L1 (ascending): 2534 -> 2600 -> 2739 -> 2800
//	L2 (ascending): 0159 -> 2739 -> 2637
//
// 2739 is the only transfer station, serving both L1 and L2.
func buildStubNetwork(t *testing.T) (*netidx.Index, *costmodel.Model) {
	t.Helper()

	stations := []transit.Station{
		{ID: "2534", Name: "Origin"},
		{ID: "2600", Name: "Mid"},
		{ID: "2739", Name: "Transfer"},
		{ID: "2800", Name: "L1 Terminus"},
		{ID: "0159", Name: "L2 Origin"},
		{ID: "2637", Name: "L2 Terminus"},
	}
	lines := []transit.Line{
		{ID: "L1", Ascending: []transit.StationID{"2534", "2600", "2739", "2800"}},
		{ID: "L2", Ascending: []transit.StationID{"0159", "2739", "2637"}},
	}

	idx, err := netidx.Build(stations, lines)
	require.NoError(t, err)

	sections := []transit.Section{
		{Line: "L1", Direction: transit.Ascending, FromOrder: 0, ToOrder: 1, BaseDurationMin: 5, PeakMultiplier: 1.2},
		{Line: "L1", Direction: transit.Ascending, FromOrder: 1, ToOrder: 2, BaseDurationMin: 4, PeakMultiplier: 1.2},
		{Line: "L1", Direction: transit.Ascending, FromOrder: 2, ToOrder: 3, BaseDurationMin: 6, PeakMultiplier: 1.2},
		{Line: "L2", Direction: transit.Ascending, FromOrder: 0, ToOrder: 1, BaseDurationMin: 7, PeakMultiplier: 1.1},
		{Line: "L2", Direction: transit.Ascending, FromOrder: 1, ToOrder: 2, BaseDurationMin: 3, PeakMultiplier: 1.1},
	}
	scores := []transit.ConvenienceScore{
		{Station: "2600", Profile: transit.ProfilePhysical, Score: 3},
		{Station: "2739", Profile: transit.ProfilePhysical, Score: 4},
		{Station: "2800", Profile: transit.ProfilePhysical, Score: 2},
		{Station: "2637", Profile: transit.ProfilePhysical, Score: 5},
	}
	cost := costmodel.New(sections, scores)

	return idx, cost
}

func newStubEngine(t *testing.T) *Engine {
	t.Helper()
	idx, cost := buildStubNetwork(t)
	e := New(idx, cost, transit.ProfilePhysical, 0, nil, 0)
	e.TransferEdges[TransferEdgeKey{Station: "2739", From: "L1", To: "L2", Profile: transit.ProfilePhysical}] = transit.TransferEdge{
		Station: "2739", FromLine: "L1", ToLine: "L2",
		WalkMinutes: 2, Difficulty: 0.3, ConvenienceDelta: -0.5, CongestionDelta: 0.1,
	}
	e.TransferEdges[TransferEdgeKey{Station: "2739", From: "L2", To: "L1", Profile: transit.ProfilePhysical}] = transit.TransferEdge{
		Station: "2739", FromLine: "L2", ToLine: "L1",
		WalkMinutes: 2, Difficulty: 0.3, ConvenienceDelta: -0.5, CongestionDelta: 0.1,
	}
	return e
}

// S1: a same-line query (origin and destination both on L1) should reach the
// destination within a single round, with zero transfers.
func TestScenarioSameLineReachesInRoundOne(t *testing.T) {
	e := newStubEngine(t)
	res := e.Run(context.Background(), "2534", 0, 3)
	require.False(t, res.Partial)

	round1 := res.Stores[1]
	found := false
	for _, key := range round1.Keys() {
		if key.Station != "2739" {
			continue
		}
		for _, lbl := range round1.Labels(key) {
			if lbl.Transfers == 0 {
				found = true
			}
		}
	}
	require.True(t, found, "2739 must be reachable from 2534 on L1 with zero transfers in round 1")
}

// S2: a cross-line query (origin on L1, destination only reachable via L2)
// requires boarding at the transfer station in Phase B, so it should not
// appear until round 2 (Phase A reaches 2739 in round 1; Phase B boards L2
// on the same round, but riding on to 2637 needs a further Phase A pass).
func TestScenarioCrossLineRequiresTransferRound(t *testing.T) {
	e := newStubEngine(t)
	res := e.Run(context.Background(), "2534", 0, 3)
	require.False(t, res.Partial)

	require.GreaterOrEqual(t, len(res.Stores), 3, "reaching 2637 needs at least two rounds")

	reachedWithTransfer := false
	for k := 1; k < len(res.Stores); k++ {
		for _, key := range res.Stores[k].Keys() {
			if key.Station != "2637" {
				continue
			}
			for _, lbl := range res.Stores[k].Labels(key) {
				if lbl.Transfers >= 1 {
					reachedWithTransfer = true
				}
			}
		}
	}
	require.True(t, reachedWithTransfer, "2637 is only reachable from 2534 via a transfer at 2739")
}

// Property 4 (spec §8): arrival time is monotone nondecreasing along any
// reconstructed route — every Ride or Transfer step can only add nonnegative
// duration.
func TestPropertyMonotoneArrival(t *testing.T) {
	e := newStubEngine(t)
	res := e.Run(context.Background(), "2534", 0, 3)

	for _, store := range res.Stores {
		for _, key := range store.Keys() {
			for _, handle := range store.Bucket(key) {
				route := walkArrivalTimes(e.Arena, handle)
				for i := 1; i < len(route); i++ {
					require.GreaterOrEqual(t, route[i], route[i-1], "arrival time must not decrease along the parent chain")
				}
			}
		}
	}
}

func walkArrivalTimes(arena *mclabel.Arena, leaf mclabel.Handle) []float64 {
	var times []float64
	for cur := leaf; cur != mclabel.NoParent; {
		lbl := arena.Get(cur)
		times = append(times, lbl.ArrivalTime)
		cur = lbl.Parent
	}
	for i, j := 0, len(times)-1; i < j; i, j = i+1, j-1 {
		times[i], times[j] = times[j], times[i]
	}
	return times
}

// Property 5 (spec §8): no reconstructed route revisits a station — the
// persistent VisitedSet must forbid U-turns within a single Ride sweep, and
// reconstruction must not produce duplicate stations.
func TestPropertyNoUTurn(t *testing.T) {
	e := newStubEngine(t)
	res := e.Run(context.Background(), "2534", 0, 3)

	last := res.Stores[len(res.Stores)-1]
	for _, key := range last.Keys() {
		for _, handle := range last.Bucket(key) {
			route := mclabel.Reconstruct(e.Arena, handle, e.Index)
			seen := make(map[transit.StationID]bool)
			for _, s := range route.Stations {
				require.False(t, seen[s], "station %s repeated in reconstructed route", s)
				seen[s] = true
			}
		}
	}
}

// Property 6 (spec §8): transfer count on a label equals the number of
// TransferInfo entries recorded along its reconstructed parent chain.
func TestPropertyTransferCountCoherence(t *testing.T) {
	e := newStubEngine(t)
	res := e.Run(context.Background(), "2534", 0, 3)

	last := res.Stores[len(res.Stores)-1]
	for _, key := range last.Keys() {
		for i, handle := range last.Bucket(key) {
			lbl := last.Labels(key)[i]
			route := mclabel.Reconstruct(e.Arena, handle, e.Index)
			require.Equal(t, lbl.Transfers, len(route.Transfers))
		}
	}
}

// Property 7 (spec §8): reconstruction is complete — the route always
// starts at the query origin and ends at the label's current station.
func TestPropertyReconstructionCompleteness(t *testing.T) {
	e := newStubEngine(t)
	res := e.Run(context.Background(), "2534", 0, 3)

	last := res.Stores[len(res.Stores)-1]
	for _, key := range last.Keys() {
		for i, handle := range last.Bucket(key) {
			lbl := last.Labels(key)[i]
			route := mclabel.Reconstruct(e.Arena, handle, e.Index)
			require.NotEmpty(t, route.Stations)
			require.Equal(t, transit.StationID("2534"), route.Stations[0])
			require.Equal(t, lbl.CurrentStation, route.Stations[len(route.Stations)-1])
		}
	}
}

// A larger round budget must never shrink the set of stations reached: every
// station marked within k rounds remains reachable within k+1 rounds.
func TestRoundBudgetMonotonicity(t *testing.T) {
	e2 := newStubEngine(t)
	res2 := e2.Run(context.Background(), "2534", 0, 2)

	e3 := newStubEngine(t)
	res3 := e3.Run(context.Background(), "2534", 0, 3)

	reachedIn := func(res Result) map[transit.StationID]bool {
		out := make(map[transit.StationID]bool)
		for _, store := range res.Stores {
			for _, key := range store.Keys() {
				out[transit.StationID(key.Station)] = true
			}
		}
		return out
	}

	two := reachedIn(res2)
	three := reachedIn(res3)
	for s := range two {
		require.True(t, three[s], "station %s reached within 2 rounds must remain reached within 3", s)
	}
}

// No two labels surviving in the same bucket may dominate each other — the
// FrontierStore invariant must hold after a full multi-round run, not just
// in isolated Insert calls.
func TestFrontierInvariantHoldsAfterFullRun(t *testing.T) {
	e := newStubEngine(t)
	res := e.Run(context.Background(), "2534", 0, 3)

	for _, store := range res.Stores {
		for _, key := range store.Keys() {
			labels := store.Labels(key)
			require.True(t, nonDominatedSet(labels), "bucket %+v has a dominated survivor", key)
		}
	}
}

func nonDominatedSet(labels []mclabel.Label) bool {
	for i := range labels {
		for j := range labels {
			if i == j {
				continue
			}
			if labels[i].Dominates(labels[j]) {
				return false
			}
		}
	}
	return true
}

// A context already past its deadline must stop the search at the next
// round boundary and report Partial, rather than abort mid-round with an
// error (spec §5 Cancellation).
func TestRunHonorsContextDeadline(t *testing.T) {
	e := newStubEngine(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	res := e.Run(ctx, "2534", 0, 5)
	require.True(t, res.Partial)
	require.LessOrEqual(t, len(res.Stores), 1, "a deadline already past at round 1 must stop before extending any round")
}

// Phase A must never board a label back onto the line it is already riding
// unless this is its very first move (spec §4.4 Phase A boarding rule): a
// fresh root label (is_first_move=true) may reboard its own line, but a
// label that has already ridden a hop on that line may not.
func TestBoardableLinesSkipsCurrentLineUnlessFirstMove(t *testing.T) {
	e := newStubEngine(t)

	store := frontier.NewStore(0, nil, 0)
	root := e.Arena.NewRoot("2739", "L1", transit.Ascending, 0)
	store.Insert(root, e.Arena.Get(root))
	// addConvenience/addCongestion differ from root's so the two labels are
	// mutually non-dominated and both survive the same bucket.
	ridden := e.Arena.Ride(root, "2739", 0, 1.0, 1.0, 0) // same station, but no longer first_move
	store.Insert(ridden, e.Arena.Get(ridden))

	marked := map[transit.StationID]bool{"2739": true}
	out := e.boardableLines(marked, store)

	sawFirstMoveReboardL1 := false
	for _, b := range out {
		parentLabel := e.Arena.Get(b.parent)
		if parentLabel.CurrentLine == b.line {
			require.True(t, parentLabel.IsFirstMove, "reboarding the current line is only valid on the first move")
			sawFirstMoveReboardL1 = true
		}
	}
	require.True(t, sawFirstMoveReboardL1, "the root label's first-move exemption should still permit boarding L1")

	for _, b := range out {
		if b.parent == ridden && b.line == "L1" {
			t.Fatalf("a non-first-move label must not reboard its own current line")
		}
	}
}

// Run's departAbsMinute must actually reach costmodel.RideCongestion's
// peak-window check: the same ride taken at an off-peak departure instant
// and a peak one must accumulate different congestion, per spec §4.3's
// "ride_congestion is a function of departure instant".
func TestDepartureInstantAffectsRideCongestion(t *testing.T) {
	offPeak := newStubEngine(t)
	offPeakRes := offPeak.Run(context.Background(), "2534", 2*60, 1) // 02:00

	peak := newStubEngine(t)
	peakRes := peak.Run(context.Background(), "2534", 8*60, 1) // 08:00, within the morning peak window

	congestionAt := func(e *Engine, res Result, station transit.StationID) float64 {
		for _, store := range res.Stores {
			for _, key := range store.Keys() {
				if key.Station != string(station) {
					continue
				}
				for _, lbl := range store.Labels(key) {
					if lbl.Transfers == 0 {
						return lbl.CongestionSum
					}
				}
			}
		}
		t.Fatalf("no zero-transfer label found at %s", station)
		return 0
	}

	offPeakCongestion := congestionAt(offPeak, offPeakRes, "2739")
	peakCongestion := congestionAt(peak, peakRes, "2739")
	require.NotEqual(t, offPeakCongestion, peakCongestion, "a peak-hour departure must accumulate different congestion than an off-peak one")
	require.Greater(t, peakCongestion, offPeakCongestion, "the stub network's peak multiplier is > 1")
}
