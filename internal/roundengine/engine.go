// Package roundengine implements the RAPTOR-style outer loop of spec §4.4:
// round k extends round (k-1)'s frontier by riding each reachable line from
// its boarding points (Phase A), then performing cross-line transfers at
// the stations reached (Phase B).
//
// Grounded on the teacher's routing.Raptor.FindRoute (rounds[k]/markedStops
// bookkeeping, "Process Routes" then "Process Transfers"), generalized
// from a single earliest-arrival scalar per stop to five-criterion label
// buckets held in a frontier.Store.
package roundengine

import (
	"context"
	"sort"

	"github.com/antigravity/transit-mc-router/internal/costmodel"
	"github.com/antigravity/transit-mc-router/internal/frontier"
	"github.com/antigravity/transit-mc-router/internal/mclabel"
	"github.com/antigravity/transit-mc-router/internal/netidx"
	"github.com/antigravity/transit-mc-router/internal/transit"
)

// BoardingLine is the synthetic line name root labels are minted on, per
// spec §4.4.
const BoardingLine transit.LineID = "__boarding__"

// Diagnostic records a data-integrity condition encountered mid-search —
// a missing order index or section — without aborting the query. Spec §7:
// "reported once per unique offender ... falls back to terminating that
// exploration branch; the overall search does not abort."
type Diagnostic struct {
	Line    transit.LineID
	Station transit.StationID
	Detail  string
}

// TransferEdgeKey addresses one profile-specific transfer edge.
type TransferEdgeKey struct {
	Station transit.StationID
	From    transit.LineID
	To      transit.LineID
	Profile transit.Profile
}

// Engine runs one query's round-based search. It is not safe for concurrent
// use by multiple goroutines (spec §5: single-threaded cooperative within
// one query); NetworkIndex and CostModel underneath it may be shared.
type Engine struct {
	Index   *netidx.Index
	Cost    *costmodel.Model
	Arena   *mclabel.Arena
	Profile transit.Profile

	// TransferEdges is the catalog-sourced transfer table, profile-scoped;
	// populated by the caller (internal/query) before Run.
	TransferEdges map[TransferEdgeKey]transit.TransferEdge

	Epsilon       float64
	Weights       map[string]float64
	MaxBucketSize int

	diagnosticsSeen map[Diagnostic]bool
	Diagnostics     []Diagnostic
}

// New constructs an Engine ready to run one query.
func New(idx *netidx.Index, cost *costmodel.Model, profile transit.Profile, epsilon float64, weights map[string]float64, maxBucketSize int) *Engine {
	return &Engine{
		Index:           idx,
		Cost:            cost,
		Arena:           mclabel.NewArena(),
		Profile:         profile,
		TransferEdges:   make(map[TransferEdgeKey]transit.TransferEdge),
		Epsilon:         epsilon,
		Weights:         weights,
		MaxBucketSize:   maxBucketSize,
		diagnosticsSeen: make(map[Diagnostic]bool),
	}
}

// Result is what Run hands back: the stores for every round actually run,
// and whether the caller's deadline cut the search short.
type Result struct {
	Stores  []*frontier.Store // index k = round k's store
	Partial bool
}

func (e *Engine) recordDiagnostic(d Diagnostic) {
	if e.diagnosticsSeen[d] {
		return
	}
	e.diagnosticsSeen[d] = true
	e.Diagnostics = append(e.Diagnostics, d)
}

// Run executes the round loop starting from origin up to maxRounds,
// honoring ctx's deadline at each round boundary (spec §5 Cancellation).
// departAbsMinute is the query's departure instant, minutes since
// midnight; it is carried forward by each label's elapsed ArrivalTime to
// give every ride its own absolute clock minute, so ride_congestion is
// actually "a function of departure instant" per spec §4.3/§4.4.
func (e *Engine) Run(ctx context.Context, origin transit.StationID, departAbsMinute, maxRounds int) Result {
	stores := make([]*frontier.Store, maxRounds+1)
	stores[0] = frontier.NewStore(e.Epsilon, e.Weights, e.MaxBucketSize)

	root := e.Arena.NewRoot(origin, BoardingLine, transit.Ascending, 0)
	stores[0].Insert(root, e.Arena.Get(root))

	marked := map[transit.StationID]bool{origin: true}

	lastRound := 0
	partial := false

	for k := 1; k <= maxRounds; k++ {
		select {
		case <-ctx.Done():
			partial = true
			lastRound = k - 1
			goto done
		default:
		}

		prevStore := stores[k-1]
		store := frontier.NewStore(e.Epsilon, e.Weights, e.MaxBucketSize)
		stores[k] = store

		phaseAReached := e.phaseA(marked, prevStore, store, k, departAbsMinute)
		phaseBReached := e.phaseB(phaseAReached, store, k)

		nextMarked := make(map[transit.StationID]bool, len(phaseAReached)+len(phaseBReached))
		for s := range phaseAReached {
			nextMarked[s] = true
		}
		for s := range phaseBReached {
			nextMarked[s] = true
		}
		marked = nextMarked
		lastRound = k

		if len(marked) == 0 {
			break
		}
	}

done:
	return Result{Stores: stores[:lastRound+1], Partial: partial}
}

// boardable is one eligible (station, line, direction, parent label) a
// round may ride from: a specific marked station, a pattern it belongs to,
// and the specific F_{k-1} label it extends.
//
// Every eligible label at every marked station is extended independently
// (not reduced to a single "earliest boarding point" representative the
// way single-criterion RAPTOR does): with five coexisting criteria, two
// labels at the same bucket are mutually non-dominated and may lead to
// different Pareto-optimal continuations, so collapsing them to one
// representative before scanning would silently drop frontier members.
// This is the one place this package's Phase A diverges from the
// teacher's FindRoute, which is only correct because it scalarizes to a
// single earliest-arrival criterion.
type boardable struct {
	line         transit.LineID
	dir          transit.Direction
	boardStation transit.StationID
	parent       mclabel.Handle
}

// boardableLines finds, for every marked station and every (line,direction)
// it participates in, every same-bucket parent label eligible to board —
// skipping lines a label is already riding unless this is its first move
// (spec §4.4 Phase A: "current line differs from this line (or whose
// is_first_move is true)").
func (e *Engine) boardableLines(marked map[transit.StationID]bool, prevStore *frontier.Store) []boardable {
	keysByStation := make(map[transit.StationID][]frontier.BucketKey)
	for _, key := range prevStore.Keys() {
		st := transit.StationID(key.Station)
		keysByStation[st] = append(keysByStation[st], key)
	}

	var out []boardable
	for _, station := range sortedStations(marked) {
		memberships := e.Index.LinesAt(station)
		for _, key := range keysByStation[station] {
			handles := prevStore.Bucket(key)
			labels := prevStore.Labels(key)
			for i, lbl := range labels {
				for _, m := range memberships {
					if lbl.CurrentLine == m.Line && !lbl.IsFirstMove {
						continue
					}
					out = append(out, boardable{line: m.Line, dir: m.Direction, boardStation: station, parent: handles[i]})
				}
			}
		}
	}
	return out
}

// phaseA rides every reachable line from each marked station's boarding
// points and returns the set of stations newly reached this round.
// departAbsMinute is the query's departure instant; each ride's own
// absolute clock minute is departAbsMinute plus the boarding label's
// elapsed ArrivalTime so far.
func (e *Engine) phaseA(marked map[transit.StationID]bool, prevStore, store *frontier.Store, round int, departAbsMinute int) map[transit.StationID]bool {
	reached := make(map[transit.StationID]bool)

	for _, b := range e.boardableLines(marked, prevStore) {
		seq := e.Index.Sequence(b.line, b.dir)
		startPos := indexOf(seq, b.boardStation)
		if startPos == -1 {
			continue
		}

		currentHandle := b.parent
		currentLabel := e.Arena.Get(currentHandle)

		for pos := startPos + 1; pos < len(seq); pos++ {
			t := seq[pos]
			if currentLabel.Visited.Contains(t) {
				continue // U-turn block
			}

			fromOrder, okFrom := e.Index.OrderOf(currentLabel.CurrentStation, b.line)
			toOrder, okTo := e.Index.OrderOf(t, b.line)
			if !okFrom || !okTo {
				e.recordDiagnostic(Diagnostic{Line: b.line, Station: t, Detail: "missing order index"})
				break
			}

			rideClock := departAbsMinute + int(currentLabel.ArrivalTime)

			duration, ok := e.Cost.SegmentDuration(b.line, b.dir, fromOrder, toOrder, rideClock)
			if !ok {
				e.recordDiagnostic(Diagnostic{Line: b.line, Station: t, Detail: "missing section"})
				break
			}
			congestion, _ := e.Cost.RideCongestion(b.line, b.dir, fromOrder, toOrder, rideClock)
			ascSeq := e.Index.Sequence(b.line, transit.Ascending)
			convenience := e.Cost.RideConvenience(b.line, b.dir, fromOrder, toOrder, e.Profile, func(o int) (transit.StationID, bool) {
				if o < 0 || o >= len(ascSeq) {
					return "", false
				}
				return ascSeq[o], true
			})

			child := e.Arena.Ride(currentHandle, t, duration, convenience, congestion, round)
			candidate := e.Arena.Get(child)

			if store.Insert(child, candidate).Admitted {
				reached[t] = true
			}

			currentHandle = child
			currentLabel = candidate
		}
	}

	return reached
}

// phaseB performs cross-line transfers at every station reached in Phase A
// of this round, per spec §4.4 Phase B.
func (e *Engine) phaseB(reachedInPhaseA map[transit.StationID]bool, store *frontier.Store, round int) map[transit.StationID]bool {
	reached := make(map[transit.StationID]bool)

	keysByStation := make(map[transit.StationID][]frontier.BucketKey)
	for _, key := range store.Keys() {
		st := transit.StationID(key.Station)
		keysByStation[st] = append(keysByStation[st], key)
	}

	for _, station := range sortedStations(reachedInPhaseA) {
		for _, key := range keysByStation[station] {
			handles := store.Bucket(key)
			labels := store.Labels(key)
			for i, parentLabel := range labels {
				parentHandle := handles[i]
				for _, m := range e.Index.LinesAt(station) {
					if m.Line == parentLabel.CurrentLine {
						continue
					}
					edge, ok := e.TransferEdges[TransferEdgeKey{Station: station, From: parentLabel.CurrentLine, To: m.Line, Profile: e.Profile}]
					if !ok {
						continue
					}
					walk, difficulty, convDelta, congDelta := e.Cost.Transfer(edge)
					child := e.Arena.Transfer(parentHandle, m.Line, m.Direction, walk, difficulty, convDelta, congDelta, round)
					candidate := e.Arena.Get(child)
					if store.Insert(child, candidate).Admitted {
						reached[station] = true
					}
				}
			}
		}
	}

	return reached
}

func sortedStations(set map[transit.StationID]bool) []transit.StationID {
	out := make([]transit.StationID, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func indexOf(seq []transit.StationID, s transit.StationID) int {
	for i, v := range seq {
		if v == s {
			return i
		}
	}
	return -1
}
