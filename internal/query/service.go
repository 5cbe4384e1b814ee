// Package query orchestrates one route request end to end, per spec §6's
// Query interface: validates input, builds a RoundEngine, drives the
// round loop, hands destination-reaching labels to the Ranker, and maps
// the result to plain records. Grounded on the teacher's
// transport_handler.go GetRoute (parameter validation, day-option
// fan-out, "no route found" → empty/404 handling) generalized from a
// single best journey to the full ranked Pareto frontier.
package query

import (
	"context"
	"time"

	"github.com/antigravity/transit-mc-router/internal/costmodel"
	"github.com/antigravity/transit-mc-router/internal/mclabel"
	"github.com/antigravity/transit-mc-router/internal/netidx"
	"github.com/antigravity/transit-mc-router/internal/ranker"
	"github.com/antigravity/transit-mc-router/internal/roundengine"
	"github.com/antigravity/transit-mc-router/internal/transit"
	"github.com/antigravity/transit-mc-router/internal/weights"
)

const (
	DefaultMaxRounds = 5
	MinMaxRounds     = 1
	MaxMaxRounds     = 8
)

// Request is the stable contract spec §6 describes.
type Request struct {
	Origin       transit.StationID
	Destinations []transit.StationID
	Departure    time.Time
	Profile      transit.Profile
	MaxRounds    int // 0 selects DefaultMaxRounds; clamped to [MinMaxRounds, MaxMaxRounds]
}

// RouteResult is one ranked, destination-reaching journey.
type RouteResult struct {
	Stations              []transit.StationID
	Lines                 []transit.LineID
	Transfers             []mclabel.TransferInfo
	ArrivalTime           float64
	TransferCount         int
	MeanConvenience       float64
	MeanCongestion        float64
	MaxTransferDifficulty float64
	RouteLength           int
	WeightedPenalty       float64
	Rank                  int
}

// Result is the full response: the ranked routes plus whether the search
// was cut short by the caller's deadline.
type Result struct {
	Routes      []RouteResult
	Partial     bool
	Diagnostics []roundengine.Diagnostic
}

// Service holds everything built once at startup and shared read-only
// across concurrent queries (spec §5): the network index, cost model,
// profile-scoped transfer table, and weights oracle.
type Service struct {
	Index         *netidx.Index
	Cost          *costmodel.Model
	TransferEdges map[roundengine.TransferEdgeKey]transit.TransferEdge
	Weights       weights.Table

	Epsilon       float64
	MaxBucketSize int
}

// NewService assembles a Service from the catalog-sourced static inputs
// already built by internal/netidx and internal/costmodel.
func NewService(idx *netidx.Index, cost *costmodel.Model, edges []transit.TransferEdge, weightsTable weights.Table, epsilon float64, maxBucketSize int) *Service {
	table := make(map[roundengine.TransferEdgeKey]transit.TransferEdge, len(edges))
	for _, e := range edges {
		table[roundengine.TransferEdgeKey{Station: e.Station, From: e.FromLine, To: e.ToLine, Profile: e.Profile}] = e
	}
	return &Service{
		Index:         idx,
		Cost:          cost,
		TransferEdges: table,
		Weights:       weightsTable,
		Epsilon:       epsilon,
		MaxBucketSize: maxBucketSize,
	}
}

// BuildIndex wraps netidx.Build, converting its DataIntegrityError into
// query's sentinel-wrapped form so callers can errors.Is it consistently
// with the rest of this package. Spec §7: data-integrity failures here are
// fatal at startup, never raised mid-query.
func BuildIndex(stations []transit.Station, lines []transit.Line) (*netidx.Index, error) {
	idx, err := netidx.Build(stations, lines)
	if err != nil {
		if dataErr, ok := err.(*netidx.DataIntegrityError); ok {
			return nil, dataIntegrity(dataErr)
		}
		return nil, err
	}
	return idx, nil
}

// minutesSinceMidnight converts a departure instant into the
// minutes-since-midnight clock the cost model's time-of-day peak windows
// are keyed on. A zero Departure (the caller didn't set one) is treated
// as midnight rather than panicking on a zero time.Time.
func minutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func clampMaxRounds(requested int) int {
	if requested == 0 {
		return DefaultMaxRounds
	}
	if requested < MinMaxRounds {
		return MinMaxRounds
	}
	if requested > MaxMaxRounds {
		return MaxMaxRounds
	}
	return requested
}

// Run validates req, drives the round search, ranks the destination-
// reaching labels, and maps them to RouteResult records. A request whose
// search finds nothing is not an error (spec §4.4's "Zero labels at any
// destination yields an empty result — never an error"); only malformed
// input (unknown station/profile, empty destination set) returns an
// error.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	if !s.Index.HasStation(req.Origin) {
		return Result{}, unknownStation(req.Origin)
	}
	if len(req.Destinations) == 0 {
		return Result{}, ErrEmptyDestinationSet
	}
	for _, d := range req.Destinations {
		if !s.Index.HasStation(d) {
			return Result{}, unknownStation(d)
		}
	}
	if !transit.ValidProfile(req.Profile) {
		return Result{}, unknownProfile(req.Profile)
	}

	destinations := make(map[transit.StationID]bool, len(req.Destinations))
	for _, d := range req.Destinations {
		destinations[d] = true
	}

	profileWeights := s.Weights.WeightsFor(req.Profile)

	engine := roundengine.New(s.Index, s.Cost, req.Profile, s.Epsilon, profileWeights, s.MaxBucketSize)
	engine.TransferEdges = s.TransferEdges

	maxRounds := clampMaxRounds(req.MaxRounds)
	departAbsMinute := minutesSinceMidnight(req.Departure)
	searchResult := engine.Run(ctx, req.Origin, departAbsMinute, maxRounds)

	var handles []mclabel.Handle
	for _, store := range searchResult.Stores {
		for _, key := range store.Keys() {
			if !destinations[transit.StationID(key.Station)] {
				continue
			}
			handles = append(handles, store.Bucket(key)...)
		}
	}

	ranked := ranker.Rank(engine.Arena, s.Index, handles, profileWeights)

	routes := make([]RouteResult, len(ranked))
	for i, r := range ranked {
		routes[i] = RouteResult{
			Stations:              r.Route.Stations,
			Lines:                 r.Route.Lines,
			Transfers:             r.Route.Transfers,
			ArrivalTime:           r.Label.ArrivalTime,
			TransferCount:         r.Label.Transfers,
			MeanConvenience:       r.Label.MeanConvenience(),
			MeanCongestion:        r.Label.MeanCongestion(),
			MaxTransferDifficulty: r.Label.MaxTransferDifficulty,
			RouteLength:           len(r.Route.Stations),
			WeightedPenalty:       r.Penalty,
			Rank:                  r.Rank,
		}
	}

	return Result{Routes: routes, Partial: searchResult.Partial, Diagnostics: engine.Diagnostics}, nil
}
