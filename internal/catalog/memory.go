package catalog

import (
	"context"

	"github.com/antigravity/transit-mc-router/internal/transit"
)

// Memory is an in-process Catalog over fixed slices, for callers that
// hold their network in memory rather than in Postgres. Nothing else in
// this module constructs one.
var _ Catalog = (*Memory)(nil)

type Memory struct {
	StationList  []transit.Station
	LineList     []transit.Line
	SectionList  []transit.Section
	ScoreList    []transit.ConvenienceScore
	TransferList []transit.TransferEdge
}

func (m *Memory) Stations(context.Context) ([]transit.Station, error) { return m.StationList, nil }

func (m *Memory) Station(_ context.Context, id transit.StationID) (transit.Station, bool, error) {
	for _, s := range m.StationList {
		if s.ID == id {
			return s, true, nil
		}
	}
	return transit.Station{}, false, nil
}

func (m *Memory) Lines(context.Context) ([]transit.Line, error) { return m.LineList, nil }

func (m *Memory) Sections(_ context.Context, line transit.LineID, _ DayType) ([]transit.Section, error) {
	if line == "" {
		return m.SectionList, nil
	}
	var out []transit.Section
	for _, s := range m.SectionList {
		if s.Line == line {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) ConvenienceScores(context.Context) ([]transit.ConvenienceScore, error) {
	return m.ScoreList, nil
}

func (m *Memory) TransferEdges(context.Context) ([]transit.TransferEdge, error) {
	return m.TransferList, nil
}
