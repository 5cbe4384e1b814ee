package mclabel

import "github.com/antigravity/transit-mc-router/internal/transit"

// Arena is an append-only store of labels for one query. Parents are
// referenced by Handle rather than pointer, so dropping a bucket entry at
// eviction time never needs to chase or free individual labels; the whole
// arena is reclaimed together when the query ends. This is the "arena of
// labels indexed by integer handle" design from spec §9.
type Arena struct {
	labels []Label
}

// NewArena returns an empty arena, pre-sized for a modest query.
func NewArena() *Arena {
	return &Arena{labels: make([]Label, 0, 256)}
}

// Get returns the label at h by value; labels are never mutated after
// insertion so returning by value is safe and avoids aliasing concerns.
func (a *Arena) Get(h Handle) Label {
	return a.labels[h]
}

// Len reports how many labels have been minted so far.
func (a *Arena) Len() int {
	return len(a.labels)
}

func (a *Arena) push(l Label) Handle {
	a.labels = append(a.labels, l)
	return Handle(len(a.labels) - 1)
}

// NewRoot mints a root label at station on a synthetic boarding line, per
// spec §4.4: "F_0 contains a single root label at the origin on a synthetic
// 'boarding' line, transfers=0, is_first_move=true".
func (a *Arena) NewRoot(station transit.StationID, line transit.LineID, dir transit.Direction, round int) Handle {
	return a.push(Label{
		ArrivalTime:      0,
		Transfers:        0,
		Depth:            1,
		CurrentStation:   station,
		CurrentLine:      line,
		CurrentDirection: dir,
		Parent:           NoParent,
		Visited:          NewVisitedSet(station),
		IsFirstMove:      true,
		CreatedRound:     round,
	})
}

// Ride extends parent by one ride hop to toStation on the same
// (line, direction), per spec §4.4 Phase A.
func (a *Arena) Ride(parent Handle, toStation transit.StationID, addDuration, addConvenience, addCongestion float64, round int) Handle {
	p := a.Get(parent)
	return a.push(Label{
		ArrivalTime:           p.ArrivalTime + addDuration,
		Transfers:             p.Transfers,
		ConvenienceSum:        p.ConvenienceSum + addConvenience,
		CongestionSum:         p.CongestionSum + addCongestion,
		MaxTransferDifficulty: p.MaxTransferDifficulty,
		Depth:                 p.Depth + 1,
		CurrentStation:        toStation,
		CurrentLine:           p.CurrentLine,
		CurrentDirection:      p.CurrentDirection,
		Parent:                parent,
		Visited:               p.Visited.Add(toStation),
		IsFirstMove:           false,
		CreatedRound:          round,
	})
}

// Transfer extends parent by one cross-line transfer at the same physical
// station, per spec §4.4 Phase B.
func (a *Arena) Transfer(parent Handle, toLine transit.LineID, toDirection transit.Direction, walkMinutes, difficulty, convenienceDelta, congestionDelta float64, round int) Handle {
	p := a.Get(parent)
	maxDiff := p.MaxTransferDifficulty
	if difficulty > maxDiff {
		maxDiff = difficulty
	}
	return a.push(Label{
		ArrivalTime:           p.ArrivalTime + walkMinutes,
		Transfers:             p.Transfers + 1,
		ConvenienceSum:        p.ConvenienceSum + convenienceDelta,
		CongestionSum:         p.CongestionSum + congestionDelta,
		MaxTransferDifficulty: maxDiff,
		Depth:                 p.Depth + 1,
		CurrentStation:        p.CurrentStation,
		CurrentLine:           toLine,
		CurrentDirection:      toDirection,
		Parent:                parent,
		Visited:               p.Visited,
		TransferInfo: &TransferInfo{
			Station:  p.CurrentStation,
			FromLine: p.CurrentLine,
			ToLine:   toLine,
		},
		IsFirstMove:  true,
		CreatedRound: round,
	})
}
