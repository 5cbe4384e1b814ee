package mclabel

import "github.com/antigravity/transit-mc-router/internal/transit"

// SequenceIndex is the minimal slice of NetworkIndex that reconstruction
// needs: a station's line-wide order (direction-independent, per spec
// §4.2's order_of) and the ascending station sequence for a line (from
// which any direction's sweep can be sliced, since Descending is just the
// reverse of Ascending). Declared here rather than importing netidx
// directly so the label package stays a leaf dependency.
type SequenceIndex interface {
	OrderOf(station transit.StationID, line transit.LineID) (int, bool)
	Sequence(line transit.LineID, dir transit.Direction) []transit.StationID
}

// Route is the result of walking a label's parent chain: the full station
// sequence (intermediate stations expanded), the line active at each
// emitted station, and the ordered transfer list. Spec §4.1
// "Reconstruction".
type Route struct {
	Stations  []transit.StationID
	Lines     []transit.LineID
	Transfers []TransferInfo
}

// Reconstruct walks leaf's parent chain (via arena) from root to leaf and
// produces the full route, per-station line track, and transfer list.
//
// When idx is nil, or an order index is missing for some station pair, the
// affected same-line span falls back to emitting just the destination
// station (mirroring the original label.py's "순서 정보 없음" fallback) rather
// than aborting reconstruction for the whole journey.
func Reconstruct(arena *Arena, leaf Handle, idx SequenceIndex) Route {
	var handles []Handle
	for cur := leaf; cur != NoParent; {
		handles = append(handles, cur)
		cur = arena.Get(cur).Parent
	}
	for i, j := 0, len(handles)-1; i < j; i, j = i+1, j-1 {
		handles[i], handles[j] = handles[j], handles[i]
	}

	var out Route
	for i, h := range handles {
		lbl := arena.Get(h)
		if lbl.TransferInfo != nil {
			out.Transfers = append(out.Transfers, *lbl.TransferInfo)
		}
		if i == 0 {
			out.Stations = append(out.Stations, lbl.CurrentStation)
			out.Lines = append(out.Lines, lbl.CurrentLine)
			continue
		}
		prev := arena.Get(handles[i-1])
		if prev.CurrentLine != lbl.CurrentLine {
			if lbl.CurrentStation != prev.CurrentStation {
				out.Stations = append(out.Stations, lbl.CurrentStation)
				out.Lines = append(out.Lines, lbl.CurrentLine)
			}
			continue
		}
		intermediates := intermediateStations(idx, prev.CurrentStation, lbl.CurrentStation, lbl.CurrentLine)
		for _, s := range intermediates {
			out.Stations = append(out.Stations, s)
			out.Lines = append(out.Lines, lbl.CurrentLine)
		}
	}
	return out
}

// intermediateStations sweeps order indices between from and to on line,
// excluding the starting end and including the destination end, in the
// direction implied by the sign of to_order - from_order. Per spec §4.1.
func intermediateStations(idx SequenceIndex, from, to transit.StationID, line transit.LineID) []transit.StationID {
	if idx == nil {
		return []transit.StationID{to}
	}
	fromOrder, ok1 := idx.OrderOf(from, line)
	toOrder, ok2 := idx.OrderOf(to, line)
	if !ok1 || !ok2 {
		return []transit.StationID{to}
	}

	ascending := idx.Sequence(line, transit.Ascending)
	lo, hi := fromOrder, toOrder
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 || hi >= len(ascending) {
		return []transit.StationID{to}
	}

	// The span always excludes from_order and includes to_order, whichever
	// side of from_order it falls on:
	//   ascending hop (from < to): span is (from, to] -> ascending[lo+1:hi+1]
	//   descending hop (from > to): span is [to, from) -> ascending[lo:hi],
	//   walked in reverse so it still ends at to_order.
	var span []transit.StationID
	if fromOrder <= toOrder {
		span = ascending[lo+1 : hi+1]
	} else {
		span = ascending[lo:hi]
	}
	result := make([]transit.StationID, len(span))
	copy(result, span)
	if fromOrder > toOrder {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}
	if len(result) == 0 {
		return []transit.StationID{to}
	}
	return result
}
