package mclabel

import "math"

// Normalization denominators, per spec §4.1. Chosen so typical values land
// near 1; grounded on the original label.py (90 min city-crossing time,
// 3-transfer cap for vector normalization, 1.3 peak congestion ceiling).
const (
	normTimeDenom       = 90.0
	normTransfersDenom  = 3.0
	normConvenienceDenom = 5.0
	normCongestionDenom  = 1.3
)

// Penalty normalization denominators, distinct from the vector ones above
// per spec §4.1 ("Weighted penalty ... Normalize with: time/120 capped at
// 1, transfers/4 capped at 1, ...").
const (
	penaltyTimeDenom      = 120.0
	penaltyTransfersDenom = 4.0
)

func defaultWeight(weights map[string]float64, criterion string) float64 {
	if w, ok := weights[criterion]; ok {
		return w
	}
	return 0.2
}

// NormalizedVector returns [arrival/90, transfers/3, max_difficulty,
// mean_convenience/5, mean_congestion/1.3], used only for ε-similarity —
// never for dominance, which compares raw criteria exactly.
func (l Label) NormalizedVector() [5]float64 {
	return [5]float64{
		l.ArrivalTime / normTimeDenom,
		float64(l.Transfers) / normTransfersDenom,
		l.MaxTransferDifficulty,
		l.MeanConvenience() / normConvenienceDenom,
		l.MeanCongestion() / normCongestionDenom,
	}
}

// Dominates implements spec §4.1's dominance relation. It is defined only
// when l and other share (station, line, transfers); otherwise it is
// unconditionally false, since they are not comparable (different bucket).
func (l Label) Dominates(other Label) bool {
	if l.CurrentStation != other.CurrentStation || l.CurrentLine != other.CurrentLine || l.Transfers != other.Transfers {
		return false
	}

	if l.ArrivalTime > other.ArrivalTime {
		return false
	}
	if l.MaxTransferDifficulty > other.MaxTransferDifficulty {
		return false
	}
	lCong, oCong := l.MeanCongestion(), other.MeanCongestion()
	if lCong > oCong {
		return false
	}
	lConv, oConv := l.MeanConvenience(), other.MeanConvenience()
	if lConv < oConv {
		return false
	}

	return l.ArrivalTime < other.ArrivalTime ||
		l.MaxTransferDifficulty < other.MaxTransferDifficulty ||
		lCong < oCong ||
		lConv > oConv
}

// EqualCost reports whether l and other are identical on all five criteria
// (used by FrontierStore step 1, "E ≡ C under all five criteria exactly").
// It does not compare bucket membership; callers only invoke it within a
// single bucket.
func (l Label) EqualCost(other Label) bool {
	return l.ArrivalTime == other.ArrivalTime &&
		l.Transfers == other.Transfers &&
		l.MaxTransferDifficulty == other.MaxTransferDifficulty &&
		l.MeanCongestion() == other.MeanCongestion() &&
		l.MeanConvenience() == other.MeanConvenience()
}

// WeightedDistance is the weighted Euclidean distance over the normalized
// cost vector, under profile weights — orthogonal to dominance, used only
// for optional ε-similarity thinning.
func (l Label) WeightedDistance(other Label, weights map[string]float64) float64 {
	v1 := l.NormalizedVector()
	v2 := other.NormalizedVector()
	criteria := [5]string{"travel_time", "transfers", "transfer_difficulty", "convenience", "congestion"}

	var sumSq float64
	for i, c := range criteria {
		w := defaultWeight(weights, c)
		d := v1[i] - v2[i]
		sumSq += w * d * d
	}
	return math.Sqrt(sumSq)
}

// EpsilonSimilar reports whether l and other are within epsilon under the
// weighted-Euclidean distance.
func (l Label) EpsilonSimilar(other Label, epsilon float64, weights map[string]float64) bool {
	return l.WeightedDistance(other, weights) <= epsilon
}

// WeightedPenalty is the Ranker's scalarization of l under profile weights,
// per spec §4.1. Each weight defaults to 0.2 when absent.
func (l Label) WeightedPenalty(weights map[string]float64) float64 {
	normTime := math.Min(l.ArrivalTime/penaltyTimeDenom, 1.0)
	normTransfers := math.Min(float64(l.Transfers)/penaltyTransfersDenom, 1.0)
	normDifficulty := l.MaxTransferDifficulty
	normConvenience := 1.0 - l.MeanConvenience()/normConvenienceDenom
	normCongestion := math.Min(l.MeanCongestion(), 1.0)

	return defaultWeight(weights, "travel_time")*normTime +
		defaultWeight(weights, "transfers")*normTransfers +
		defaultWeight(weights, "transfer_difficulty")*normDifficulty +
		defaultWeight(weights, "convenience")*normConvenience +
		defaultWeight(weights, "congestion")*normCongestion
}
