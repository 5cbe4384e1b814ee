// Package anp derives rider-profile criterion weights via the Analytic
// Network Process pairwise-comparison method referenced by the original
// system's anp_calculator collaborator (app/main.py's ANPWeightCalculator,
// not carried into the retrieved source but named in both main.py's
// lifespan wiring and the test suite's raptor_instance.anp_calculator
// references). Reconstructed here as a standard AHP/ANP pairwise-matrix
// weight solver, since the concrete implementation was not available to
// ground line-for-line.
package anp

import (
	"fmt"

	"github.com/antigravity/transit-mc-router/internal/transit"
	"github.com/antigravity/transit-mc-router/internal/weights"
)

const numCriteria = 5

// Matrix is a 5x5 pairwise-comparison matrix over weights.Criteria, where
// Matrix[i][j] is how much more important criterion i is than criterion j
// on Saaty's 1-9 scale (reciprocal: Matrix[j][i] = 1/Matrix[i][j]).
type Matrix [numCriteria][numCriteria]float64

// Identity returns the comparison matrix representing "all criteria
// equally important" (every profile's starting point before tilting).
func Identity() Matrix {
	var m Matrix
	for i := 0; i < numCriteria; i++ {
		for j := 0; j < numCriteria; j++ {
			m[i][j] = 1
		}
	}
	return m
}

// Solver resolves each rider profile to a weight vector derived from its
// pairwise-comparison matrix via the normalize-columns-then-average-rows
// approximation to the principal eigenvector — a standard lightweight
// stand-in for a full eigenvalue solve, accurate to within a few percent
// for well-conditioned comparison matrices such as these.
type Solver struct {
	matrices map[transit.Profile]Matrix
}

// New builds a Solver from one pairwise matrix per profile.
func New(matrices map[transit.Profile]Matrix) *Solver {
	return &Solver{matrices: matrices}
}

// DefaultMatrices returns built-in comparison matrices for the four
// recognized rider profiles, tilted toward the criteria that dominate each
// profile's accessibility concern: PHY toward transfer_difficulty, VIS
// toward convenience and transfer_difficulty (station signage/assistance),
// AUD toward convenience (visual/informational aids), ELD toward
// convenience and congestion (crowding and walking burden).
func DefaultMatrices() map[transit.Profile]Matrix {
	// Criteria order: travel_time, transfers, transfer_difficulty, convenience, congestion.
	phy := Identity()
	tiltRow(&phy, 2, 0) // transfer_difficulty 3x more important than travel_time
	tiltRow(&phy, 2, 1) // transfer_difficulty 3x more important than transfers
	tiltRow(&phy, 3, 0) // convenience 3x more important than travel_time

	vis := Identity()
	tiltRow(&vis, 3, 0) // convenience 3x more important than travel_time
	tiltRow(&vis, 2, 0) // transfer_difficulty 3x more important than travel_time

	aud := Identity()
	tiltRow(&aud, 3, 0) // convenience 3x more important than travel_time

	eld := Identity()
	tiltRow(&eld, 3, 0) // convenience 3x more important than travel_time
	tiltRow(&eld, 4, 2) // congestion 3x more important than transfer_difficulty

	return map[transit.Profile]Matrix{
		transit.ProfilePhysical: phy,
		transit.ProfileVisual:   vis,
		transit.ProfileAuditory: aud,
		transit.ProfileElderly:  eld,
	}
}

// tiltRow sets Matrix[winner][loser]=factor and its reciprocal, skewing the
// comparison in winner's favor.
func tiltRow(m *Matrix, winner, loser int, factorOpt ...float64) {
	factor := 3.0
	if len(factorOpt) > 0 {
		factor = factorOpt[0]
	}
	m[winner][loser] = factor
	m[loser][winner] = 1 / factor
}

// WeightsFor implements weights.Table.
func (s *Solver) WeightsFor(profile transit.Profile) map[string]float64 {
	m, ok := s.matrices[profile]
	if !ok {
		return nil
	}
	return vectorToMap(normalizedEigenvectorApprox(m))
}

func vectorToMap(v [numCriteria]float64) map[string]float64 {
	out := make(map[string]float64, numCriteria)
	for i, c := range weights.Criteria {
		out[c] = v[i]
	}
	return out
}

// normalizedEigenvectorApprox normalizes each column to sum to 1, then
// averages across rows — the standard AHP approximation to the principal
// eigenvector, which converges to the exact eigenvector for consistent
// matrices and stays close for mildly inconsistent ones.
func normalizedEigenvectorApprox(m Matrix) [numCriteria]float64 {
	var colSums [numCriteria]float64
	for j := 0; j < numCriteria; j++ {
		for i := 0; i < numCriteria; i++ {
			colSums[j] += m[i][j]
		}
	}

	var normalized Matrix
	for i := 0; i < numCriteria; i++ {
		for j := 0; j < numCriteria; j++ {
			if colSums[j] == 0 {
				continue
			}
			normalized[i][j] = m[i][j] / colSums[j]
		}
	}

	var weightsOut [numCriteria]float64
	for i := 0; i < numCriteria; i++ {
		var rowSum float64
		for j := 0; j < numCriteria; j++ {
			rowSum += normalized[i][j]
		}
		weightsOut[i] = rowSum / numCriteria
	}
	return weightsOut
}

// ValidateReciprocal reports an error if m is not a valid reciprocal
// pairwise matrix (positive diagonal of 1, m[j][i] == 1/m[i][j] within a
// small floating-point tolerance).
func ValidateReciprocal(m Matrix) error {
	for i := 0; i < numCriteria; i++ {
		if m[i][i] != 1 {
			return fmt.Errorf("anp: diagonal entry [%d][%d] must be 1, got %v", i, i, m[i][i])
		}
		for j := 0; j < numCriteria; j++ {
			if m[i][j] <= 0 {
				return fmt.Errorf("anp: entry [%d][%d] must be positive, got %v", i, j, m[i][j])
			}
			if d := m[i][j]*m[j][i] - 1; d > 1e-9 || d < -1e-9 {
				return fmt.Errorf("anp: entries [%d][%d] and [%d][%d] are not reciprocal", i, j, j, i)
			}
		}
	}
	return nil
}
