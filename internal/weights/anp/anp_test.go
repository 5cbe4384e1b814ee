package anp

import (
	"testing"

	"github.com/antigravity/transit-mc-router/internal/transit"
	"github.com/stretchr/testify/require"
)

func TestIdentityMatrixYieldsEqualWeights(t *testing.T) {
	solver := New(map[transit.Profile]Matrix{transit.ProfilePhysical: Identity()})
	w := solver.WeightsFor(transit.ProfilePhysical)

	require.Len(t, w, numCriteria)
	for _, v := range w {
		require.InDelta(t, 0.2, v, 1e-9)
	}
}

func TestWeightsSumToOne(t *testing.T) {
	solver := New(DefaultMatrices())
	for _, profile := range transit.AllProfiles() {
		w := solver.WeightsFor(profile)
		var sum float64
		for _, v := range w {
			sum += v
		}
		require.InDelta(t, 1.0, sum, 1e-9, "profile %s weights must sum to 1", profile)
	}
}

func TestPhysicalProfileWeightsTransferDifficultyHighest(t *testing.T) {
	solver := New(DefaultMatrices())
	w := solver.WeightsFor(transit.ProfilePhysical)
	require.Greater(t, w["transfer_difficulty"], w["travel_time"])
	for c, v := range w {
		if c != "transfer_difficulty" {
			require.Greater(t, w["transfer_difficulty"], v, "transfer_difficulty must outweigh %s", c)
		}
	}
}

func TestUnknownProfileReturnsNil(t *testing.T) {
	solver := New(DefaultMatrices())
	require.Nil(t, solver.WeightsFor(transit.Profile("ZZZ")))
}

func TestValidateReciprocalRejectsBadDiagonal(t *testing.T) {
	m := Identity()
	m[0][0] = 2
	require.Error(t, ValidateReciprocal(m))
}

func TestValidateReciprocalAcceptsIdentity(t *testing.T) {
	require.NoError(t, ValidateReciprocal(Identity()))
}
