package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToDevelopmentDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "WALK_SPEED_KMH", "DEFAULT_MAX_ROUNDS", "EPSILON", "MAX_BUCKET_SIZE", "QUERY_TIMEOUT_SECONDS"} {
		os.Unsetenv(key)
	}
	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 5, cfg.DefaultMaxRounds)
	require.Equal(t, 30*time.Second, cfg.QueryTimeout)
}

func TestLoadHonorsEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_MAX_ROUNDS", "3")
	t.Setenv("WALK_SPEED_KMH", "5.2")

	cfg := Load()
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 3, cfg.DefaultMaxRounds)
	require.InDelta(t, 5.2, cfg.WalkSpeedKmh, 0.001)
}
