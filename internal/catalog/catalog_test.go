package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDayOptionsFansWeekendToSaturdayThenSunday(t *testing.T) {
	require.Equal(t, []DayType{Saturday, Sunday}, DayOptions(Weekend))
}

func TestDayOptionsPassesThroughConcreteDay(t *testing.T) {
	require.Equal(t, []DayType{Weekday}, DayOptions(Weekday))
	require.Equal(t, []DayType{Saturday}, DayOptions(Saturday))
	require.Equal(t, []DayType{Sunday}, DayOptions(Sunday))
}
