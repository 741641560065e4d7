package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendar_IsWorkingDay(t *testing.T) {
	cal := NewCalendar([]time.Time{date(2025, time.January, 1)})

	assert.False(t, cal.IsWorkingDay(date(2025, time.January, 4)), "Saturday")
	assert.False(t, cal.IsWorkingDay(date(2025, time.January, 5)), "Sunday")
	assert.False(t, cal.IsWorkingDay(date(2025, time.January, 1)), "holiday")
	assert.True(t, cal.IsWorkingDay(date(2025, time.January, 2)), "plain Thursday")
}

func TestCalendar_NextWorkingDaySkipsWeekendAndHoliday(t *testing.T) {
	// Monday the 6th is a holiday, so a Saturday start lands on Tuesday.
	cal := NewCalendar([]time.Time{date(2025, time.January, 6)})

	got := cal.NextWorkingDay(date(2025, time.January, 4))
	require.Equal(t, date(2025, time.January, 7), got)
}

func TestCalendar_PreviousWorkingDay(t *testing.T) {
	cal := NewCalendar(nil)

	got := cal.PreviousWorkingDay(date(2025, time.January, 5))
	require.Equal(t, date(2025, time.January, 3), got, "Sunday snaps back to Friday")

	got = cal.PreviousWorkingDay(date(2025, time.January, 3))
	require.Equal(t, date(2025, time.January, 3), got, "working day stays put")
}

func TestCalendar_NilDegradesToWeekendOnly(t *testing.T) {
	var cal *Calendar

	assert.True(t, cal.IsWorkingDay(date(2025, time.January, 1)))
	assert.False(t, cal.IsWorkingDay(date(2025, time.January, 4)))
	assert.Equal(t, date(2025, time.January, 6), cal.NextWorkingDay(date(2025, time.January, 4)))
}
