package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCycle_BeforePaydayUsesLastMonth(t *testing.T) {
	c, err := ResolveCycle(25, date(2025, time.January, 10), NewCalendar(nil))
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.December, 25), c.Start)
	// 2025-01-25 is a Saturday; the payday snaps BACK to Friday.
	assert.Equal(t, date(2025, time.January, 24), c.End)
}

func TestResolveCycle_OnPaydayStartsNewCycle(t *testing.T) {
	c, err := ResolveCycle(25, date(2025, time.February, 25), NewCalendar(nil))
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.February, 25), c.Start)
	assert.Equal(t, date(2025, time.March, 25), c.End)
}

func TestResolveCycle_HolidaySnapsBackward(t *testing.T) {
	cal := NewCalendar([]time.Time{date(2025, time.May, 1)})

	c, err := ResolveCycle(1, date(2025, time.May, 15), cal)
	require.NoError(t, err)

	// May Day holiday on the Thursday payday: wages land the day before.
	assert.Equal(t, date(2025, time.April, 30), c.Start)
	// 2025-06-01 is a Sunday.
	assert.Equal(t, date(2025, time.May, 30), c.End)
}

func TestResolveCycle_AnchorDayClampedToMonthLength(t *testing.T) {
	c, err := ResolveCycle(31, date(2025, time.February, 15), NewCalendar(nil))
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.January, 31), c.Start)
	assert.Equal(t, date(2025, time.February, 28), c.End)
}

func TestResolveCycle_RejectsBadAnchor(t *testing.T) {
	_, err := ResolveCycle(0, date(2025, time.January, 10), nil)
	require.Error(t, err)
	_, err = ResolveCycle(32, date(2025, time.January, 10), nil)
	require.Error(t, err)
}
