package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthly(id int64, anchor time.Time, adjust bool) Obligation {
	return Obligation{
		ID:                  id,
		Name:                "test bill",
		Kind:                KindExpense,
		Amount:              decimal.NewFromInt(100),
		Schedule:            Periodic{Frequency: Monthly, Anchor: anchor},
		AdjustForWorkingDay: adjust,
	}
}

func occurrenceDates(occs []Occurrence) []time.Time {
	dates := make([]time.Time, len(occs))
	for i, o := range occs {
		dates[i] = o.Date
	}
	return dates
}

func TestExpand_WeeklyKeepsDayOfWeek(t *testing.T) {
	ob := Obligation{
		ID:       1,
		Kind:     KindExpense,
		Amount:   decimal.NewFromInt(25),
		Schedule: Periodic{Frequency: Weekly, Anchor: date(2025, time.January, 1)},
	}

	occs := Expand(ob, nil, date(2025, time.January, 1), date(2025, time.January, 31))
	require.Equal(t, []time.Time{
		date(2025, time.January, 1),
		date(2025, time.January, 8),
		date(2025, time.January, 15),
		date(2025, time.January, 22),
		date(2025, time.January, 29),
	}, occurrenceDates(occs))
	for _, occ := range occs {
		assert.Equal(t, time.Wednesday, occ.Date.Weekday())
	}
}

func TestExpand_MonthlyClampsToShortMonth(t *testing.T) {
	ob := monthly(2, date(2025, time.January, 31), false)

	feb := Expand(ob, nil, date(2025, time.February, 1), date(2025, time.February, 28))
	require.Len(t, feb, 1)
	assert.Equal(t, date(2025, time.February, 28), feb[0].Date)

	// The clamp must not stick: March returns to the 31st.
	mar := Expand(ob, nil, date(2025, time.March, 1), date(2025, time.March, 31))
	require.Len(t, mar, 1)
	assert.Equal(t, date(2025, time.March, 31), mar[0].Date)
}

func TestExpand_QuarterlyAndYearlySteps(t *testing.T) {
	quarterly := Obligation{
		ID:       3,
		Kind:     KindExpense,
		Amount:   decimal.NewFromInt(90),
		Schedule: Periodic{Frequency: Quarterly, Anchor: date(2025, time.January, 31)},
	}
	occs := Expand(quarterly, nil, date(2025, time.January, 1), date(2025, time.December, 31))
	require.Equal(t, []time.Time{
		date(2025, time.January, 31),
		date(2025, time.April, 30),
		date(2025, time.July, 31),
		date(2025, time.October, 31),
	}, occurrenceDates(occs))

	yearly := Obligation{
		ID:       4,
		Kind:     KindExpense,
		Amount:   decimal.NewFromInt(120),
		Schedule: Periodic{Frequency: Yearly, Anchor: date(2023, time.June, 10)},
	}
	occs = Expand(yearly, nil, date(2025, time.January, 1), date(2026, time.December, 31))
	require.Equal(t, []time.Time{
		date(2025, time.June, 10),
		date(2026, time.June, 10),
	}, occurrenceDates(occs))
}

func TestExpand_WorkingDayShiftsForwardToMonday(t *testing.T) {
	// 2025-05-31 is a Saturday.
	ob := monthly(5, date(2025, time.May, 31), true)

	occs := Expand(ob, NewCalendar(nil), date(2025, time.May, 1), date(2025, time.June, 30))
	require.NotEmpty(t, occs)
	assert.Equal(t, date(2025, time.June, 2), occs[0].Date)
}

func TestExpand_WindowContainment(t *testing.T) {
	// Anchored on the 31st with adjustment: the May candidate is a Saturday
	// and would slide into June, outside the window, so it must be dropped.
	ob := monthly(6, date(2025, time.January, 31), true)

	start, end := date(2025, time.May, 1), date(2025, time.May, 31)
	occs := Expand(ob, NewCalendar(nil), start, end)
	for _, occ := range occs {
		assert.False(t, occ.Date.Before(start), "occurrence before window: %s", occ.Date)
		assert.False(t, occ.Date.After(end), "occurrence after window: %s", occ.Date)
	}
}

func TestExpand_OneOff(t *testing.T) {
	ob := Obligation{
		ID:       7,
		Kind:     KindExpense,
		Amount:   decimal.NewFromInt(40),
		Schedule: OneOff{Date: date(2025, time.March, 12)},
	}

	in := Expand(ob, nil, date(2025, time.March, 1), date(2025, time.March, 31))
	require.Len(t, in, 1)
	assert.Equal(t, date(2025, time.March, 12), in[0].Date)

	out := Expand(ob, nil, date(2025, time.April, 1), date(2025, time.April, 30))
	assert.Empty(t, out)
}

func TestExpand_Deterministic(t *testing.T) {
	ob := monthly(8, date(2024, time.November, 30), true)
	cal := NewCalendar([]time.Time{date(2025, time.June, 30)})
	start, end := date(2025, time.January, 1), date(2025, time.December, 31)

	first := Expand(ob, cal, start, end)
	second := Expand(ob, cal, start, end)
	require.Equal(t, first, second)
}

func TestExpand_SkipsInvalidObligation(t *testing.T) {
	bad := Obligation{ID: 9, Kind: KindExpense, Amount: decimal.NewFromInt(10)}
	assert.Empty(t, Expand(bad, nil, date(2025, time.January, 1), date(2025, time.January, 31)))

	noAnchor := Obligation{
		ID:       10,
		Kind:     KindExpense,
		Amount:   decimal.NewFromInt(10),
		Schedule: Periodic{Frequency: Monthly},
	}
	assert.Empty(t, Expand(noAnchor, nil, date(2025, time.January, 1), date(2025, time.January, 31)))
}

func TestKeyFor_StableAcrossRuns(t *testing.T) {
	d := date(2025, time.July, 15)
	a := KeyFor(KindExpense, 42, d)
	b := KeyFor(KindExpense, 42, d)
	require.Equal(t, a, b)

	assert.NotEqual(t, a, KeyFor(KindIncome, 42, d))
	assert.NotEqual(t, a, KeyFor(KindExpense, 43, d))
	assert.NotEqual(t, a, KeyFor(KindExpense, 42, d.AddDate(0, 0, 1)))
}
