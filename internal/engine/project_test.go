package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aprilCycle() Cycle {
	return Cycle{Start: date(2025, time.April, 1), End: date(2025, time.April, 30)}
}

func expandInCycle(t *testing.T, ob Obligation, c Cycle) []Occurrence {
	t.Helper()
	occs := Expand(ob, nil, c.Start, c.End)
	require.NotEmpty(t, occs)
	return occs
}

func TestProject_SingleUnpaidBill(t *testing.T) {
	cycle := aprilCycle()
	bill := monthly(1, date(2025, time.April, 15), false)
	expenses := Annotate(expandInCycle(t, bill, cycle), nil)

	p := Project(cycle, decimal.NewFromInt(500), nil, expenses, cycle.Start)

	assert.True(t, p.LowestPoint.Equal(decimal.NewFromInt(400)), "lowest = %s", p.LowestPoint)
	assert.True(t, p.EndOfCycleBalance.Equal(decimal.NewFromInt(400)), "end = %s", p.EndOfCycleBalance)
	assert.Equal(t, date(2025, time.April, 15), p.LowestPointDate)
	assert.Equal(t, 1, p.UnpaidCount)
	assert.Equal(t, 0.0, p.PercentPaid)
}

func TestProject_PaidBillNotDoubleCounted(t *testing.T) {
	cycle := aprilCycle()
	bill := monthly(1, date(2025, time.April, 15), false)
	occs := expandInCycle(t, bill, cycle)
	expenses := Annotate(occs, []ProgressEntry{{Key: occs[0].Key, State: Paid}})

	p := Project(cycle, decimal.NewFromInt(500), nil, expenses, cycle.Start)

	assert.True(t, p.LowestPoint.Equal(decimal.NewFromInt(500)))
	assert.True(t, p.EndOfCycleBalance.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 0, p.UnpaidCount)
	assert.InDelta(t, 100.0, p.PercentPaid, 0.001)
}

func TestProject_IncomeAndExpenseInterleave(t *testing.T) {
	cycle := aprilCycle()
	rent := monthly(1, date(2025, time.April, 3), false)
	salary := Obligation{
		ID:       2,
		Kind:     KindIncome,
		Amount:   decimal.NewFromInt(1500),
		Schedule: Periodic{Frequency: Monthly, Anchor: date(2025, time.April, 25)},
	}
	expenses := Annotate(expandInCycle(t, rent, cycle), nil)
	income := Annotate(expandInCycle(t, salary, cycle), nil)

	p := Project(cycle, decimal.NewFromInt(120), income, expenses, cycle.Start)

	// 120 - 100 on the 3rd, +1500 on the 25th.
	assert.True(t, p.LowestPoint.Equal(decimal.NewFromInt(20)), "lowest = %s", p.LowestPoint)
	assert.True(t, p.EndOfCycleBalance.Equal(decimal.NewFromInt(1520)))
}

func TestProject_OverdueUnpaidSeedsBalance(t *testing.T) {
	cycle := aprilCycle()
	bill := monthly(1, date(2025, time.April, 5), false)
	expenses := Annotate(expandInCycle(t, bill, cycle), nil)

	// Now is past the bill's date and it never got marked paid: the money is
	// as good as gone before the walk starts.
	now := date(2025, time.April, 10)
	p := Project(cycle, decimal.NewFromInt(500), nil, expenses, now)

	assert.True(t, p.LowestPoint.Equal(decimal.NewFromInt(400)))
	assert.True(t, p.EndOfCycleBalance.Equal(decimal.NewFromInt(400)))
}

func TestProject_MarkingPaidShiftsEndBalanceByExactlyAmount(t *testing.T) {
	cycle := aprilCycle()
	early := monthly(1, date(2025, time.April, 5), false)
	late := monthly(2, date(2025, time.April, 20), false)
	earlyOccs := expandInCycle(t, early, cycle)
	lateOccs := expandInCycle(t, late, cycle)
	all := append(append([]Occurrence{}, earlyOccs...), lateOccs...)

	unpaid := Project(cycle, decimal.NewFromInt(500), nil, Annotate(all, nil), cycle.Start)
	paid := Project(cycle, decimal.NewFromInt(500), nil,
		Annotate(all, []ProgressEntry{{Key: lateOccs[0].Key, State: Paid}}), cycle.Start)

	diff := paid.EndOfCycleBalance.Sub(unpaid.EndOfCycleBalance)
	assert.True(t, diff.Equal(decimal.NewFromInt(100)), "diff = %s", diff)
	// Days strictly before the late bill are untouched: the early bill still
	// drives the balance down to 400 on the 5th either way.
	assert.True(t, unpaid.LowestPoint.LessThanOrEqual(decimal.NewFromInt(400)))
	assert.True(t, paid.LowestPoint.Equal(decimal.NewFromInt(400)))
}

func TestProject_PercentPaidUsesEffectiveAmounts(t *testing.T) {
	cycle := aprilCycle()
	a := monthly(1, date(2025, time.April, 5), false)
	b := monthly(2, date(2025, time.April, 20), false)
	aOccs := expandInCycle(t, a, cycle)
	bOccs := expandInCycle(t, b, cycle)
	all := append(append([]Occurrence{}, aOccs...), bOccs...)

	expenses := Annotate(all, []ProgressEntry{{Key: aOccs[0].Key, State: Paid}})
	p := Project(cycle, decimal.NewFromInt(500), nil, expenses, cycle.Start)

	assert.InDelta(t, 50.0, p.PercentPaid, 0.001)
	assert.Equal(t, 1, p.UnpaidCount)
}

func TestProject_EmptyCycleYieldsStartingBalance(t *testing.T) {
	cycle := aprilCycle()
	p := Project(cycle, decimal.NewFromInt(250), nil, nil, cycle.Start)

	assert.True(t, p.LowestPoint.Equal(decimal.NewFromInt(250)))
	assert.True(t, p.EndOfCycleBalance.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 0, p.UnpaidCount)
	assert.Equal(t, 0.0, p.PercentPaid)
}

func TestClassify(t *testing.T) {
	limit := decimal.NewFromInt(200)

	assert.Equal(t, SeverityOK, Classify(decimal.NewFromInt(10), limit))
	assert.Equal(t, SeverityOK, Classify(decimal.Zero, limit))
	assert.Equal(t, SeverityOverdrawn, Classify(decimal.NewFromInt(-50), limit))
	assert.Equal(t, SeverityLimitRisk, Classify(decimal.NewFromInt(-201), limit))
}
