package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Severity classifies a projection's lowest point for presentation. It is
// descriptive output only and never feeds back into the arithmetic.
type Severity string

const (
	SeverityOK        Severity = "ok"
	SeverityOverdrawn Severity = "overdrawn"
	SeverityLimitRisk Severity = "limit_risk"
)

// Projection is the result of simulating a household's balance across the
// remainder of a budget cycle.
type Projection struct {
	LowestPoint       decimal.Decimal `json:"lowest_point"`
	LowestPointDate   time.Time       `json:"lowest_point_date"`
	EndOfCycleBalance decimal.Decimal `json:"end_of_cycle_balance"`
	PercentPaid       float64         `json:"percent_paid"`
	UnpaidCount       int             `json:"unpaid_count"`
}

// Project merges annotated income and expense occurrences with a known
// starting balance into a day-by-day simulation of the cycle.
//
// Occurrences strictly before now that are still unpaid are catch-up
// adjustments: they should already have cleared, so they are applied to the
// starting balance in one step before the walk begins. The walk then covers
// every day from max(cycle.Start, now) through cycle.End, applying unpaid
// occurrences landing on each day. Paid occurrences are assumed to be
// reflected in the starting balance already and are never applied again.
// Cancelled occurrences must have been removed by Annotate before this call.
func Project(cycle Cycle, startingBalance decimal.Decimal, income, expenses []Occurrence, now time.Time) Projection {
	now = DateOnly(now)

	running := startingBalance
	for _, occ := range income {
		if occ.Date.Before(now) && occ.Paid == Pending {
			running = running.Add(occ.Amount)
		}
	}
	for _, occ := range expenses {
		if occ.Date.Before(now) && occ.Paid == Pending {
			running = running.Sub(occ.Amount)
		}
	}

	incomeByDay := amountsByDay(income, now)
	expenseByDay := amountsByDay(expenses, now)

	lowest := running
	lowestDate := now
	day := cycle.Start
	if day.Before(now) {
		day = now
	}
	for ; !day.After(cycle.End); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		if amt, ok := incomeByDay[key]; ok {
			running = running.Add(amt)
		}
		if amt, ok := expenseByDay[key]; ok {
			running = running.Sub(amt)
		}
		if running.LessThan(lowest) {
			lowest = running
			lowestDate = day
		}
	}

	totalExpense := decimal.Zero
	paidExpense := decimal.Zero
	unpaid := 0
	for _, occ := range expenses {
		totalExpense = totalExpense.Add(occ.Amount)
		switch occ.Paid {
		case Paid:
			paidExpense = paidExpense.Add(occ.Amount)
		case Pending:
			unpaid++
		}
	}
	percentPaid := 0.0
	if totalExpense.IsPositive() {
		percentPaid, _ = paidExpense.Div(totalExpense).Mul(decimal.NewFromInt(100)).Float64()
	}

	return Projection{
		LowestPoint:       lowest,
		LowestPointDate:   lowestDate,
		EndOfCycleBalance: running,
		PercentPaid:       percentPaid,
		UnpaidCount:       unpaid,
	}
}

// amountsByDay sums the unpaid occurrence amounts landing on each day on or
// after now. Paid occurrences are excluded so they are never double-counted.
func amountsByDay(occurrences []Occurrence, now time.Time) map[string]decimal.Decimal {
	byDay := make(map[string]decimal.Decimal)
	for _, occ := range occurrences {
		if occ.Paid != Pending || occ.Date.Before(now) {
			continue
		}
		key := occ.Date.Format(dateLayout)
		byDay[key] = byDay[key].Add(occ.Amount)
	}
	return byDay
}

// Classify maps a projection's lowest point onto a severity band using the
// account's overdraft limit. Going below zero is overdrawn; going below the
// negated limit risks the bank bouncing payments.
func Classify(lowestPoint, overdraftLimit decimal.Decimal) Severity {
	if lowestPoint.LessThan(overdraftLimit.Neg()) {
		return SeverityLimitRisk
	}
	if lowestPoint.IsNegative() {
		return SeverityOverdrawn
	}
	return SeverityOK
}
