package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies an obligation's effect on the ledger.
type Kind string

const (
	KindExpense     Kind = "expense"
	KindIncome      Kind = "income"
	KindCardPayment Kind = "card_payment"
)

// Frequency is the recurrence step of a periodic obligation.
type Frequency string

const (
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

// Schedule is the tagged variant describing when an obligation falls due:
// either a single explicit date (OneOff) or a recurrence anchored to a
// reference date (Periodic). Keeping the two shapes as distinct types makes
// the "one-off has a date, recurring has an anchor" invariant structural
// rather than a convention over nullable fields.
type Schedule interface {
	isSchedule()
}

// OneOff is a schedule with exactly one occurrence.
type OneOff struct {
	Date time.Time
}

// Periodic is a recurring schedule. Anchor fixes the phase: its day-of-week
// for weekly obligations, its day-of-month for monthly and quarterly ones,
// and its day-and-month for yearly ones.
type Periodic struct {
	Frequency Frequency
	Anchor    time.Time
}

func (OneOff) isSchedule()   {}
func (Periodic) isSchedule() {}

// Obligation is one recurring (or one-off) income/expense definition,
// already validated and detached from its storage row.
type Obligation struct {
	ID                  int64
	Name                string
	Kind                Kind
	Amount              decimal.Decimal
	Schedule            Schedule
	AdjustForWorkingDay bool
}

// monthStep returns how many months one recurrence step spans, or 0 for
// frequencies that do not step by months.
func (f Frequency) monthStep() int {
	switch f {
	case Monthly:
		return 1
	case Quarterly:
		return 3
	case Yearly:
		return 12
	}
	return 0
}

// Valid reports whether f is one of the recognised periodic frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// Validate rejects obligations that cannot be expanded. A rejected
// obligation is skipped by the caller; it must never abort a whole
// projection run.
func (o Obligation) Validate() error {
	switch o.Kind {
	case KindExpense, KindIncome, KindCardPayment:
	default:
		return fmt.Errorf("obligation %d: unknown kind %q", o.ID, o.Kind)
	}
	switch s := o.Schedule.(type) {
	case OneOff:
		if s.Date.IsZero() {
			return fmt.Errorf("obligation %d: one-off without a date", o.ID)
		}
	case Periodic:
		if !s.Frequency.Valid() {
			return fmt.Errorf("obligation %d: unknown frequency %q", o.ID, s.Frequency)
		}
		if s.Anchor.IsZero() {
			return fmt.Errorf("obligation %d: periodic without an anchor date", o.ID)
		}
	case nil:
		return fmt.Errorf("obligation %d: missing schedule", o.ID)
	default:
		return fmt.Errorf("obligation %d: unsupported schedule %T", o.ID, s)
	}
	return nil
}
