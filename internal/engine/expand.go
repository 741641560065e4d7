package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// OccurrenceKey identifies one logical occurrence across recomputation runs.
// Expanding the same obligation over the same window always derives the same
// key, which is what lets progress rows written weeks ago re-attach to a
// freshly expanded occurrence list. Day and month come from the adjusted
// occurrence date; the year is deliberately absent because progress rows are
// already scoped to a budget cycle.
type OccurrenceKey struct {
	Kind         Kind       `json:"kind"`
	ObligationID int64      `json:"obligation_id"`
	Day          int        `json:"day"`
	Month        time.Month `json:"month"`
}

// KeyFor derives the synthetic key for an occurrence of the given obligation
// on the given (already adjusted) date.
func KeyFor(kind Kind, obligationID int64, date time.Time) OccurrenceKey {
	return OccurrenceKey{
		Kind:         kind,
		ObligationID: obligationID,
		Day:          date.Day(),
		Month:        date.Month(),
	}
}

// PaidState is the recorded settlement state of one occurrence.
type PaidState int8

const (
	// Pending means no progress has been recorded; the projector treats the
	// occurrence as still due.
	Pending PaidState = 0
	// Paid means the occurrence already cleared and is reflected in the
	// household's real balance; the projector must not count it again.
	Paid PaidState = 1
	// Cancelled means the user struck this single occurrence out; it is
	// removed from every calculation as if it never existed.
	Cancelled PaidState = -1
)

// Occurrence is one concrete dated instance of an obligation. Occurrences
// are derived on every run and never persisted; only progress rows keyed by
// Key survive between runs.
type Occurrence struct {
	ObligationID int64           `json:"obligation_id"`
	Name         string          `json:"name"`
	Kind         Kind            `json:"kind"`
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Paid         PaidState       `json:"paid"`
	Key          OccurrenceKey   `json:"key"`
}

// Expand turns one obligation plus a date window into its concrete
// occurrences within [windowStart, windowEnd], inclusive on both ends.
// Candidates carrying AdjustForWorkingDay slide forward to the next working
// day before inclusion; an adjusted date that leaves the window is dropped
// so every returned occurrence satisfies the window bounds. Expansion is a
// pure function of its inputs: calling it twice yields identical output.
func Expand(o Obligation, cal *Calendar, windowStart, windowEnd time.Time) []Occurrence {
	if err := o.Validate(); err != nil {
		return nil
	}
	windowStart = DateOnly(windowStart)
	windowEnd = DateOnly(windowEnd)
	if windowEnd.Before(windowStart) {
		return nil
	}

	var out []Occurrence
	emit := func(raw time.Time) {
		date := raw
		if o.AdjustForWorkingDay {
			date = cal.NextWorkingDay(date)
		}
		if date.Before(windowStart) || date.After(windowEnd) {
			return
		}
		out = append(out, Occurrence{
			ObligationID: o.ID,
			Name:         o.Name,
			Kind:         o.Kind,
			Date:         date,
			Amount:       o.Amount,
			Key:          KeyFor(o.Kind, o.ID, date),
		})
	}

	switch s := o.Schedule.(type) {
	case OneOff:
		// emit applies adjustment and the window filter; a raw date just
		// before the window can still slide into it.
		emit(DateOnly(s.Date))
	case Periodic:
		anchor := DateOnly(s.Anchor)
		for n := 0; ; n++ {
			raw := nthOccurrence(anchor, s.Frequency, n)
			if raw.After(windowEnd) {
				break
			}
			if raw.Before(windowStart) {
				// Forward adjustment can still pull a near-boundary
				// candidate into the window.
				if o.AdjustForWorkingDay {
					emit(raw)
				}
				continue
			}
			emit(raw)
		}
	}
	return out
}

// nthOccurrence computes the n-th raw candidate date for a periodic
// schedule. Month-stepped frequencies are always recomputed from the anchor
// so the anchor's day-of-month is preserved across short months: an anchor
// on the 31st clamps to the 30th or 28th/29th in shorter months and returns
// to the 31st afterwards, instead of drifting the way cumulative AddDate
// calls would.
func nthOccurrence(anchor time.Time, f Frequency, n int) time.Time {
	if f == Weekly {
		return anchor.AddDate(0, 0, 7*n)
	}
	months := f.monthStep() * n
	year, month := anchor.Year(), int(anchor.Month())+months
	day := anchor.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// daysInMonth returns the number of days in the given month; month may be
// outside 1..12 and is normalised the same way time.Date normalises it.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
