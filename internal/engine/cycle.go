package engine

import (
	"fmt"
	"time"
)

// Cycle is one budget period between two consecutive adjusted paydays.
// Start and End are both inclusive working days.
type Cycle struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the cycle.
func (c Cycle) Contains(d time.Time) bool {
	return !d.Before(c.Start) && !d.After(c.End)
}

// ResolveCycle determines the active budget cycle from the household's pay
// anchor day. If now's day-of-month has reached payAnchorDay the cycle
// started this month, otherwise last month. Both boundaries snap BACKWARD to
// the previous working day: wages land on the last working day before a
// weekend payday, which is the opposite direction to how bills shift. The
// asymmetry is intentional and mirrors how banks actually move the money.
func ResolveCycle(payAnchorDay int, now time.Time, cal *Calendar) (Cycle, error) {
	if payAnchorDay < 1 || payAnchorDay > 31 {
		return Cycle{}, fmt.Errorf("pay anchor day %d out of range", payAnchorDay)
	}
	now = DateOnly(now)

	startYear, startMonth := now.Year(), int(now.Month())
	if now.Day() < payAnchorDay {
		startMonth--
	}
	rawStart := anchoredDay(startYear, startMonth, payAnchorDay)
	rawEnd := anchoredDay(startYear, startMonth+1, payAnchorDay)

	return Cycle{
		Start: cal.PreviousWorkingDay(rawStart),
		End:   cal.PreviousWorkingDay(rawEnd),
	}, nil
}

// anchoredDay builds the payday for a given month, clamping the anchor day
// to the month's length (payday 31 in February lands on the 28th/29th).
func anchoredDay(year, month, day int) time.Time {
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
