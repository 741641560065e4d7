package engine

import "time"

const dateLayout = "2006-01-02"

// Calendar answers working-day questions for one household's projection run.
// Saturdays and Sundays are always non-working; the holiday set adds
// country-specific bank holidays on top. A nil Calendar is valid and falls
// back to weekend-only adjustment, so a failed holiday-feed fetch degrades
// the projection instead of blocking it.
type Calendar struct {
	holidays map[string]struct{}
}

// NewCalendar builds a calendar from a list of holiday dates. Time-of-day
// and zone are ignored; only the calendar date matters.
func NewCalendar(holidays []time.Time) *Calendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h.Format(dateLayout)] = struct{}{}
	}
	return &Calendar{holidays: set}
}

// IsWorkingDay reports whether d is a working day: not a Saturday, not a
// Sunday, and not in the holiday set.
func (c *Calendar) IsWorkingDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if c == nil || c.holidays == nil {
		return true
	}
	_, holiday := c.holidays[d.Format(dateLayout)]
	return !holiday
}

// NextWorkingDay returns the first working day on or after d.
func (c *Calendar) NextWorkingDay(d time.Time) time.Time {
	for !c.IsWorkingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// PreviousWorkingDay returns the last working day on or before d.
func (c *Calendar) PreviousWorkingDay(d time.Time) time.Time {
	for !c.IsWorkingDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// DateOnly truncates t to midnight UTC so occurrence dates compare by
// calendar day regardless of how the caller obtained "now".
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
