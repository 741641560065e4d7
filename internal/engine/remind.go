package engine

import "time"

// FindUpcoming returns the occurrences landing exactly lookaheadDays from
// now, after working-day adjustment. The match is an exact-day equality, not
// a window check, so each occurrence triggers a reminder on precisely one
// day. Occurrences the user has cancelled are excluded; deduplication across
// repeated runs on the same day is the send-log's job, not this function's.
func FindUpcoming(obligations []Obligation, entries []ProgressEntry, cal *Calendar, now time.Time, lookaheadDays int) []Occurrence {
	target := DateOnly(now).AddDate(0, 0, lookaheadDays)

	cancelled := make(map[OccurrenceKey]struct{})
	for _, e := range entries {
		if e.State == Cancelled {
			cancelled[e.Key] = struct{}{}
		}
	}

	var out []Occurrence
	for _, o := range obligations {
		for _, occ := range Expand(o, cal, target, target) {
			if !SameDay(occ.Date, target) {
				continue
			}
			if _, skip := cancelled[occ.Key]; skip {
				continue
			}
			out = append(out, occ)
		}
	}
	return out
}
