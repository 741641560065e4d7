package engine

import "github.com/shopspring/decimal"

// ProgressEntry is the recorded settlement state for one occurrence key
// within one budget cycle. ActualAmount, when set, overrides the
// obligation's nominal amount for that single occurrence (variable bills,
// partial payments).
type ProgressEntry struct {
	Key          OccurrenceKey
	State        PaidState
	ActualAmount *decimal.Decimal
}

// Annotate joins expanded occurrences with recorded progress. Occurrences
// whose entry is Cancelled are dropped outright; entries with an actual
// amount replace the nominal amount; occurrences without an entry pass
// through as Pending. Progress entries matching no occurrence are orphans
// (the obligation was deleted or its date moved) and are ignored.
// Annotate never mutates its inputs, so applying it twice to the same
// snapshot produces the same output.
func Annotate(occurrences []Occurrence, entries []ProgressEntry) []Occurrence {
	byKey := make(map[OccurrenceKey]ProgressEntry, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e
	}

	out := make([]Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		entry, ok := byKey[occ.Key]
		if !ok {
			occ.Paid = Pending
			out = append(out, occ)
			continue
		}
		if entry.State == Cancelled {
			continue
		}
		occ.Paid = entry.State
		if entry.ActualAmount != nil {
			occ.Amount = *entry.ActualAmount
		}
		out = append(out, occ)
	}
	return out
}
