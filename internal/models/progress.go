package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProgressEntry records what actually happened to one occurrence within one
// budget cycle. IsPaid uses the engine's convention: 0 pending, 1 paid,
// -1 cancelled. The occurrence key is stored by its components so the same
// logical occurrence re-attaches after every recomputation.
type ProgressEntry struct {
	ID           int64            `json:"id"`
	HouseholdID  int64            `json:"household_id"`
	CycleStart   time.Time        `json:"cycle_start"`
	Kind         string           `json:"kind"`
	ObligationID int64            `json:"obligation_id"`
	OccurDay     int              `json:"occur_day"`
	OccurMonth   int              `json:"occur_month"`
	ActualAmount *decimal.Decimal `json:"actual_amount,omitempty"`
	IsPaid       int              `json:"is_paid"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
