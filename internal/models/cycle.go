package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetCycle stores the known real-world balance snapshot used as the
// simulation's starting point. One row per household per cycle; once a
// later cycle begins the row is history and is never rewritten.
type BudgetCycle struct {
	ID             int64           `json:"id"`
	HouseholdID    int64           `json:"household_id"`
	CycleStart     time.Time       `json:"cycle_start"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	BankAccountID  int64           `json:"bank_account_id"`
	CreatedAt      time.Time       `json:"created_at"`
}
