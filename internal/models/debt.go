package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt is one outstanding balance tracked for repayment planning.
type Debt struct {
	ID             int64           `json:"id"`
	HouseholdID    int64           `json:"household_id"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	InterestRate   float64         `json:"interest_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
