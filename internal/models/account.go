package models

import "github.com/shopspring/decimal"

// BankAccount is a household's current account. The overdraft limit only
// classifies projection severity; it never changes the arithmetic. The
// account number is stored encrypted with an HMAC integrity tag.
type BankAccount struct {
	ID             int64           `json:"id"`
	HouseholdID    int64           `json:"household_id"`
	Name           string          `json:"name"`
	AccountNumber  string          `json:"account_number"` // Decrypted for response
	HMAC           string          `json:"hmac"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}
