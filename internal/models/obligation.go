package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FrequencyOneOff marks an obligation whose anchor date is its single
// occurrence date. The periodic frequency names match the engine's.
const FrequencyOneOff = "one_off"

// Obligation is the persisted form of a recurring or one-off definition.
// Frequency "one_off" uses AnchorDate as the single occurrence date; every
// other frequency treats it as the recurrence anchor. The row stays loose
// (nullable anchor, free-form frequency) so a malformed record can be
// skipped at load time instead of poisoning the whole table; the engine
// works on the validated tagged form instead.
type Obligation struct {
	ID                  int64           `json:"id"`
	HouseholdID         int64           `json:"household_id"`
	Name                string          `json:"name"`
	Kind                string          `json:"kind"` // expense | income | card_payment
	Amount              decimal.Decimal `json:"amount"`
	Frequency           string          `json:"frequency"` // one_off | weekly | monthly | quarterly | yearly
	AnchorDate          *time.Time      `json:"anchor_date"`
	AdjustForWorkingDay bool            `json:"adjust_for_working_day"`
	IsPrimaryIncome     bool            `json:"is_primary_income"`
	Active              bool            `json:"active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
