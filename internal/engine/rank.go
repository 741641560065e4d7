package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Debt is one outstanding balance considered by the repayment ranker.
type Debt struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	InterestRate   float64         `json:"interest_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
}

// Ranking holds both classic repayment orderings plus a recommendation.
type Ranking struct {
	Avalanche   []Debt `json:"avalanche"`
	Snowball    []Debt `json:"snowball"`
	Recommended string `json:"recommended"`
}

// High-rate debt makes avalanche the mathematically better strategy; below
// this threshold the motivational payoff of snowball tends to win.
const avalancheRateThreshold = 15.0

// Rank orders debts by the avalanche strategy (interest rate descending) and
// the snowball strategy (balance ascending), recommending avalanche when any
// debt's rate exceeds 15%. Sorts are stable so ties keep input order, and
// the input slice is never reordered.
func Rank(debts []Debt) Ranking {
	avalanche := make([]Debt, len(debts))
	copy(avalanche, debts)
	sort.SliceStable(avalanche, func(i, j int) bool {
		return avalanche[i].InterestRate > avalanche[j].InterestRate
	})

	snowball := make([]Debt, len(debts))
	copy(snowball, debts)
	sort.SliceStable(snowball, func(i, j int) bool {
		return snowball[i].Balance.LessThan(snowball[j].Balance)
	})

	recommended := "snowball"
	for _, d := range debts {
		if d.InterestRate > avalancheRateThreshold {
			recommended = "avalanche"
			break
		}
	}

	return Ranking{Avalanche: avalanche, Snowball: snowball, Recommended: recommended}
}
