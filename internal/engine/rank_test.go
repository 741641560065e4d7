package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_RecommendsAvalancheAboveThreshold(t *testing.T) {
	debts := []Debt{
		{ID: 1, Name: "card", InterestRate: 18, Balance: decimal.NewFromInt(500)},
		{ID: 2, Name: "loan", InterestRate: 5, Balance: decimal.NewFromInt(2000)},
	}

	r := Rank(debts)

	assert.Equal(t, "avalanche", r.Recommended)
	require.Len(t, r.Avalanche, 2)
	assert.Equal(t, 18.0, r.Avalanche[0].InterestRate)
	assert.True(t, r.Snowball[0].Balance.Equal(decimal.NewFromInt(500)))
}

func TestRank_RecommendsSnowballForLowRates(t *testing.T) {
	debts := []Debt{
		{ID: 1, InterestRate: 6, Balance: decimal.NewFromInt(900)},
		{ID: 2, InterestRate: 12, Balance: decimal.NewFromInt(300)},
	}

	r := Rank(debts)

	assert.Equal(t, "snowball", r.Recommended)
	assert.Equal(t, int64(2), r.Avalanche[0].ID)
	assert.Equal(t, int64(2), r.Snowball[0].ID)
}

func TestRank_StableOnTies(t *testing.T) {
	debts := []Debt{
		{ID: 1, InterestRate: 10, Balance: decimal.NewFromInt(100)},
		{ID: 2, InterestRate: 10, Balance: decimal.NewFromInt(100)},
		{ID: 3, InterestRate: 10, Balance: decimal.NewFromInt(100)},
	}

	r := Rank(debts)

	for i, d := range r.Avalanche {
		assert.Equal(t, int64(i+1), d.ID)
	}
	for i, d := range r.Snowball {
		assert.Equal(t, int64(i+1), d.ID)
	}
	// The input order itself is untouched.
	assert.Equal(t, int64(1), debts[0].ID)
}

func TestRank_Empty(t *testing.T) {
	r := Rank(nil)
	assert.Empty(t, r.Avalanche)
	assert.Empty(t, r.Snowball)
	assert.Equal(t, "snowball", r.Recommended)
}
