package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/winpay/platform/internal/domain"
)

func eligibleAccount() *domain.Account {
	return &domain.Account{
		Balances: domain.Balances{
			Balance:          1_000_000,
			TotalWagered:     200_000,
			WagerRequirement: 200_000,
		},
	}
}

func TestEvaluateWithdrawal_AllowsWithinLimits(t *testing.T) {
	p := DefaultWithdrawalPolicy()
	result := EvaluateWithdrawal(p, eligibleAccount(), 50_000, 0)
	assert.True(t, result.Allowed)
	assert.Empty(t, result.BreachedLimit)
}

func TestEvaluateWithdrawal_BlocksBelowMinimum(t *testing.T) {
	p := DefaultWithdrawalPolicy()
	result := EvaluateWithdrawal(p, eligibleAccount(), 9_999, 0)
	assert.False(t, result.Allowed)
	assert.Equal(t, "min_amount", result.BreachedLimit)
	assert.Equal(t, p.MinAmount, result.LimitValue)
}

func TestEvaluateWithdrawal_BlocksAboveSingleMax(t *testing.T) {
	p := DefaultWithdrawalPolicy()
	result := EvaluateWithdrawal(p, eligibleAccount(), 5_000_001, 0)
	assert.False(t, result.Allowed)
	assert.Equal(t, "single_withdrawal", result.BreachedLimit)
}

func TestEvaluateWithdrawal_BlocksDailySum(t *testing.T) {
	p := DefaultWithdrawalPolicy()
	// Already held 19_960_000 today, asking 50_000 more crosses 20_000_000.
	result := EvaluateWithdrawal(p, eligibleAccount(), 50_000, 19_960_000)
	assert.False(t, result.Allowed)
	assert.Equal(t, "daily_withdrawal", result.BreachedLimit)
	assert.Equal(t, int64(20_010_000), result.RequestedAmt)
}

func TestEvaluateWithdrawal_AllowsExactDailySum(t *testing.T) {
	p := DefaultWithdrawalPolicy()
	result := EvaluateWithdrawal(p, eligibleAccount(), 50_000, 19_950_000)
	assert.True(t, result.Allowed)
}

func TestEvaluateWithdrawal_BlocksUnmetWager(t *testing.T) {
	p := DefaultWithdrawalPolicy()
	account := eligibleAccount()
	account.TotalWagered = 150_000

	result := EvaluateWithdrawal(p, account, 50_000, 0)
	assert.False(t, result.Allowed)
	assert.Equal(t, "wager_requirement", result.BreachedLimit)
	assert.Equal(t, int64(200_000), result.LimitValue)
	assert.Equal(t, int64(150_000), result.RequestedAmt)
}

func TestEvaluateWithdrawal_WagerCheckDisabled(t *testing.T) {
	p := DefaultWithdrawalPolicy()
	p.RequireWager = false
	account := eligibleAccount()
	account.TotalWagered = 0

	result := EvaluateWithdrawal(p, account, 50_000, 0)
	assert.True(t, result.Allowed)
}

func TestEvaluateWithdrawal_ZeroLimitsUnlimited(t *testing.T) {
	p := WithdrawalPolicy{MinAmount: 0, MaxAmount: 0, DailySumMax: 0, RequireWager: false}
	result := EvaluateWithdrawal(p, eligibleAccount(), 999_999_999, 999_999_999)
	assert.True(t, result.Allowed)
}
