package policy

import "github.com/winpay/platform/internal/domain"

// WithdrawalPolicy defines the platform rules a withdrawal request must pass
// before any funds are held.
type WithdrawalPolicy struct {
	MinAmount    int64 `json:"min_amount"`    // paise
	MaxAmount    int64 `json:"max_amount"`    // paise, 0 = unlimited
	DailySumMax  int64 `json:"daily_sum_max"` // paise, 0 = unlimited
	RequireWager bool  `json:"require_wager"` // enforce the turnover requirement
}

// DefaultWithdrawalPolicy returns the platform defaults
// (₹100 minimum, ₹50,000 single, ₹2,00,000 per day).
func DefaultWithdrawalPolicy() WithdrawalPolicy {
	return WithdrawalPolicy{
		MinAmount:    10_000,
		MaxAmount:    5_000_000,
		DailySumMax:  20_000_000,
		RequireWager: true,
	}
}

// Evaluation holds the result of a withdrawal policy check.
type Evaluation struct {
	Allowed       bool   `json:"allowed"`
	BreachedLimit string `json:"breached_limit,omitempty"`
	LimitValue    int64  `json:"limit_value,omitempty"`
	RequestedAmt  int64  `json:"requested_amount,omitempty"`
}

// EvaluateWithdrawal checks a requested amount against the policy.
// dailyHeld is the sum of today's withdrawal holds for the account.
func EvaluateWithdrawal(policy WithdrawalPolicy, account *domain.Account, amount, dailyHeld int64) Evaluation {
	if policy.MinAmount > 0 && amount < policy.MinAmount {
		return Evaluation{
			Allowed:       false,
			BreachedLimit: "min_amount",
			LimitValue:    policy.MinAmount,
			RequestedAmt:  amount,
		}
	}

	if policy.MaxAmount > 0 && amount > policy.MaxAmount {
		return Evaluation{
			Allowed:       false,
			BreachedLimit: "single_withdrawal",
			LimitValue:    policy.MaxAmount,
			RequestedAmt:  amount,
		}
	}

	if policy.DailySumMax > 0 && dailyHeld+amount > policy.DailySumMax {
		return Evaluation{
			Allowed:       false,
			BreachedLimit: "daily_withdrawal",
			LimitValue:    policy.DailySumMax,
			RequestedAmt:  dailyHeld + amount,
		}
	}

	if policy.RequireWager && !account.WithdrawalEligible() {
		return Evaluation{
			Allowed:       false,
			BreachedLimit: "wager_requirement",
			LimitValue:    account.WagerRequirement,
			RequestedAmt:  account.TotalWagered,
		}
	}

	return Evaluation{Allowed: true}
}
