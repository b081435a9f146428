package round

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/winpay/platform/internal/domain"
)

func TestPayout(t *testing.T) {
	tests := []struct {
		name    string
		betType domain.BetType
		value   string
		stake   int64
		result  int
		won     bool
		amount  int64
	}{
		{"green wins on odd", domain.BetColor, "green", 10_000, 3, true, 20_000},
		{"green wins on five", domain.BetColor, "green", 10_000, 5, true, 20_000},
		{"green loses on even", domain.BetColor, "green", 10_000, 4, false, 0},
		{"red wins on even", domain.BetColor, "red", 10_000, 8, true, 20_000},
		{"red wins on zero", domain.BetColor, "red", 10_000, 0, true, 20_000},
		{"red loses on odd", domain.BetColor, "red", 10_000, 7, false, 0},
		{"violet wins on zero", domain.BetColor, "violet", 10_000, 0, true, 45_000},
		{"violet wins on five", domain.BetColor, "violet", 10_000, 5, true, 45_000},
		{"violet loses elsewhere", domain.BetColor, "violet", 10_000, 6, false, 0},
		{"violet payout floors", domain.BetColor, "violet", 1001, 5, true, 4504},
		{"unknown color loses", domain.BetColor, "blue", 10_000, 3, false, 0},

		{"number exact match", domain.BetNumber, "7", 10_000, 7, true, 90_000},
		{"number miss", domain.BetNumber, "7", 10_000, 8, false, 0},
		{"number zero match", domain.BetNumber, "0", 10_000, 0, true, 90_000},
		{"number malformed", domain.BetNumber, "x", 10_000, 0, false, 0},

		{"big wins on five", domain.BetBigSmall, "big", 10_000, 5, true, 20_000},
		{"big wins on nine", domain.BetBigSmall, "big", 10_000, 9, true, 20_000},
		{"big loses on four", domain.BetBigSmall, "big", 10_000, 4, false, 0},
		{"small wins on zero", domain.BetBigSmall, "small", 10_000, 0, true, 20_000},
		{"small wins on four", domain.BetBigSmall, "small", 10_000, 4, true, 20_000},
		{"small loses on five", domain.BetBigSmall, "small", 10_000, 5, false, 0},

		{"unknown bet type", domain.BetType("parlay"), "big", 10_000, 5, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			won, amount := Payout(tt.betType, tt.value, tt.stake, tt.result)
			assert.Equal(t, tt.won, won)
			assert.Equal(t, tt.amount, amount)
		})
	}
}

func TestPayoutWinIncludesStake(t *testing.T) {
	// The returned amount is the full credit, not the profit: a winning
	// color bet credits 2x the stake because the stake was debited at
	// placement.
	won, amount := Payout(domain.BetColor, "green", 5_000, 1)
	assert.True(t, won)
	assert.Equal(t, int64(10_000), amount)
}
