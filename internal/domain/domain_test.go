package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Validator Tests ---

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
		errMsg  string
	}{
		{"valid email", "user@example.com", false, ""},
		{"valid email with dots", "first.last@example.co.in", false, ""},
		{"valid email with plus", "user+tag@example.com", false, ""},
		{"empty string", "", true, "email is required"},
		{"no at sign", "userexample.com", true, "invalid email format"},
		{"no domain", "user@", true, "invalid email format"},
		{"no user", "@example.com", true, "invalid email format"},
		{"no tld", "user@example", true, "invalid email format"},
		{"single char tld", "user@example.c", true, "invalid email format"},
		{"spaces", "user @example.com", true, "invalid email format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateUTR(t *testing.T) {
	tests := []struct {
		name    string
		utr     string
		wantErr bool
	}{
		{"valid 12 digits", "123456789012", false},
		{"leading zeros", "000000000001", false},
		{"too short", "12345678901", true},
		{"too long", "1234567890123", true},
		{"letters", "12345678901a", true},
		{"empty", "", true},
		{"spaces", "123456 89012", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUTR(tt.utr)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "12 digits")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateUPI(t *testing.T) {
	tests := []struct {
		name    string
		upi     string
		wantErr bool
	}{
		{"valid handle", "player@paytm", false},
		{"valid with dots", "first.last@oksbi", false},
		{"valid with dash", "user-name@ybl", false},
		{"no at sign", "playerpaytm", true},
		{"no bank", "player@", true},
		{"numeric bank", "player@123", true},
		{"too short user", "a@paytm", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUPI(tt.upi)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidatePositiveAmount(t *testing.T) {
	assert.NoError(t, ValidatePositiveAmount(1))
	assert.NoError(t, ValidatePositiveAmount(999_999_999))
	assert.Error(t, ValidatePositiveAmount(0))
	assert.Error(t, ValidatePositiveAmount(-100))
}

func TestValidateBetSelection(t *testing.T) {
	tests := []struct {
		name    string
		betType BetType
		value   string
		wantErr bool
	}{
		{"green color", BetColor, "green", false},
		{"red color", BetColor, "red", false},
		{"violet color", BetColor, "violet", false},
		{"unknown color", BetColor, "blue", true},
		{"empty color", BetColor, "", true},
		{"number zero", BetNumber, "0", false},
		{"number nine", BetNumber, "9", false},
		{"number ten", BetNumber, "10", true},
		{"negative number", BetNumber, "-1", true},
		{"non-numeric", BetNumber, "x", true},
		{"big", BetBigSmall, "big", false},
		{"small", BetBigSmall, "small", false},
		{"medium", BetBigSmall, "medium", true},
		{"unknown type", BetType("parlay"), "big", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBetSelection(tt.betType, tt.value)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateMineCount(t *testing.T) {
	assert.NoError(t, ValidateMineCount(1))
	assert.NoError(t, ValidateMineCount(24))
	assert.Error(t, ValidateMineCount(0))
	assert.Error(t, ValidateMineCount(25))
	assert.Error(t, ValidateMineCount(-3))
}

func TestValidateCellIndex(t *testing.T) {
	assert.NoError(t, ValidateCellIndex(0))
	assert.NoError(t, ValidateCellIndex(24))
	assert.Error(t, ValidateCellIndex(-1))
	assert.Error(t, ValidateCellIndex(25))
}

// --- Color Tests ---

func TestColorsFor(t *testing.T) {
	tests := []struct {
		number int
		colors []Color
	}{
		{0, []Color{ColorRed, ColorViolet}},
		{1, []Color{ColorGreen}},
		{2, []Color{ColorRed}},
		{3, []Color{ColorGreen}},
		{4, []Color{ColorRed}},
		{5, []Color{ColorGreen, ColorViolet}},
		{6, []Color{ColorRed}},
		{7, []Color{ColorGreen}},
		{8, []Color{ColorRed}},
		{9, []Color{ColorGreen}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.colors, ColorsFor(tt.number), "number %d", tt.number)
	}
}

func TestColorLabel(t *testing.T) {
	assert.Equal(t, "red,violet", ColorLabel(ColorsFor(0)))
	assert.Equal(t, "green,violet", ColorLabel(ColorsFor(5)))
	assert.Equal(t, "green", ColorLabel(ColorsFor(7)))
	assert.Equal(t, "", ColorLabel(nil))
}

func TestValidGameMode(t *testing.T) {
	for _, mode := range GameModes {
		assert.True(t, ValidGameMode(mode))
	}
	assert.False(t, ValidGameMode("wingo_10s"))
	assert.False(t, ValidGameMode(""))
}

// --- Account Tests ---

func TestWagerProgress(t *testing.T) {
	tests := []struct {
		name     string
		wagered  int64
		required int64
		want     float64
	}{
		{"zero requirement is met", 0, 0, 100},
		{"halfway", 50_000, 100_000, 50},
		{"exactly met", 100_000, 100_000, 100},
		{"overshoot capped", 250_000, 100_000, 100},
		{"nothing wagered", 0, 100_000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Account{Balances: Balances{TotalWagered: tt.wagered, WagerRequirement: tt.required}}
			assert.InDelta(t, tt.want, a.WagerProgress(), 0.0001)
		})
	}
}

func TestWithdrawalEligible(t *testing.T) {
	a := &Account{Balances: Balances{TotalWagered: 99_999, WagerRequirement: 100_000}}
	assert.False(t, a.WithdrawalEligible())

	a.TotalWagered = 100_000
	assert.True(t, a.WithdrawalEligible())

	fresh := &Account{}
	assert.True(t, fresh.WithdrawalEligible())
}

// --- GridGame Tests ---

func TestGridGameHelpers(t *testing.T) {
	g := &GridGame{
		MinePositions: []int{3, 17},
		RevealedCells: []int{0, 5},
	}

	assert.True(t, g.IsMine(3))
	assert.True(t, g.IsMine(17))
	assert.False(t, g.IsMine(0))

	assert.True(t, g.IsRevealed(0))
	assert.True(t, g.IsRevealed(5))
	assert.False(t, g.IsRevealed(3))
}

func TestGridGameHidesMinesInJSON(t *testing.T) {
	g := &GridGame{MinePositions: []int{1, 2, 3}}
	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "mine_positions")
}

// --- AppError Tests ---

func TestAppErrorMessage(t *testing.T) {
	err := ErrNotFound("account", "abc")
	assert.Equal(t, "NOT_FOUND: account abc not found", err.Error())
	assert.Equal(t, 404, err.Status)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := assert.AnError
	err := ErrInternal("query failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "query failed")
}

func TestAppErrorStatuses(t *testing.T) {
	assert.Equal(t, 400, ErrInsufficientFunds().Status)
	assert.Equal(t, 403, ErrAccountFrozen().Status)
	assert.Equal(t, 409, ErrRoundLocked("20250101123").Status)
	assert.Equal(t, 409, ErrGameAlreadyActive().Status)
	assert.Equal(t, 409, ErrAlreadyDecided("r1").Status)
	assert.Equal(t, 409, ErrDuplicateUTR("123456789012").Status)
	assert.Equal(t, 422, ErrWagerNotMet(0, 100).Status)
	assert.Equal(t, 400, ErrNothingRevealed().Status)
	assert.Equal(t, 400, ErrBelowMinimumBet(1000).Status)
}

func TestAppErrorJSONHidesStatus(t *testing.T) {
	data, err := json.Marshal(ErrWagerNotMet(50, 100))
	require.NoError(t, err)
	assert.Contains(t, string(data), "WAGER_NOT_MET")
	assert.NotContains(t, string(data), "422")
}
