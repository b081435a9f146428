package domain

import (
	"time"

	"github.com/google/uuid"
)

// GameMode identifies one of the fixed round-game durations.
type GameMode string

const (
	ModeWingo30s GameMode = "wingo_30s"
	ModeWingo1m  GameMode = "wingo_1m"
	ModeWingo3m  GameMode = "wingo_3m"
	ModeWingo5m  GameMode = "wingo_5m"
)

// GameModes lists all round-game modes in duration order.
var GameModes = []GameMode{ModeWingo30s, ModeWingo1m, ModeWingo3m, ModeWingo5m}

// ValidGameMode reports whether m is a known round-game mode.
func ValidGameMode(m GameMode) bool {
	switch m {
	case ModeWingo30s, ModeWingo1m, ModeWingo3m, ModeWingo5m:
		return true
	}
	return false
}

// BetType is the closed set of round-game bet semantics.
type BetType string

const (
	BetColor    BetType = "color"
	BetNumber   BetType = "number"
	BetBigSmall BetType = "big_small"
)

// Color classifies a result digit.
type Color string

const (
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorViolet Color = "violet"
)

// ColorsFor returns the color set of a result digit:
// 0 is red+violet, 5 is green+violet, other odds green, other evens red.
func ColorsFor(number int) []Color {
	switch {
	case number == 0:
		return []Color{ColorRed, ColorViolet}
	case number == 5:
		return []Color{ColorGreen, ColorViolet}
	case number%2 == 1:
		return []Color{ColorGreen}
	default:
		return []Color{ColorRed}
	}
}

// ColorLabel joins a color set into its stored form, e.g. "green,violet".
func ColorLabel(colors []Color) string {
	s := ""
	for i, c := range colors {
		if i > 0 {
			s += ","
		}
		s += string(c)
	}
	return s
}

// RoundResult represents a round_results row. The unique (game_mode,
// period_id) pair makes the first settling writer win; every later attempt
// reads this row instead of generating again.
type RoundResult struct {
	GameMode     GameMode  `json:"game_mode"`
	PeriodID     string    `json:"period_id"`
	ResultNumber int       `json:"result_number"`
	ResultColor  string    `json:"result_color"`
	SettledAt    time.Time `json:"settled_at"`
}

// BetStatus tracks the bet lifecycle. Settled bets are immutable.
type BetStatus string

const (
	BetPending BetStatus = "pending"
	BetSettled BetStatus = "settled"
)

// Bet represents a bets row.
type Bet struct {
	ID           uuid.UUID  `json:"id"`
	AccountID    uuid.UUID  `json:"account_id"`
	GameMode     GameMode   `json:"game_mode"`
	PeriodID     string     `json:"period_id"`
	BetType      BetType    `json:"bet_type"`
	BetValue     string     `json:"bet_value"`
	BetAmount    int64      `json:"bet_amount"`
	Status       BetStatus  `json:"status"`
	ResultNumber *int       `json:"result_number,omitempty"`
	ResultColor  *string    `json:"result_color,omitempty"`
	WinAmount    int64      `json:"win_amount"`
	CreatedAt    time.Time  `json:"created_at"`
	SettledAt    *time.Time `json:"settled_at,omitempty"`
}
