package domain

import (
	"time"

	"github.com/google/uuid"
)

// Grid dimensions for the grid-reveal game.
const (
	GridCells    = 25
	MinMineCount = 1
	MaxMineCount = 24
)

// GridStatus tracks the grid-game lifecycle.
type GridStatus string

const (
	GridActive    GridStatus = "active"
	GridCashedOut GridStatus = "cashed_out"
	GridBusted    GridStatus = "busted"
)

// GridGame represents a grid_games row. MinePositions are generated
// server-side at start and never sent to the client while the game is
// active. RevealedCells preserves insertion order.
type GridGame struct {
	ID            uuid.UUID  `json:"id"`
	AccountID     uuid.UUID  `json:"account_id"`
	BetAmount     int64      `json:"bet_amount"`
	MineCount     int        `json:"mine_count"`
	MinePositions []int      `json:"-"`
	RevealedCells []int      `json:"revealed_cells"`
	Multiplier    float64    `json:"multiplier"`
	Status        GridStatus `json:"status"`
	Payout        int64      `json:"payout"`
	CreatedAt     time.Time  `json:"created_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

// IsRevealed reports whether cell has already been revealed.
func (g *GridGame) IsRevealed(cell int) bool {
	for _, c := range g.RevealedCells {
		if c == cell {
			return true
		}
	}
	return false
}

// IsMine reports whether cell holds a mine.
func (g *GridGame) IsMine(cell int) bool {
	for _, m := range g.MinePositions {
		if m == cell {
			return true
		}
	}
	return false
}
