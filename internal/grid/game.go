package grid

import (
	"math"
	"time"

	"github.com/winpay/platform/internal/domain"
)

// Engine holds the pure rules of the grid-reveal game: multiplier growth,
// cell reveals and cashout. Persistence and money movement live in the
// service layer.
type Engine struct {
	houseEdge float64
}

// NewEngine creates a grid engine with the given house edge (e.g. 0.01).
func NewEngine(houseEdge float64) *Engine {
	return &Engine{houseEdge: houseEdge}
}

// HouseEdge returns the configured house edge.
func (e *Engine) HouseEdge() float64 { return e.houseEdge }

// Multiplier returns the payout multiplier after k safe reveals with m mines:
// (1 - edge) * product over i < k of (25-i)/(25-m-i). Each factor is the
// inverse survival probability of that reveal, so the raw product is the
// fair odds and the edge shaves the configured margin off every payout.
func (e *Engine) Multiplier(mineCount, revealed int) float64 {
	mult := 1.0
	for i := 0; i < revealed; i++ {
		mult *= float64(domain.GridCells-i) / float64(domain.GridCells-mineCount-i)
	}
	return (1 - e.houseEdge) * mult
}

// MaxReveals is the number of safe cells on a board with m mines.
func MaxReveals(mineCount int) int {
	return domain.GridCells - mineCount
}

// Reveal applies one cell reveal to an active game, mutating its state.
// Returns true if the cell held a mine (game busts, stake is lost).
func (e *Engine) Reveal(game *domain.GridGame, cell int) (bool, error) {
	if game.Status != domain.GridActive {
		return false, domain.ErrGameNotActive(game.ID.String())
	}
	if err := domain.ValidateCellIndex(cell); err != nil {
		return false, domain.ErrValidation(err.Error())
	}
	if game.IsRevealed(cell) {
		return false, domain.ErrCellAlreadyRevealed(cell)
	}

	game.RevealedCells = append(game.RevealedCells, cell)

	if game.IsMine(cell) {
		now := time.Now()
		game.Status = domain.GridBusted
		game.Multiplier = 0
		game.Payout = 0
		game.FinishedAt = &now
		return true, nil
	}

	safe := len(game.RevealedCells)
	game.Multiplier = e.Multiplier(game.MineCount, safe)

	// Revealing every safe cell cashes out automatically.
	if safe == MaxReveals(game.MineCount) {
		e.finish(game)
	}
	return false, nil
}

// CashOut finishes an active game at the current multiplier. At least one
// safe cell must have been revealed.
func (e *Engine) CashOut(game *domain.GridGame) (int64, error) {
	if game.Status != domain.GridActive {
		return 0, domain.ErrGameNotActive(game.ID.String())
	}
	if len(game.RevealedCells) == 0 {
		return 0, domain.ErrNothingRevealed()
	}
	e.finish(game)
	return game.Payout, nil
}

func (e *Engine) finish(game *domain.GridGame) {
	now := time.Now()
	game.Status = domain.GridCashedOut
	game.Payout = int64(math.Floor(float64(game.BetAmount) * game.Multiplier))
	game.FinishedAt = &now
}
