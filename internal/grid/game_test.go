package grid

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winpay/platform/internal/domain"
)

func newTestGame(mines []int) *domain.GridGame {
	return &domain.GridGame{
		ID:            uuid.New(),
		AccountID:     uuid.New(),
		BetAmount:     10_000,
		MineCount:     len(mines),
		MinePositions: mines,
		Multiplier:    1,
		Status:        domain.GridActive,
	}
}

func TestMultiplierClosedForm(t *testing.T) {
	e := NewEngine(0.01)

	// One reveal with m mines: (1-edge) * 25/(25-m).
	for m := 1; m <= 24; m++ {
		want := 0.99 * 25.0 / float64(25-m)
		assert.InDelta(t, want, e.Multiplier(m, 1), 1e-9, "mines %d", m)
	}

	// Three reveals with 3 mines: (1-edge) * 25/22 * 24/21 * 23/20.
	want := 0.99 * (25.0 / 22.0) * (24.0 / 21.0) * (23.0 / 20.0)
	assert.InDelta(t, want, e.Multiplier(3, 3), 1e-9)
}

func TestMultiplierZeroReveals(t *testing.T) {
	e := NewEngine(0.01)
	assert.InDelta(t, 0.99, e.Multiplier(5, 0), 1e-9)
}

func TestMultiplierStrictlyIncreases(t *testing.T) {
	e := NewEngine(0.01)
	for _, mines := range []int{1, 5, 12, 24} {
		prev := e.Multiplier(mines, 0)
		for k := 1; k <= MaxReveals(mines); k++ {
			cur := e.Multiplier(mines, k)
			assert.Greater(t, cur, prev, "mines %d reveals %d", mines, k)
			prev = cur
		}
	}
}

func TestMultiplierZeroEdgeIsFair(t *testing.T) {
	e := NewEngine(0)
	// With 24 mines one safe reveal pays the full fair odds of 25x.
	assert.InDelta(t, 25.0, e.Multiplier(24, 1), 1e-9)
}

func TestMaxReveals(t *testing.T) {
	assert.Equal(t, 24, MaxReveals(1))
	assert.Equal(t, 1, MaxReveals(24))
}

func TestRevealSafeCell(t *testing.T) {
	e := NewEngine(0.01)
	game := newTestGame([]int{3, 17, 22})

	hitMine, err := e.Reveal(game, 0)
	require.NoError(t, err)
	assert.False(t, hitMine)
	assert.Equal(t, domain.GridActive, game.Status)
	assert.Equal(t, []int{0}, game.RevealedCells)
	assert.InDelta(t, e.Multiplier(3, 1), game.Multiplier, 1e-9)
}

func TestRevealMineBusts(t *testing.T) {
	e := NewEngine(0.01)
	game := newTestGame([]int{3, 17, 22})

	_, err := e.Reveal(game, 0)
	require.NoError(t, err)

	hitMine, err := e.Reveal(game, 17)
	require.NoError(t, err)
	assert.True(t, hitMine)
	assert.Equal(t, domain.GridBusted, game.Status)
	assert.Zero(t, game.Multiplier)
	assert.Zero(t, game.Payout)
	require.NotNil(t, game.FinishedAt)
}

func TestRevealDuplicateCell(t *testing.T) {
	e := NewEngine(0.01)
	game := newTestGame([]int{3})

	_, err := e.Reveal(game, 7)
	require.NoError(t, err)

	_, err = e.Reveal(game, 7)
	require.Error(t, err)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CELL_ALREADY_REVEALED", appErr.Code)
}

func TestRevealInvalidCell(t *testing.T) {
	e := NewEngine(0.01)
	game := newTestGame([]int{3})

	_, err := e.Reveal(game, 25)
	require.Error(t, err)
	_, err = e.Reveal(game, -1)
	require.Error(t, err)
}

func TestRevealFinishedGame(t *testing.T) {
	e := NewEngine(0.01)
	game := newTestGame([]int{3})
	game.Status = domain.GridBusted

	_, err := e.Reveal(game, 0)
	require.Error(t, err)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "GAME_NOT_ACTIVE", appErr.Code)
}

func TestRevealAllSafeCellsAutoCashesOut(t *testing.T) {
	e := NewEngine(0.01)
	game := newTestGame([]int{23, 24})

	for cell := 0; cell < 23; cell++ {
		hitMine, err := e.Reveal(game, cell)
		require.NoError(t, err)
		require.False(t, hitMine)
	}

	assert.Equal(t, domain.GridCashedOut, game.Status)
	require.NotNil(t, game.FinishedAt)
	want := int64(math.Floor(float64(game.BetAmount) * e.Multiplier(2, 23)))
	assert.Equal(t, want, game.Payout)
}

func TestCashOut(t *testing.T) {
	e := NewEngine(0.01)
	game := newTestGame([]int{3, 17})

	_, err := e.Reveal(game, 0)
	require.NoError(t, err)
	_, err = e.Reveal(game, 1)
	require.NoError(t, err)

	payout, err := e.CashOut(game)
	require.NoError(t, err)
	assert.Equal(t, domain.GridCashedOut, game.Status)
	assert.Equal(t, game.Payout, payout)

	want := int64(math.Floor(float64(game.BetAmount) * e.Multiplier(2, 2)))
	assert.Equal(t, want, payout)
}

func TestCashOutWithoutReveal(t *testing.T) {
	e := NewEngine(0.01)
	game := newTestGame([]int{3})

	_, err := e.CashOut(game)
	require.Error(t, err)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOTHING_REVEALED", appErr.Code)
}

func TestCashOutFinishedGame(t *testing.T) {
	e := NewEngine(0.01)
	game := newTestGame([]int{3})
	game.Status = domain.GridCashedOut

	_, err := e.CashOut(game)
	require.Error(t, err)
}
