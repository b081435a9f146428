//go:build integration

package integration

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/round"
	"github.com/winpay/platform/test/integration/testutil"
)

// pastPeriod returns the period ID of a round that closed an hour ago,
// together with its deterministic outcome.
func pastPeriod(t *testing.T, env *testutil.TestEnv, mode domain.GameMode) (string, int) {
	t.Helper()
	sched := env.App.Settler.Schedule(mode)
	require.NotNil(t, sched)
	periodID := sched.PeriodID(time.Now().Add(-time.Hour))

	number, _ := round.NewGenerator(testutil.TestServerSeed).Outcome(mode, periodID)
	return periodID, number
}

func betStatus(t *testing.T, env *testutil.TestEnv, betID uuid.UUID) (status string, winAmount int64) {
	t.Helper()
	ctx := context.Background()
	err := env.Pool.QueryRow(ctx,
		"SELECT status, win_amount::bigint FROM bets WHERE id = $1", betID).
		Scan(&status, &winAmount)
	require.NoError(t, err)
	return status, winAmount
}

func TestSettlement_RoundTrip(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, winnerID := env.RegisterPlayer("winner@test.com", "securepass123")
	_, loserID := env.RegisterPlayer("loser@test.com", "securepass123")
	env.DirectCredit(winnerID, 100_000)
	env.DirectCredit(loserID, 100_000)

	mode := domain.ModeWingo30s
	periodID, result := pastPeriod(t, env, mode)

	winningBet := env.PlaceBetForPeriod(winnerID, mode, periodID,
		domain.BetNumber, strconv.Itoa(result), 10_000)
	losingBet := env.PlaceBetForPeriod(loserID, mode, periodID,
		domain.BetNumber, strconv.Itoa((result+1)%10), 10_000)

	testutil.AssertBalance(t, env, winnerID, 90_000, 0)
	testutil.AssertBalance(t, env, loserID, 90_000, 0)

	require.NoError(t, env.App.Settler.SettleRound(context.Background(), mode, periodID))

	// Number hit pays 9x gross; the stake was debited at placement.
	testutil.AssertBalance(t, env, winnerID, 180_000, 0)
	testutil.AssertBalance(t, env, loserID, 90_000, 0)

	status, winAmount := betStatus(t, env, winningBet)
	assert.Equal(t, "settled", status)
	assert.Equal(t, int64(90_000), winAmount)

	status, winAmount = betStatus(t, env, losingBet)
	assert.Equal(t, "settled", status)
	assert.Equal(t, int64(0), winAmount)

	// Turnover advances at settlement for winners and losers alike.
	assert.Equal(t, int64(10_000), env.GetAccountRow(winnerID).TotalWagered)
	assert.Equal(t, int64(10_000), env.GetAccountRow(loserID).TotalWagered)
}

func TestSettlement_RecordsRoundResult(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mode := domain.ModeWingo1m
	periodID, result := pastPeriod(t, env, mode)

	require.NoError(t, env.App.Settler.SettleRound(context.Background(), mode, periodID))

	var stored int
	err := env.Pool.QueryRow(context.Background(),
		"SELECT result_number FROM round_results WHERE game_mode = $1 AND period_id = $2",
		string(mode), periodID).Scan(&stored)
	require.NoError(t, err)
	assert.Equal(t, result, stored)
}

func TestSettlement_Idempotent(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, accountID := env.RegisterPlayer("rerun@test.com", "securepass123")
	env.DirectCredit(accountID, 100_000)

	mode := domain.ModeWingo30s
	periodID, result := pastPeriod(t, env, mode)
	env.PlaceBetForPeriod(accountID, mode, periodID,
		domain.BetNumber, strconv.Itoa(result), 10_000)

	ctx := context.Background()
	require.NoError(t, env.App.Settler.SettleRound(ctx, mode, periodID))
	require.NoError(t, env.App.Settler.SettleRound(ctx, mode, periodID))

	// The win credits exactly once.
	testutil.AssertBalance(t, env, accountID, 180_000, 0)
	assert.Equal(t, int64(10_000), env.GetAccountRow(accountID).TotalWagered)
}
