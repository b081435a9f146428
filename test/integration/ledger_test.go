//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/test/integration/testutil"
)

func TestLedger_EntryPersists(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, accountID := env.RegisterPlayer("entry@test.com", "securepass123")

	ctx := context.Background()
	tx, err := env.Pool.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	result, err := env.Engine.ExecuteAdminCredit(ctx, tx, domain.AdminCreditParams{
		AccountID:   accountID,
		Amount:      5000,
		ReferenceID: "test_entry_persists",
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.NotEqual(t, uuid.Nil, result.Entry.ID)
	assert.Equal(t, int64(5000), result.Entry.BalanceAfter)

	// The row survives round-tripping through the table, id included.
	var id uuid.UUID
	var balanceAfter int64
	err = env.Pool.QueryRow(ctx, `
		SELECT id, balance_after::bigint FROM ledger_entries
		WHERE account_id = $1 AND reference_id = 'test_entry_persists'`,
		accountID).Scan(&id, &balanceAfter)
	require.NoError(t, err)
	assert.Equal(t, result.Entry.ID, id)
	assert.Equal(t, int64(5000), balanceAfter)

	testutil.AssertBalance(t, env, accountID, 5000, 0)
}

func TestLedger_IdempotentByReference(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, accountID := env.RegisterPlayer("idem@test.com", "securepass123")

	ctx := context.Background()
	credit := func() *domain.CommandResult {
		tx, err := env.Pool.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)
		result, err := env.Engine.ExecuteAdminCredit(ctx, tx, domain.AdminCreditParams{
			AccountID:   accountID,
			Amount:      7500,
			ReferenceID: "test_idem_ref",
		})
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))
		return result
	}

	first := credit()
	second := credit()

	assert.False(t, first.Idempotent)
	assert.True(t, second.Idempotent)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)

	testutil.AssertBalance(t, env, accountID, 7500, 0)
	assert.Equal(t, 1, testutil.CountEntries(t, env, accountID))
}

func TestLedger_DebitInsufficientFunds(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, accountID := env.RegisterPlayer("broke@test.com", "securepass123")
	env.DirectCredit(accountID, 1000)

	ctx := context.Background()
	tx, err := env.Pool.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	_, err = env.Engine.ExecuteDebitStake(ctx, tx, domain.DebitStakeParams{
		AccountID:   accountID,
		Amount:      5000,
		ReferenceID: "test_overdraw",
	})
	require.Error(t, err)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_FUNDS", appErr.Code)
	tx.Rollback(ctx)

	testutil.AssertBalance(t, env, accountID, 1000, 0)
	assert.Equal(t, 1, testutil.CountEntries(t, env, accountID))
}

func TestLedger_AdminCreditLeavesWagerColumnsAlone(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, accountID := env.RegisterPlayer("promo@test.com", "securepass123")

	env.DirectCredit(accountID, 25_000)

	row := env.GetAccountRow(accountID)
	assert.Equal(t, int64(25_000), row.Balance)
	assert.Equal(t, int64(0), row.TotalCredited)
	assert.Equal(t, int64(0), row.WagerRequirement)
}

func TestLedger_OutboxEventSharesTransaction(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, accountID := env.RegisterPlayer("outbox@test.com", "securepass123")

	before := testutil.CountOutboxEvents(t, env, "ledger")
	env.DirectCredit(accountID, 5000)
	assert.Equal(t, before+1, testutil.CountOutboxEvents(t, env, "ledger"))
}

func TestLedger_ConcurrentCredits(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, accountID := env.RegisterPlayer("concurrent@test.com", "securepass123")

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx := context.Background()
			tx, err := env.Pool.Begin(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			defer tx.Rollback(ctx)
			_, err = env.Engine.ExecuteAdminCredit(ctx, tx, domain.AdminCreditParams{
				AccountID:   accountID,
				Amount:      1000,
				ReferenceID: fmt.Sprintf("test_concurrent_%d", i),
			})
			if err != nil {
				errs[i] = err
				return
			}
			errs[i] = tx.Commit(ctx)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	// The row lock serializes the credits; the final balance and the entry
	// snapshots must both reflect all ten.
	testutil.AssertBalance(t, env, accountID, 10_000, 0)
	assert.Equal(t, workers, testutil.CountEntries(t, env, accountID))

	ctx := context.Background()
	var distinctSnapshots int
	err := env.Pool.QueryRow(ctx, `
		SELECT count(DISTINCT balance_after) FROM ledger_entries WHERE account_id = $1`,
		accountID).Scan(&distinctSnapshots)
	require.NoError(t, err)
	assert.Equal(t, workers, distinctSnapshots)
}
