//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertBalance checks an account's spendable and reserved balance.
func AssertBalance(t *testing.T, env *TestEnv, accountID uuid.UUID, balance, reserved int64) {
	t.Helper()
	row := env.GetAccountRow(accountID)
	assert.Equal(t, balance, row.Balance, "balance")
	assert.Equal(t, reserved, row.ReservedBalance, "reserved_balance")
}

// CountEntries returns the number of ledger entries for an account.
func CountEntries(t *testing.T, env *TestEnv, accountID uuid.UUID) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := env.Pool.QueryRow(ctx,
		"SELECT count(*) FROM ledger_entries WHERE account_id = $1", accountID).Scan(&count)
	require.NoError(t, err)
	return count
}

// CountOutboxEvents returns the number of outbox events of one aggregate type.
func CountOutboxEvents(t *testing.T, env *TestEnv, aggregateType string) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := env.Pool.QueryRow(ctx,
		"SELECT count(*) FROM event_outbox WHERE aggregate_type = $1", aggregateType).Scan(&count)
	require.NoError(t, err)
	return count
}
