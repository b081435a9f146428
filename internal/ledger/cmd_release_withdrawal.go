package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/winpay/platform/internal/domain"
)

// ExecuteReleaseWithdrawal resolves a held withdrawal (phase 2). On
// approval the reserved amount leaves the system; on rejection it returns
// to the spendable balance. Either way reserved_balance drops by the held
// amount exactly once per request.
func (e *Engine) ExecuteReleaseWithdrawal(ctx context.Context, tx pgx.Tx, params domain.ReleaseWithdrawalParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	// Lock
	account, err := e.LockAccountForUpdate(ctx, tx, params.AccountID)
	if err != nil {
		return nil, fmt.Errorf("release withdrawal: %w", err)
	}

	// Idempotency check
	if params.ReferenceID != "" {
		existing, err := e.FindExistingEntry(ctx, tx, params.AccountID, params.ReferenceID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &domain.CommandResult{Entry: existing, Account: account, Idempotent: true}, nil
		}
	}

	if account.ReservedBalance < params.Amount {
		return nil, domain.ErrConflict("reserved balance does not cover the held amount")
	}

	entryType := domain.EntryWithdrawalProcessed
	update := domain.BalanceUpdate{ReservedBalance: -params.Amount}
	if params.Refund {
		entryType = domain.EntryWithdrawalRefund
		update.Balance = params.Amount
	}

	entry, updatedAccount, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		AccountID:     params.AccountID,
		Type:          entryType,
		Amount:        params.Amount,
		BalanceUpdate: update,
		ReferenceID:   strPtr(params.ReferenceID),
		Metadata:      ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, fmt.Errorf("release withdrawal post: %w", err)
	}

	return &domain.CommandResult{
		Entry:   entry,
		Account: updatedAccount,
		Events:  []domain.OutboxDraft{domain.NewEntryPostedEvent(entry)},
	}, nil
}
