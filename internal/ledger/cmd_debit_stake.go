package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/winpay/platform/internal/domain"
)

// ExecuteDebitStake deducts a stake from the spendable balance at bet
// placement. Frozen accounts and insufficient funds are rejected after the
// row lock, so the check sees the latest committed state.
func (e *Engine) ExecuteDebitStake(ctx context.Context, tx pgx.Tx, params domain.DebitStakeParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	// Lock
	account, err := e.LockAccountForUpdate(ctx, tx, params.AccountID)
	if err != nil {
		return nil, fmt.Errorf("debit stake: %w", err)
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

	if account.Frozen {
		return nil, domain.ErrAccountFrozen()
	}
	if account.Balance < params.Amount {
		return nil, domain.ErrInsufficientFunds()
	}

	entry, updatedAccount, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		AccountID:     params.AccountID,
		Type:          domain.EntryBet,
		Amount:        params.Amount,
		BalanceUpdate: domain.BalanceUpdate{Balance: -params.Amount},
		ReferenceID:   strPtr(params.ReferenceID),
		RoundID:       strPtr(params.RoundID),
		Metadata:      ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, fmt.Errorf("debit stake post: %w", err)
	}

	return &domain.CommandResult{
		Entry:   entry,
		Account: updatedAccount,
		Events:  []domain.OutboxDraft{domain.NewEntryPostedEvent(entry)},
	}, nil
}
