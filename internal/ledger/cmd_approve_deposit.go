package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/winpay/platform/internal/domain"
)

// ExecuteApproveDeposit credits an approved deposit and raises the wager
// requirement by WagerMultiple times the credited amount. Balance never
// moves on request submission; only an admin approval reaches this command.
func (e *Engine) ExecuteApproveDeposit(ctx context.Context, tx pgx.Tx, params domain.ApproveDepositParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if params.WagerMultiple < 0 {
		return nil, domain.ErrValidation("wager multiple must not be negative")
	}

	// Lock
	account, err := e.LockAccountForUpdate(ctx, tx, params.AccountID)
	if err != nil {
		return nil, fmt.Errorf("approve deposit: %w", err)
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

	entry, updatedAccount, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		AccountID: params.AccountID,
		Type:      domain.EntryDepositCredit,
		Amount:    params.Amount,
		BalanceUpdate: domain.BalanceUpdate{
			Balance:          params.Amount,
			TotalCredited:    params.Amount,
			WagerRequirement: params.WagerMultiple * params.Amount,
		},
		ReferenceID: strPtr(params.ReferenceID),
		Metadata:    ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, fmt.Errorf("approve deposit post: %w", err)
	}

	return &domain.CommandResult{
		Entry:   entry,
		Account: updatedAccount,
		Events:  []domain.OutboxDraft{domain.NewEntryPostedEvent(entry)},
	}, nil
}
