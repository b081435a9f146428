package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/winpay/platform/internal/domain"
)

// ExecuteAdminCredit posts a manual balance adjustment. It exists for
// support corrections and promotional credits, so unlike a deposit credit
// it touches neither total_credited nor the wager requirement.
func (e *Engine) ExecuteAdminCredit(ctx context.Context, tx pgx.Tx, params domain.AdminCreditParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	// Lock
	account, err := e.LockAccountForUpdate(ctx, tx, params.AccountID)
	if err != nil {
		return nil, fmt.Errorf("admin credit: %w", err)
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
		Type:      domain.EntryAdminCredit,
		Amount:    params.Amount,
		BalanceUpdate: domain.BalanceUpdate{
			Balance: params.Amount,
		},
		ReferenceID: strPtr(params.ReferenceID),
		Metadata:    ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, fmt.Errorf("admin credit post: %w", err)
	}

	return &domain.CommandResult{
		Entry:   entry,
		Account: updatedAccount,
		Events:  []domain.OutboxDraft{domain.NewEntryPostedEvent(entry)},
	}, nil
}
