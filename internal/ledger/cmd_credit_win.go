package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/winpay/platform/internal/domain"
)

// ExecuteCreditWin credits winnings at settlement. The original stake counts
// towards betting turnover here, not at placement, so a voided round never
// inflates turnover.
func (e *Engine) ExecuteCreditWin(ctx context.Context, tx pgx.Tx, params domain.CreditWinParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	// Lock
	account, err := e.LockAccountForUpdate(ctx, tx, params.AccountID)
	if err != nil {
		return nil, fmt.Errorf("credit win: %w", err)
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
		Type:      domain.EntryWin,
		Amount:    params.Amount,
		BalanceUpdate: domain.BalanceUpdate{
			Balance:      params.Amount,
			TotalWagered: params.StakeAmount,
		},
		ReferenceID: strPtr(params.ReferenceID),
		RoundID:     strPtr(params.RoundID),
		Metadata:    ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, fmt.Errorf("credit win post: %w", err)
	}

	return &domain.CommandResult{
		Entry:   entry,
		Account: updatedAccount,
		Events:  []domain.OutboxDraft{domain.NewEntryPostedEvent(entry)},
	}, nil
}
