package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/winpay/platform/internal/domain"
)

// ExecuteRecordLoss settles a losing bet. The stake was already debited at
// placement, so no balance moves; only betting turnover advances, and the
// zero-amount entry keeps the audit trail complete.
func (e *Engine) ExecuteRecordLoss(ctx context.Context, tx pgx.Tx, params domain.RecordLossParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.StakeAmount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	// Lock
	account, err := e.LockAccountForUpdate(ctx, tx, params.AccountID)
	if err != nil {
		return nil, fmt.Errorf("record loss: %w", err)
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
		AccountID:     params.AccountID,
		Type:          domain.EntrySettlementLoss,
		Amount:        0,
		BalanceUpdate: domain.BalanceUpdate{TotalWagered: params.StakeAmount},
		ReferenceID:   strPtr(params.ReferenceID),
		RoundID:       strPtr(params.RoundID),
		Metadata:      ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, fmt.Errorf("record loss post: %w", err)
	}

	return &domain.CommandResult{
		Entry:   entry,
		Account: updatedAccount,
		Events:  []domain.OutboxDraft{domain.NewEntryPostedEvent(entry)},
	}, nil
}
