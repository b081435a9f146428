package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/winpay/platform/internal/domain"
)

// ExecuteHoldWithdrawal moves funds from balance to reserved_balance when a
// withdrawal is requested (phase 1 of the two-phase withdrawal). The wager
// requirement must be met and the spendable balance must cover the amount.
func (e *Engine) ExecuteHoldWithdrawal(ctx context.Context, tx pgx.Tx, params domain.HoldWithdrawalParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	// Lock
	account, err := e.LockAccountForUpdate(ctx, tx, params.AccountID)
	if err != nil {
		return nil, fmt.Errorf("hold withdrawal: %w", err)
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
	if !account.WithdrawalEligible() {
		return nil, domain.ErrWagerNotMet(account.TotalWagered, account.WagerRequirement)
	}
	if account.Balance < params.Amount {
		return nil, domain.ErrInsufficientFunds()
	}

	entry, updatedAccount, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		AccountID: params.AccountID,
		Type:      domain.EntryWithdrawalHold,
		Amount:    params.Amount,
		BalanceUpdate: domain.BalanceUpdate{
			Balance:         -params.Amount,
			ReservedBalance: params.Amount,
		},
		ReferenceID: strPtr(params.ReferenceID),
		Metadata:    ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, fmt.Errorf("hold withdrawal post: %w", err)
	}

	return &domain.CommandResult{
		Entry:   entry,
		Account: updatedAccount,
		Events:  []domain.OutboxDraft{domain.NewEntryPostedEvent(entry)},
	}, nil
}
