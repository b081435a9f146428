package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/repository"
)

// WalletService exposes balance and ledger history reads.
type WalletService struct {
	pool     *pgxpool.Pool
	accounts repository.AccountRepository
	entries  repository.LedgerEntryRepository
	logger   *slog.Logger
}

// NewWalletService creates a WalletService.
func NewWalletService(
	pool *pgxpool.Pool,
	accounts repository.AccountRepository,
	entries repository.LedgerEntryRepository,
	logger *slog.Logger,
) *WalletService {
	return &WalletService{
		pool:     pool,
		accounts: accounts,
		entries:  entries,
		logger:   logger,
	}
}

// BalanceView is the wallet summary shown to a player.
type BalanceView struct {
	Balance            int64   `json:"balance"`
	ReservedBalance    int64   `json:"reserved_balance"`
	TotalCredited      int64   `json:"total_credited"`
	TotalWagered       int64   `json:"total_wagered"`
	WagerRequirement   int64   `json:"wager_requirement"`
	WagerProgress      float64 `json:"wager_progress"`
	WithdrawalEligible bool    `json:"withdrawal_eligible"`
	Frozen             bool    `json:"frozen"`
	Currency           string  `json:"currency"`
}

// Balance returns the wallet summary of an account.
func (s *WalletService) Balance(ctx context.Context, accountID uuid.UUID) (*BalanceView, error) {
	account, err := s.accounts.FindByID(ctx, s.pool, accountID)
	if err != nil {
		return nil, domain.ErrInternal("find account", err)
	}
	if account == nil {
		return nil, domain.ErrNotFound("account", accountID.String())
	}
	return &BalanceView{
		Balance:            account.Balance,
		ReservedBalance:    account.ReservedBalance,
		TotalCredited:      account.TotalCredited,
		TotalWagered:       account.TotalWagered,
		WagerRequirement:   account.WagerRequirement,
		WagerProgress:      account.WagerProgress(),
		WithdrawalEligible: account.WithdrawalEligible(),
		Frozen:             account.Frozen,
		Currency:           account.Currency,
	}, nil
}

// Entries returns an account's ledger history, newest first.
func (s *WalletService) Entries(ctx context.Context, accountID uuid.UUID, cursor *string, limit int) ([]domain.LedgerEntry, error) {
	entries, err := s.entries.ListByAccount(ctx, s.pool, accountID, cursor, limit)
	if err != nil {
		return nil, domain.ErrInternal("list entries", err)
	}
	return entries, nil
}
