package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/winpay/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// AccountRepository provides access to accounts.
type AccountRepository interface {
	// FindByID returns an account by ID.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Account, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns the account.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error)

	// Create inserts a new account.
	Create(ctx context.Context, db DBTX, account *domain.Account) error

	// UpdateBalances atomically updates balance columns using server-side
	// arithmetic with dynamic SET clauses.
	UpdateBalances(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, delta domain.BalanceUpdate) (*domain.Account, error)

	// SetFrozen flips the frozen flag. Returns the updated account, nil if absent.
	SetFrozen(ctx context.Context, db DBTX, accountID uuid.UUID, frozen bool) (*domain.Account, error)

	// Search returns accounts whose email or name matches the query, joined
	// with auth_users, newest first.
	Search(ctx context.Context, db DBTX, query string, limit int) ([]domain.AccountSummary, error)

	// CountAll returns the total number of accounts.
	CountAll(ctx context.Context, db DBTX) (int64, error)

	// SumActiveBalance returns the sum of all spendable balances.
	SumActiveBalance(ctx context.Context, db DBTX) (int64, error)
}

// LedgerEntryRepository provides access to ledger_entries.
type LedgerEntryRepository interface {
	// FindByReference checks the idempotency index for a duplicate entry.
	FindByReference(ctx context.Context, db DBTX, accountID uuid.UUID, referenceID string) (*domain.LedgerEntry, error)

	// Insert creates a new ledger entry with balance snapshot. Returns the inserted row.
	Insert(ctx context.Context, db DBTX, params domain.PostLedgerEntryParams, balances domain.Balances) (*domain.LedgerEntry, error)

	// ListByAccount returns entries for an account, newest first, with
	// cursor-based pagination.
	ListByAccount(ctx context.Context, db DBTX, accountID uuid.UUID, cursor *string, limit int) ([]domain.LedgerEntry, error)

	// DailySumByType returns the total amount of entries of the given type
	// since the start of the current calendar day (UTC).
	DailySumByType(ctx context.Context, db DBTX, entryType domain.EntryType) (int64, error)

	// AccountDailySumByType is DailySumByType scoped to one account.
	AccountDailySumByType(ctx context.Context, db DBTX, accountID uuid.UUID, entryType domain.EntryType) (int64, error)
}

// BetRepository provides access to bets.
type BetRepository interface {
	// Insert creates a pending bet.
	Insert(ctx context.Context, db DBTX, bet *domain.Bet) error

	// FindByID returns a bet by ID.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Bet, error)

	// ListByAccount returns an account's bets, newest first.
	ListByAccount(ctx context.Context, db DBTX, accountID uuid.UUID, limit int) ([]domain.Bet, error)

	// ListPending returns the pending bets of one round.
	ListPending(ctx context.Context, db DBTX, mode domain.GameMode, periodID string) ([]domain.Bet, error)

	// ListPendingPeriods returns period IDs with pending bets for a mode,
	// excluding the currently open round.
	ListPendingPeriods(ctx context.Context, db DBTX, mode domain.GameMode, openPeriodID string) ([]string, error)

	// MarkSettled flips a pending bet to settled with its result. Returns
	// false if the bet was already settled.
	MarkSettled(ctx context.Context, db DBTX, betID uuid.UUID, resultNumber int, resultColor string, winAmount int64, settledAt time.Time) (bool, error)
}

// RoundRepository provides access to round_results.
type RoundRepository interface {
	// Claim inserts the round result, returning false if another node
	// already recorded it. First writer wins.
	Claim(ctx context.Context, db DBTX, result *domain.RoundResult) (bool, error)

	// Find returns the recorded result for a round, nil if not yet settled.
	Find(ctx context.Context, db DBTX, mode domain.GameMode, periodID string) (*domain.RoundResult, error)

	// ListRecent returns the latest settled results for a mode, newest first.
	ListRecent(ctx context.Context, db DBTX, mode domain.GameMode, limit int) ([]domain.RoundResult, error)
}

// GridGameRepository provides access to grid_games.
type GridGameRepository interface {
	// Insert creates an active grid game. The partial unique index on
	// (account_id) WHERE status = 'active' rejects a second active game.
	Insert(ctx context.Context, db DBTX, game *domain.GridGame) error

	// FindActiveForUpdate locks and returns the account's active game, nil if none.
	FindActiveForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (*domain.GridGame, error)

	// FindActive returns the account's active game without locking.
	FindActive(ctx context.Context, db DBTX, accountID uuid.UUID) (*domain.GridGame, error)

	// UpdateProgress persists revealed cells and the current multiplier.
	UpdateProgress(ctx context.Context, db DBTX, game *domain.GridGame) error

	// Finish moves a game to a terminal status with its payout.
	Finish(ctx context.Context, db DBTX, game *domain.GridGame) error

	// ListByAccount returns an account's finished games, newest first.
	ListByAccount(ctx context.Context, db DBTX, accountID uuid.UUID, limit int) ([]domain.GridGame, error)
}

// PaymentRepository provides access to deposit_requests and withdrawal_requests.
type PaymentRepository interface {
	// InsertDeposit creates a pending deposit request. The partial unique
	// index on UTR (non-rejected rows) rejects duplicate submissions.
	InsertDeposit(ctx context.Context, db DBTX, req *domain.DepositRequest) error

	// FindDeposit returns a deposit request by ID.
	FindDeposit(ctx context.Context, db DBTX, id uuid.UUID) (*domain.DepositRequest, error)

	// DecideDeposit moves a pending deposit to a terminal status. Returns
	// false if the request was already decided.
	DecideDeposit(ctx context.Context, db DBTX, id uuid.UUID, status domain.RequestStatus, decidedBy uuid.UUID, reason *string) (bool, error)

	// ListDeposits returns deposit requests filtered by status, newest first.
	ListDeposits(ctx context.Context, db DBTX, status *domain.RequestStatus, limit int) ([]domain.DepositRequest, error)

	// ListDepositsByAccount returns an account's deposit requests, newest first.
	ListDepositsByAccount(ctx context.Context, db DBTX, accountID uuid.UUID, limit int) ([]domain.DepositRequest, error)

	// InsertWithdrawal creates a pending withdrawal request.
	InsertWithdrawal(ctx context.Context, db DBTX, req *domain.WithdrawalRequest) error

	// FindWithdrawal returns a withdrawal request by ID.
	FindWithdrawal(ctx context.Context, db DBTX, id uuid.UUID) (*domain.WithdrawalRequest, error)

	// DecideWithdrawal moves a pending withdrawal to a terminal status.
	// Returns false if the request was already decided.
	DecideWithdrawal(ctx context.Context, db DBTX, id uuid.UUID, status domain.RequestStatus, decidedBy uuid.UUID, reason *string) (bool, error)

	// ListWithdrawals returns withdrawal requests filtered by status, newest first.
	ListWithdrawals(ctx context.Context, db DBTX, status *domain.RequestStatus, limit int) ([]domain.WithdrawalRequest, error)

	// ListWithdrawalsByAccount returns an account's withdrawal requests, newest first.
	ListWithdrawalsByAccount(ctx context.Context, db DBTX, accountID uuid.UUID, limit int) ([]domain.WithdrawalRequest, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the ledger entry).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error
}

// AuthUserRepository provides access to auth_users.
type AuthUserRepository interface {
	// FindByEmail returns an auth user by email, nil if absent.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.AuthUser, error)

	// FindByID returns an auth user by ID, nil if absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.AuthUser, error)

	// Create inserts a new auth user.
	Create(ctx context.Context, db DBTX, user *domain.AuthUser) error
}
