package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/ledger"
	"github.com/winpay/platform/internal/repository"
	"github.com/winpay/platform/internal/round"
)

// AdminService provides the back-office operations: dashboard stats,
// account search and freezing, manual credits and round outcome preview.
type AdminService struct {
	pool      *pgxpool.Pool
	engine    *ledger.Engine
	generator *round.Generator
	accounts  repository.AccountRepository
	entries   repository.LedgerEntryRepository
	outbox    repository.OutboxRepository
	schedules map[domain.GameMode]*round.Schedule
	logger    *slog.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(
	pool *pgxpool.Pool,
	engine *ledger.Engine,
	generator *round.Generator,
	accounts repository.AccountRepository,
	entries repository.LedgerEntryRepository,
	outbox repository.OutboxRepository,
	lockMargin time.Duration,
	logger *slog.Logger,
) (*AdminService, error) {
	schedules := make(map[domain.GameMode]*round.Schedule, len(domain.GameModes))
	for _, mode := range domain.GameModes {
		sched, err := round.NewSchedule(mode, lockMargin)
		if err != nil {
			return nil, err
		}
		schedules[mode] = sched
	}
	return &AdminService{
		pool:      pool,
		engine:    engine,
		generator: generator,
		accounts:  accounts,
		entries:   entries,
		outbox:    outbox,
		schedules: schedules,
		logger:    logger,
	}, nil
}

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	TotalAccounts      int64 `json:"total_accounts"`
	TodayDeposits      int64 `json:"today_deposits"`
	TodayWithdrawals   int64 `json:"today_withdrawals"`
	TotalActiveBalance int64 `json:"total_active_balance"`
}

// Dashboard computes the admin dashboard stats.
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	total, err := s.accounts.CountAll(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("count accounts", err)
	}
	deposits, err := s.entries.DailySumByType(ctx, s.pool, domain.EntryDepositCredit)
	if err != nil {
		return nil, domain.ErrInternal("today deposits", err)
	}
	withdrawals, err := s.entries.DailySumByType(ctx, s.pool, domain.EntryWithdrawalProcessed)
	if err != nil {
		return nil, domain.ErrInternal("today withdrawals", err)
	}
	balance, err := s.accounts.SumActiveBalance(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("sum balances", err)
	}
	return &DashboardStats{
		TotalAccounts:      total,
		TodayDeposits:      deposits,
		TodayWithdrawals:   withdrawals,
		TotalActiveBalance: balance,
	}, nil
}

// SearchAccounts finds accounts by email or name fragment.
func (s *AdminService) SearchAccounts(ctx context.Context, query string, limit int) ([]domain.AccountSummary, error) {
	summaries, err := s.accounts.Search(ctx, s.pool, query, limit)
	if err != nil {
		return nil, domain.ErrInternal("search accounts", err)
	}
	return summaries, nil
}

// SetFrozen freezes or unfreezes an account. Frozen accounts cannot place
// bets, start grid games or move money; settlement of already-pending bets
// still posts.
func (s *AdminService) SetFrozen(ctx context.Context, adminID, accountID uuid.UUID, frozen bool) (*domain.Account, error) {
	account, err := s.accounts.SetFrozen(ctx, s.pool, accountID, frozen)
	if err != nil {
		return nil, domain.ErrInternal("set frozen", err)
	}
	if account == nil {
		return nil, domain.ErrNotFound("account", accountID.String())
	}

	evtType := domain.EventAccountFrozen
	if !frozen {
		evtType = domain.EventAccountUnfrozen
	}
	payload, _ := json.Marshal(map[string]string{
		"account_id": accountID.String(),
		"admin_id":   adminID.String(),
	})
	event := domain.OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: domain.AggregateAccount,
		AggregateID:   accountID.String(),
		EventType:     evtType,
		PartitionKey:  accountID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
	if err := s.outbox.Insert(ctx, s.pool, event); err != nil {
		s.logger.Error("insert freeze event", "error", err, "account_id", accountID)
	}

	s.logger.Info("account freeze changed", "account_id", accountID, "frozen", frozen, "admin_id", adminID)
	return account, nil
}

// Credit posts a manual admin credit to an account.
func (s *AdminService) Credit(ctx context.Context, adminID, accountID uuid.UUID, amount int64, note string) (*domain.CommandResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	meta, _ := json.Marshal(map[string]string{
		"admin_id": adminID.String(),
		"note":     note,
	})
	result, err := s.engine.ExecuteAdminCredit(ctx, tx, domain.AdminCreditParams{
		AccountID:   accountID,
		Amount:      amount,
		ReferenceID: "admin_credit_" + uuid.New().String(),
		Metadata:    meta,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("admin credit posted", "account_id", accountID, "amount", amount, "admin_id", adminID)
	return result, nil
}

// OutcomePreview shows the upcoming outcomes of a mode. Outcomes are a pure
// function of the server seed and period, so admins can inspect them before
// the round closes.
type OutcomePreview struct {
	GameMode     domain.GameMode `json:"game_mode"`
	PeriodID     string          `json:"period_id"`
	ResultNumber int             `json:"result_number"`
	ResultColor  string          `json:"result_color"`
	ClosesAt     time.Time       `json:"closes_at"`
}

// PreviewOutcomes returns the outcomes of the current and next rounds of a mode.
func (s *AdminService) PreviewOutcomes(ctx context.Context, mode domain.GameMode, count int) ([]OutcomePreview, error) {
	sched, ok := s.schedules[mode]
	if !ok {
		return nil, domain.ErrValidation("unknown game mode")
	}
	if count <= 0 || count > 20 {
		count = 5
	}

	previews := make([]OutcomePreview, 0, count)
	t := time.Now()
	for i := 0; i < count; i++ {
		period := sched.PeriodID(t)
		number, colors := s.generator.Outcome(mode, period)
		_, _, close := sched.Window(t)
		previews = append(previews, OutcomePreview{
			GameMode:     mode,
			PeriodID:     period,
			ResultNumber: number,
			ResultColor:  domain.ColorLabel(colors),
			ClosesAt:     close,
		})
		t = t.Add(sched.Duration)
	}
	return previews, nil
}
