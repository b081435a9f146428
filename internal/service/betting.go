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

// BettingService handles round-game bet placement and history.
type BettingService struct {
	pool      *pgxpool.Pool
	engine    *ledger.Engine
	bets      repository.BetRepository
	rounds    repository.RoundRepository
	schedules map[domain.GameMode]*round.Schedule
	minBet    int64
	logger    *slog.Logger
}

// NewBettingService creates a BettingService covering all game modes.
func NewBettingService(
	pool *pgxpool.Pool,
	engine *ledger.Engine,
	bets repository.BetRepository,
	rounds repository.RoundRepository,
	lockMargin time.Duration,
	minBet int64,
	logger *slog.Logger,
) (*BettingService, error) {
	schedules := make(map[domain.GameMode]*round.Schedule, len(domain.GameModes))
	for _, mode := range domain.GameModes {
		sched, err := round.NewSchedule(mode, lockMargin)
		if err != nil {
			return nil, err
		}
		schedules[mode] = sched
	}
	return &BettingService{
		pool:      pool,
		engine:    engine,
		bets:      bets,
		rounds:    rounds,
		schedules: schedules,
		minBet:    minBet,
		logger:    logger,
	}, nil
}

// RoundInfo describes the currently open round of one mode.
type RoundInfo struct {
	GameMode    domain.GameMode `json:"game_mode"`
	PeriodID    string          `json:"period_id"`
	StartsAt    time.Time       `json:"starts_at"`
	LocksAt     time.Time       `json:"locks_at"`
	ClosesAt    time.Time       `json:"closes_at"`
	AcceptsBets bool            `json:"accepts_bets"`
}

// CurrentRound returns the open round of a mode.
func (s *BettingService) CurrentRound(mode domain.GameMode) (*RoundInfo, error) {
	sched, ok := s.schedules[mode]
	if !ok {
		return nil, domain.ErrValidation("unknown game mode")
	}
	now := time.Now()
	start, lock, close := sched.Window(now)
	return &RoundInfo{
		GameMode:    mode,
		PeriodID:    sched.PeriodID(now),
		StartsAt:    start,
		LocksAt:     lock,
		ClosesAt:    close,
		AcceptsBets: sched.AcceptsBets(now),
	}, nil
}

// PlaceBet validates a selection, debits the stake and records a pending
// bet for the currently open round. The bet settles when the round closes.
func (s *BettingService) PlaceBet(ctx context.Context, accountID uuid.UUID, mode domain.GameMode, betType domain.BetType, betValue string, amount int64) (*domain.Bet, error) {
	sched, ok := s.schedules[mode]
	if !ok {
		return nil, domain.ErrValidation("unknown game mode")
	}
	if err := domain.ValidateBetSelection(betType, betValue); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if amount < s.minBet {
		return nil, domain.ErrBelowMinimumBet(s.minBet)
	}

	now := time.Now()
	periodID := sched.PeriodID(now)
	if !sched.AcceptsBets(now) {
		return nil, domain.ErrRoundLocked(periodID)
	}

	bet := &domain.Bet{
		ID:        uuid.New(),
		AccountID: accountID,
		GameMode:  mode,
		PeriodID:  periodID,
		BetType:   betType,
		BetValue:  betValue,
		BetAmount: amount,
		Status:    domain.BetPending,
		CreatedAt: now,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	meta, _ := json.Marshal(map[string]interface{}{
		"bet_type":  betType,
		"bet_value": betValue,
	})
	_, err = s.engine.ExecuteDebitStake(ctx, tx, domain.DebitStakeParams{
		AccountID:   accountID,
		Amount:      amount,
		ReferenceID: "bet_" + bet.ID.String(),
		RoundID:     string(mode) + ":" + periodID,
		Metadata:    meta,
	})
	if err != nil {
		return nil, err
	}

	if err := s.bets.Insert(ctx, tx, bet); err != nil {
		return nil, domain.ErrInternal("insert bet", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("bet placed", "bet_id", bet.ID, "account_id", accountID,
		"mode", mode, "period", periodID, "amount", amount)
	return bet, nil
}

// History returns an account's bets, newest first.
func (s *BettingService) History(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Bet, error) {
	bets, err := s.bets.ListByAccount(ctx, s.pool, accountID, limit)
	if err != nil {
		return nil, domain.ErrInternal("list bets", err)
	}
	return bets, nil
}

// RecentResults returns the latest settled outcomes of a mode.
func (s *BettingService) RecentResults(ctx context.Context, mode domain.GameMode, limit int) ([]domain.RoundResult, error) {
	if !domain.ValidGameMode(mode) {
		return nil, domain.ErrValidation("unknown game mode")
	}
	results, err := s.rounds.ListRecent(ctx, s.pool, mode, limit)
	if err != nil {
		return nil, domain.ErrInternal("list results", err)
	}
	return results, nil
}
