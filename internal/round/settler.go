package round

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/ledger"
	"github.com/winpay/platform/internal/repository"
)

// Settler closes rounds and settles their bets. Every tick it records the
// outcome of each just-closed round and settles all pending bets of closed
// rounds, including ones left behind by an earlier crash. Multiple settler
// instances may run concurrently: the round_results claim and the
// status = 'pending' guard on bets keep settlement exactly-once.
type Settler struct {
	pool      *pgxpool.Pool
	engine    *ledger.Engine
	generator *Generator
	bets      repository.BetRepository
	rounds    repository.RoundRepository
	outbox    repository.OutboxRepository
	schedules map[domain.GameMode]*Schedule
	logger    *slog.Logger
	interval  time.Duration
}

// NewSettler creates a settler covering all game modes.
func NewSettler(
	pool *pgxpool.Pool,
	engine *ledger.Engine,
	generator *Generator,
	bets repository.BetRepository,
	rounds repository.RoundRepository,
	outbox repository.OutboxRepository,
	lockMargin time.Duration,
	logger *slog.Logger,
) (*Settler, error) {
	schedules := make(map[domain.GameMode]*Schedule, len(domain.GameModes))
	for _, mode := range domain.GameModes {
		s, err := NewSchedule(mode, lockMargin)
		if err != nil {
			return nil, err
		}
		schedules[mode] = s
	}
	return &Settler{
		pool:      pool,
		engine:    engine,
		generator: generator,
		bets:      bets,
		rounds:    rounds,
		outbox:    outbox,
		schedules: schedules,
		logger:    logger,
		interval:  time.Second,
	}, nil
}

// Schedule returns the schedule for a mode, nil if unknown.
func (s *Settler) Schedule(mode domain.GameMode) *Schedule {
	return s.schedules[mode]
}

// Start begins the settlement loop in a goroutine. Stops when ctx is cancelled.
func (s *Settler) Start(ctx context.Context) {
	s.logger.Info("round settler started", "interval", s.interval, "modes", len(s.schedules))

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("round settler stopped")
				return
			case <-ticker.C:
				s.tick(ctx, time.Now())
			}
		}
	}()
}

func (s *Settler) tick(ctx context.Context, now time.Time) {
	for mode, sched := range s.schedules {
		open := sched.PeriodID(now)

		// Record the just-closed round even when nobody bet on it, so
		// the results history has no gaps.
		due := map[string]bool{sched.PreviousPeriodID(now): true}

		periods, err := s.bets.ListPendingPeriods(ctx, s.pool, mode, open)
		if err != nil {
			s.logger.Error("list pending periods failed", "mode", mode, "error", err)
			continue
		}
		for _, p := range periods {
			due[p] = true
		}

		for period := range due {
			if err := s.SettleRound(ctx, mode, period); err != nil {
				s.logger.Error("settle round failed", "mode", mode, "period", period, "error", err)
			}
		}
	}
}

// SettleRound records the outcome of one closed round and settles its
// pending bets. Safe to call repeatedly and concurrently.
func (s *Settler) SettleRound(ctx context.Context, mode domain.GameMode, periodID string) error {
	result, err := s.ensureResult(ctx, mode, periodID)
	if err != nil {
		return err
	}

	pending, err := s.bets.ListPending(ctx, s.pool, mode, periodID)
	if err != nil {
		return err
	}

	settled := 0
	for i := range pending {
		if err := s.settleBet(ctx, &pending[i], result); err != nil {
			// Leave the bet pending; the next tick retries it.
			s.logger.Error("settle bet failed", "bet_id", pending[i].ID, "error", err)
			continue
		}
		settled++
	}

	if settled > 0 {
		s.logger.Info("round settled", "mode", mode, "period", periodID,
			"result", result.ResultNumber, "bets", settled)
	}
	return nil
}

// ensureResult returns the round's recorded outcome, generating and
// claiming it if absent. First writer wins; losers read the stored row.
func (s *Settler) ensureResult(ctx context.Context, mode domain.GameMode, periodID string) (*domain.RoundResult, error) {
	existing, err := s.rounds.Find(ctx, s.pool, mode, periodID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	number, colors := s.generator.Outcome(mode, periodID)
	result := &domain.RoundResult{
		GameMode:     mode,
		PeriodID:     periodID,
		ResultNumber: number,
		ResultColor:  domain.ColorLabel(colors),
		SettledAt:    time.Now(),
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin claim tx: %w", err)
	}
	defer tx.Rollback(ctx)

	claimed, err := s.rounds.Claim(ctx, tx, result)
	if err != nil {
		return nil, err
	}
	if claimed {
		event := domain.NewRoundSettledEvent(mode, periodID, number, colors, 0)
		if err := s.outbox.Insert(ctx, tx, event); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit claim tx: %w", err)
		}
		return result, nil
	}

	// Lost the race; another settler recorded the outcome first.
	stored, err := s.rounds.Find(ctx, s.pool, mode, periodID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("round %s/%s claimed but not found", mode, periodID)
	}
	return stored, nil
}

// settleBet resolves one pending bet in its own transaction.
func (s *Settler) settleBet(ctx context.Context, bet *domain.Bet, result *domain.RoundResult) error {
	won, winAmount := Payout(bet.BetType, bet.BetValue, bet.BetAmount, result.ResultNumber)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin settle tx: %w", err)
	}
	defer tx.Rollback(ctx)

	roundID := string(bet.GameMode) + ":" + bet.PeriodID
	meta, _ := json.Marshal(map[string]interface{}{
		"bet_id":        bet.ID.String(),
		"bet_type":      bet.BetType,
		"bet_value":     bet.BetValue,
		"result_number": result.ResultNumber,
	})

	if won {
		_, err = s.engine.ExecuteCreditWin(ctx, tx, domain.CreditWinParams{
			AccountID:   bet.AccountID,
			Amount:      winAmount,
			StakeAmount: bet.BetAmount,
			ReferenceID: "settle_" + bet.ID.String(),
			RoundID:     roundID,
			Metadata:    meta,
		})
	} else {
		_, err = s.engine.ExecuteRecordLoss(ctx, tx, domain.RecordLossParams{
			AccountID:   bet.AccountID,
			StakeAmount: bet.BetAmount,
			ReferenceID: "settle_" + bet.ID.String(),
			RoundID:     roundID,
			Metadata:    meta,
		})
	}
	if err != nil {
		return err
	}

	flipped, err := s.bets.MarkSettled(ctx, tx, bet.ID, result.ResultNumber, result.ResultColor, winAmount, time.Now())
	if err != nil {
		return err
	}
	if !flipped {
		// Already settled by a concurrent settler; the ledger idempotency
		// check made the credit above a no-op.
		return tx.Rollback(ctx)
	}

	return tx.Commit(ctx)
}
