package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/infra"
)

type betRepo struct{}

// NewBetRepository returns a pgx-backed BetRepository.
func NewBetRepository() BetRepository {
	return &betRepo{}
}

const betColumns = `id, account_id, game_mode, period_id, bet_type, bet_value, bet_amount, status, result_number, result_color, win_amount, created_at, settled_at`

func (r *betRepo) Insert(ctx context.Context, db DBTX, bet *domain.Bet) error {
	_, err := db.Exec(ctx, `
		INSERT INTO bets (id, account_id, game_mode, period_id, bet_type, bet_value, bet_amount, status, win_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		bet.ID,
		bet.AccountID,
		string(bet.GameMode),
		bet.PeriodID,
		string(bet.BetType),
		bet.BetValue,
		infra.Int64ToNumeric(bet.BetAmount),
		string(bet.Status),
		infra.Int64ToNumeric(bet.WinAmount),
		bet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bet: %w", err)
	}
	return nil
}

func (r *betRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Bet, error) {
	row := db.QueryRow(ctx, `
		SELECT `+betColumns+`
		FROM bets WHERE id = $1`, id)
	return scanBet(row)
}

func (r *betRepo) ListByAccount(ctx context.Context, db DBTX, accountID uuid.UUID, limit int) ([]domain.Bet, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.Query(ctx, `
		SELECT `+betColumns+`
		FROM bets
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("query bets: %w", err)
	}
	defer rows.Close()

	return collectBets(rows)
}

func (r *betRepo) ListPending(ctx context.Context, db DBTX, mode domain.GameMode, periodID string) ([]domain.Bet, error) {
	rows, err := db.Query(ctx, `
		SELECT `+betColumns+`
		FROM bets
		WHERE game_mode = $1 AND period_id = $2 AND status = 'pending'
		ORDER BY created_at ASC`, string(mode), periodID)
	if err != nil {
		return nil, fmt.Errorf("query pending bets: %w", err)
	}
	defer rows.Close()

	return collectBets(rows)
}

func (r *betRepo) ListPendingPeriods(ctx context.Context, db DBTX, mode domain.GameMode, openPeriodID string) ([]string, error) {
	rows, err := db.Query(ctx, `
		SELECT DISTINCT period_id
		FROM bets
		WHERE game_mode = $1 AND status = 'pending' AND period_id <> $2
		ORDER BY period_id ASC`, string(mode), openPeriodID)
	if err != nil {
		return nil, fmt.Errorf("query pending periods: %w", err)
	}
	defer rows.Close()

	var periods []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// MarkSettled guards on status = 'pending' so a bet settles exactly once
// even when two settlers race.
func (r *betRepo) MarkSettled(ctx context.Context, db DBTX, betID uuid.UUID, resultNumber int, resultColor string, winAmount int64, settledAt time.Time) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE bets
		SET status = 'settled', result_number = $1, result_color = $2, win_amount = $3, settled_at = $4
		WHERE id = $5 AND status = 'pending'`,
		resultNumber, resultColor, infra.Int64ToNumeric(winAmount), settledAt, betID)
	if err != nil {
		return false, fmt.Errorf("mark bet settled: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanBet(row pgx.Row) (*domain.Bet, error) {
	var b domain.Bet
	var amountNum, winNum pgtype.Numeric
	err := row.Scan(
		&b.ID, &b.AccountID, &b.GameMode, &b.PeriodID,
		&b.BetType, &b.BetValue, &amountNum, &b.Status,
		&b.ResultNumber, &b.ResultColor, &winNum, &b.CreatedAt, &b.SettledAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan bet: %w", err)
	}

	var convErr error
	b.BetAmount, convErr = infra.NumericToInt64(amountNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert bet_amount: %w", convErr)
	}
	b.WinAmount, convErr = infra.NumericToInt64(winNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert win_amount: %w", convErr)
	}

	return &b, nil
}

func collectBets(rows pgx.Rows) ([]domain.Bet, error) {
	var bets []domain.Bet
	for rows.Next() {
		var b domain.Bet
		var amountNum, winNum pgtype.Numeric
		err := rows.Scan(
			&b.ID, &b.AccountID, &b.GameMode, &b.PeriodID,
			&b.BetType, &b.BetValue, &amountNum, &b.Status,
			&b.ResultNumber, &b.ResultColor, &winNum, &b.CreatedAt, &b.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan bet row: %w", err)
		}
		var convErr error
		b.BetAmount, convErr = infra.NumericToInt64(amountNum)
		if convErr != nil {
			return nil, convErr
		}
		b.WinAmount, convErr = infra.NumericToInt64(winNum)
		if convErr != nil {
			return nil, convErr
		}
		bets = append(bets, b)
	}
	return bets, rows.Err()
}
