package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/winpay/platform/internal/domain"
)

type roundRepo struct{}

// NewRoundRepository returns a pgx-backed RoundRepository.
func NewRoundRepository() RoundRepository {
	return &roundRepo{}
}

// Claim relies on the primary key (game_mode, period_id): the first insert
// wins and every later one is a no-op, so concurrent settlers agree on a
// single outcome.
func (r *roundRepo) Claim(ctx context.Context, db DBTX, result *domain.RoundResult) (bool, error) {
	tag, err := db.Exec(ctx, `
		INSERT INTO round_results (game_mode, period_id, result_number, result_color, settled_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_mode, period_id) DO NOTHING`,
		string(result.GameMode), result.PeriodID, result.ResultNumber, result.ResultColor, result.SettledAt)
	if err != nil {
		return false, fmt.Errorf("claim round: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *roundRepo) Find(ctx context.Context, db DBTX, mode domain.GameMode, periodID string) (*domain.RoundResult, error) {
	var res domain.RoundResult
	err := db.QueryRow(ctx, `
		SELECT game_mode, period_id, result_number, result_color, settled_at
		FROM round_results
		WHERE game_mode = $1 AND period_id = $2`, string(mode), periodID).
		Scan(&res.GameMode, &res.PeriodID, &res.ResultNumber, &res.ResultColor, &res.SettledAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find round result: %w", err)
	}
	return &res, nil
}

func (r *roundRepo) ListRecent(ctx context.Context, db DBTX, mode domain.GameMode, limit int) ([]domain.RoundResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.Query(ctx, `
		SELECT game_mode, period_id, result_number, result_color, settled_at
		FROM round_results
		WHERE game_mode = $1
		ORDER BY period_id DESC
		LIMIT $2`, string(mode), limit)
	if err != nil {
		return nil, fmt.Errorf("query round results: %w", err)
	}
	defer rows.Close()

	var results []domain.RoundResult
	for rows.Next() {
		var res domain.RoundResult
		if err := rows.Scan(&res.GameMode, &res.PeriodID, &res.ResultNumber, &res.ResultColor, &res.SettledAt); err != nil {
			return nil, fmt.Errorf("scan round result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
