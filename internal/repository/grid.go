package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/infra"
)

type gridGameRepo struct{}

// NewGridGameRepository returns a pgx-backed GridGameRepository.
func NewGridGameRepository() GridGameRepository {
	return &gridGameRepo{}
}

const gridColumns = `id, account_id, bet_amount, mine_count, mine_positions, revealed_cells, multiplier, status, payout, created_at, finished_at`

func (r *gridGameRepo) Insert(ctx context.Context, db DBTX, game *domain.GridGame) error {
	_, err := db.Exec(ctx, `
		INSERT INTO grid_games (id, account_id, bet_amount, mine_count, mine_positions, revealed_cells, multiplier, status, payout, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		game.ID,
		game.AccountID,
		infra.Int64ToNumeric(game.BetAmount),
		game.MineCount,
		game.MinePositions,
		game.RevealedCells,
		game.Multiplier,
		string(game.Status),
		infra.Int64ToNumeric(game.Payout),
		game.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert grid game: %w", err)
	}
	return nil
}

func (r *gridGameRepo) FindActiveForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (*domain.GridGame, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+gridColumns+`
		FROM grid_games
		WHERE account_id = $1 AND status = 'active'
		FOR UPDATE`, accountID)
	return scanGridGame(row)
}

func (r *gridGameRepo) FindActive(ctx context.Context, db DBTX, accountID uuid.UUID) (*domain.GridGame, error) {
	row := db.QueryRow(ctx, `
		SELECT `+gridColumns+`
		FROM grid_games
		WHERE account_id = $1 AND status = 'active'`, accountID)
	return scanGridGame(row)
}

func (r *gridGameRepo) UpdateProgress(ctx context.Context, db DBTX, game *domain.GridGame) error {
	_, err := db.Exec(ctx, `
		UPDATE grid_games
		SET revealed_cells = $1, multiplier = $2
		WHERE id = $3 AND status = 'active'`,
		game.RevealedCells, game.Multiplier, game.ID)
	if err != nil {
		return fmt.Errorf("update grid progress: %w", err)
	}
	return nil
}

func (r *gridGameRepo) Finish(ctx context.Context, db DBTX, game *domain.GridGame) error {
	_, err := db.Exec(ctx, `
		UPDATE grid_games
		SET revealed_cells = $1, multiplier = $2, status = $3, payout = $4, finished_at = $5
		WHERE id = $6 AND status = 'active'`,
		game.RevealedCells, game.Multiplier, string(game.Status),
		infra.Int64ToNumeric(game.Payout), game.FinishedAt, game.ID)
	if err != nil {
		return fmt.Errorf("finish grid game: %w", err)
	}
	return nil
}

func (r *gridGameRepo) ListByAccount(ctx context.Context, db DBTX, accountID uuid.UUID, limit int) ([]domain.GridGame, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.Query(ctx, `
		SELECT `+gridColumns+`
		FROM grid_games
		WHERE account_id = $1 AND status <> 'active'
		ORDER BY created_at DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("query grid games: %w", err)
	}
	defer rows.Close()

	var games []domain.GridGame
	for rows.Next() {
		g, err := scanGridGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

func scanGridGame(row pgx.Row) (*domain.GridGame, error) {
	var g domain.GridGame
	var amountNum, payoutNum pgtype.Numeric
	err := row.Scan(
		&g.ID, &g.AccountID, &amountNum, &g.MineCount,
		&g.MinePositions, &g.RevealedCells, &g.Multiplier,
		&g.Status, &payoutNum, &g.CreatedAt, &g.FinishedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan grid game: %w", err)
	}

	var convErr error
	g.BetAmount, convErr = infra.NumericToInt64(amountNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert bet_amount: %w", convErr)
	}
	g.Payout, convErr = infra.NumericToInt64(payoutNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert payout: %w", convErr)
	}

	return &g, nil
}
