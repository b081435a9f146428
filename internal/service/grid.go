package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/grid"
	"github.com/winpay/platform/internal/ledger"
	"github.com/winpay/platform/internal/provider"
	"github.com/winpay/platform/internal/repository"
)

// GridService orchestrates grid games: start, reveal, cashout. One active
// game per account; the stake is debited at start and a payout (if any) is
// credited when the game finishes.
type GridService struct {
	pool   *pgxpool.Pool
	engine *ledger.Engine
	game   *grid.Engine
	rng    *provider.RandomOrgClient
	games  repository.GridGameRepository
	outbox repository.OutboxRepository
	minBet int64
	logger *slog.Logger
}

// NewGridService creates a GridService.
func NewGridService(
	pool *pgxpool.Pool,
	engine *ledger.Engine,
	game *grid.Engine,
	rng *provider.RandomOrgClient,
	games repository.GridGameRepository,
	outbox repository.OutboxRepository,
	minBet int64,
	logger *slog.Logger,
) *GridService {
	return &GridService{
		pool:   pool,
		engine: engine,
		game:   game,
		rng:    rng,
		games:  games,
		outbox: outbox,
		minBet: minBet,
		logger: logger,
	}
}

// GridView is a grid game as shown to its player. Mine positions stay
// hidden until the game finishes.
type GridView struct {
	ID             uuid.UUID         `json:"id"`
	BetAmount      int64             `json:"bet_amount"`
	MineCount      int               `json:"mine_count"`
	RevealedCells  []int             `json:"revealed_cells"`
	Multiplier     float64           `json:"multiplier"`
	NextMultiplier float64           `json:"next_multiplier"`
	Status         domain.GridStatus `json:"status"`
	Payout         int64             `json:"payout"`
	MinePositions  []int             `json:"mine_positions,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	FinishedAt     *time.Time        `json:"finished_at,omitempty"`
}

func (s *GridService) view(g *domain.GridGame) *GridView {
	v := &GridView{
		ID:            g.ID,
		BetAmount:     g.BetAmount,
		MineCount:     g.MineCount,
		RevealedCells: g.RevealedCells,
		Multiplier:    g.Multiplier,
		Status:        g.Status,
		Payout:        g.Payout,
		CreatedAt:     g.CreatedAt,
		FinishedAt:    g.FinishedAt,
	}
	if g.Status == domain.GridActive {
		v.NextMultiplier = s.game.Multiplier(g.MineCount, len(g.RevealedCells)+1)
	} else {
		// The board is revealed once the game is over.
		v.MinePositions = g.MinePositions
	}
	return v
}

// Start debits the stake and creates an active grid game with server-side
// mine placement.
func (s *GridService) Start(ctx context.Context, accountID uuid.UUID, amount int64, mineCount int) (*GridView, error) {
	if amount < s.minBet {
		return nil, domain.ErrBelowMinimumBet(s.minBet)
	}
	if err := domain.ValidateMineCount(mineCount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	mines, err := s.rng.MinePositions(ctx, mineCount, domain.GridCells)
	if err != nil {
		return nil, domain.ErrInternal("draw mine positions", err)
	}

	game := &domain.GridGame{
		ID:            uuid.New(),
		AccountID:     accountID,
		BetAmount:     amount,
		MineCount:     mineCount,
		MinePositions: mines,
		RevealedCells: []int{},
		Multiplier:    1,
		Status:        domain.GridActive,
		CreatedAt:     time.Now(),
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	meta, _ := json.Marshal(map[string]interface{}{
		"game":       "grid",
		"mine_count": mineCount,
	})
	_, err = s.engine.ExecuteDebitStake(ctx, tx, domain.DebitStakeParams{
		AccountID:   accountID,
		Amount:      amount,
		ReferenceID: "grid_bet_" + game.ID.String(),
		RoundID:     "grid:" + game.ID.String(),
		Metadata:    meta,
	})
	if err != nil {
		return nil, err
	}

	if err := s.games.Insert(ctx, tx, game); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrGameAlreadyActive()
		}
		return nil, domain.ErrInternal("insert grid game", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("grid game started", "game_id", game.ID, "account_id", accountID,
		"amount", amount, "mines", mineCount)
	return s.view(game), nil
}

// Reveal uncovers one cell of the named game. Hitting a mine busts the
// game; revealing the last safe cell cashes out automatically. The game
// must be the account's active game; stale IDs are rejected.
func (s *GridService) Reveal(ctx context.Context, accountID, gameID uuid.UUID, cell int) (*GridView, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	game, err := s.games.FindActiveForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, domain.ErrInternal("find active game", err)
	}
	if game == nil {
		return nil, domain.ErrGameNotActive(gameID.String())
	}
	if game.ID != gameID {
		return nil, domain.ErrGameNotActive(gameID.String())
	}

	hitMine, err := s.game.Reveal(game, cell)
	if err != nil {
		return nil, err
	}

	switch {
	case hitMine:
		if err := s.finishLost(ctx, tx, game); err != nil {
			return nil, err
		}
	case game.Status == domain.GridCashedOut:
		if err := s.finishWon(ctx, tx, game); err != nil {
			return nil, err
		}
	default:
		if err := s.games.UpdateProgress(ctx, tx, game); err != nil {
			return nil, domain.ErrInternal("update progress", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}
	return s.view(game), nil
}

// CashOut finishes the account's active game at the current multiplier.
func (s *GridService) CashOut(ctx context.Context, accountID uuid.UUID) (*GridView, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	game, err := s.games.FindActiveForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, domain.ErrInternal("find active game", err)
	}
	if game == nil {
		return nil, domain.ErrGameNotActive("none")
	}

	if _, err := s.game.CashOut(game); err != nil {
		return nil, err
	}
	if err := s.finishWon(ctx, tx, game); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("grid game cashed out", "game_id", game.ID,
		"multiplier", game.Multiplier, "payout", game.Payout)
	return s.view(game), nil
}

// Active returns the account's active game, nil if none.
func (s *GridService) Active(ctx context.Context, accountID uuid.UUID) (*GridView, error) {
	game, err := s.games.FindActive(ctx, s.pool, accountID)
	if err != nil {
		return nil, domain.ErrInternal("find active game", err)
	}
	if game == nil {
		return nil, nil
	}
	return s.view(game), nil
}

// History returns an account's finished games, newest first.
func (s *GridService) History(ctx context.Context, accountID uuid.UUID, limit int) ([]GridView, error) {
	games, err := s.games.ListByAccount(ctx, s.pool, accountID, limit)
	if err != nil {
		return nil, domain.ErrInternal("list grid games", err)
	}
	views := make([]GridView, 0, len(games))
	for i := range games {
		views = append(views, *s.view(&games[i]))
	}
	return views, nil
}

func (s *GridService) finishWon(ctx context.Context, tx pgx.Tx, game *domain.GridGame) error {
	meta, _ := json.Marshal(map[string]interface{}{
		"game":       "grid",
		"mine_count": game.MineCount,
		"revealed":   len(game.RevealedCells),
		"multiplier": game.Multiplier,
	})
	_, err := s.engine.ExecuteCreditWin(ctx, tx, domain.CreditWinParams{
		AccountID:   game.AccountID,
		Amount:      game.Payout,
		StakeAmount: game.BetAmount,
		ReferenceID: "grid_win_" + game.ID.String(),
		RoundID:     "grid:" + game.ID.String(),
		Metadata:    meta,
	})
	if err != nil {
		return err
	}
	return s.finish(ctx, tx, game)
}

func (s *GridService) finishLost(ctx context.Context, tx pgx.Tx, game *domain.GridGame) error {
	meta, _ := json.Marshal(map[string]interface{}{
		"game":       "grid",
		"mine_count": game.MineCount,
		"revealed":   len(game.RevealedCells),
	})
	_, err := s.engine.ExecuteRecordLoss(ctx, tx, domain.RecordLossParams{
		AccountID:   game.AccountID,
		StakeAmount: game.BetAmount,
		ReferenceID: "grid_loss_" + game.ID.String(),
		RoundID:     "grid:" + game.ID.String(),
		Metadata:    meta,
	})
	if err != nil {
		return err
	}
	return s.finish(ctx, tx, game)
}

func (s *GridService) finish(ctx context.Context, tx pgx.Tx, game *domain.GridGame) error {
	if err := s.games.Finish(ctx, tx, game); err != nil {
		return domain.ErrInternal("finish grid game", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewGridGameFinishedEvent(game)); err != nil {
		return domain.ErrInternal("insert outbox event", err)
	}
	return nil
}
