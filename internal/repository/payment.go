package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/infra"
)

type paymentRepo struct{}

// NewPaymentRepository returns a pgx-backed PaymentRepository.
func NewPaymentRepository() PaymentRepository {
	return &paymentRepo{}
}

const depositColumns = `id, account_id, amount, utr, sender_upi, screenshot_ref, status, rejection_reason, decided_by, decided_at, created_at`
const withdrawalColumns = `id, account_id, amount, wager_progress, status, rejection_reason, decided_by, decided_at, created_at`

func (r *paymentRepo) InsertDeposit(ctx context.Context, db DBTX, req *domain.DepositRequest) error {
	_, err := db.Exec(ctx, `
		INSERT INTO deposit_requests (id, account_id, amount, utr, sender_upi, screenshot_ref, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID,
		req.AccountID,
		infra.Int64ToNumeric(req.Amount),
		req.UTR,
		req.SenderUPI,
		req.ScreenshotRef,
		string(req.Status),
		req.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateUTR(req.UTR)
		}
		return fmt.Errorf("insert deposit request: %w", err)
	}
	return nil
}

func (r *paymentRepo) FindDeposit(ctx context.Context, db DBTX, id uuid.UUID) (*domain.DepositRequest, error) {
	row := db.QueryRow(ctx, `
		SELECT `+depositColumns+`
		FROM deposit_requests WHERE id = $1`, id)
	return scanDeposit(row)
}

// DecideDeposit guards on status = 'pending' so the first admin decision
// wins and a second one reports ALREADY_DECIDED.
func (r *paymentRepo) DecideDeposit(ctx context.Context, db DBTX, id uuid.UUID, status domain.RequestStatus, decidedBy uuid.UUID, reason *string) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE deposit_requests
		SET status = $1, rejection_reason = $2, decided_by = $3, decided_at = now()
		WHERE id = $4 AND status = 'pending'`,
		string(status), reason, decidedBy, id)
	if err != nil {
		return false, fmt.Errorf("decide deposit: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *paymentRepo) ListDeposits(ctx context.Context, db DBTX, status *domain.RequestStatus, limit int) ([]domain.DepositRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows pgx.Rows
	var err error
	if status != nil {
		rows, err = db.Query(ctx, `
			SELECT `+depositColumns+`
			FROM deposit_requests
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2`, string(*status), limit)
	} else {
		rows, err = db.Query(ctx, `
			SELECT `+depositColumns+`
			FROM deposit_requests
			ORDER BY created_at DESC
			LIMIT $1`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query deposit requests: %w", err)
	}
	defer rows.Close()

	return collectDeposits(rows)
}

func (r *paymentRepo) ListDepositsByAccount(ctx context.Context, db DBTX, accountID uuid.UUID, limit int) ([]domain.DepositRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.Query(ctx, `
		SELECT `+depositColumns+`
		FROM deposit_requests
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("query account deposits: %w", err)
	}
	defer rows.Close()

	return collectDeposits(rows)
}

func (r *paymentRepo) InsertWithdrawal(ctx context.Context, db DBTX, req *domain.WithdrawalRequest) error {
	_, err := db.Exec(ctx, `
		INSERT INTO withdrawal_requests (id, account_id, amount, wager_progress, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		req.ID,
		req.AccountID,
		infra.Int64ToNumeric(req.Amount),
		req.WagerProgress,
		string(req.Status),
		req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert withdrawal request: %w", err)
	}
	return nil
}

func (r *paymentRepo) FindWithdrawal(ctx context.Context, db DBTX, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	row := db.QueryRow(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawal_requests WHERE id = $1`, id)
	return scanWithdrawal(row)
}

func (r *paymentRepo) DecideWithdrawal(ctx context.Context, db DBTX, id uuid.UUID, status domain.RequestStatus, decidedBy uuid.UUID, reason *string) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE withdrawal_requests
		SET status = $1, rejection_reason = $2, decided_by = $3, decided_at = now()
		WHERE id = $4 AND status = 'pending'`,
		string(status), reason, decidedBy, id)
	if err != nil {
		return false, fmt.Errorf("decide withdrawal: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *paymentRepo) ListWithdrawals(ctx context.Context, db DBTX, status *domain.RequestStatus, limit int) ([]domain.WithdrawalRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows pgx.Rows
	var err error
	if status != nil {
		rows, err = db.Query(ctx, `
			SELECT `+withdrawalColumns+`
			FROM withdrawal_requests
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2`, string(*status), limit)
	} else {
		rows, err = db.Query(ctx, `
			SELECT `+withdrawalColumns+`
			FROM withdrawal_requests
			ORDER BY created_at DESC
			LIMIT $1`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query withdrawal requests: %w", err)
	}
	defer rows.Close()

	return collectWithdrawals(rows)
}

func (r *paymentRepo) ListWithdrawalsByAccount(ctx context.Context, db DBTX, accountID uuid.UUID, limit int) ([]domain.WithdrawalRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.Query(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawal_requests
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("query account withdrawals: %w", err)
	}
	defer rows.Close()

	return collectWithdrawals(rows)
}

func scanDeposit(row pgx.Row) (*domain.DepositRequest, error) {
	var d domain.DepositRequest
	var amountNum pgtype.Numeric
	err := row.Scan(
		&d.ID, &d.AccountID, &amountNum, &d.UTR, &d.SenderUPI, &d.ScreenshotRef,
		&d.Status, &d.RejectionReason, &d.DecidedBy, &d.DecidedAt, &d.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan deposit request: %w", err)
	}
	d.Amount, err = infra.NumericToInt64(amountNum)
	if err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}
	return &d, nil
}

func collectDeposits(rows pgx.Rows) ([]domain.DepositRequest, error) {
	var reqs []domain.DepositRequest
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *d)
	}
	return reqs, rows.Err()
}

func scanWithdrawal(row pgx.Row) (*domain.WithdrawalRequest, error) {
	var w domain.WithdrawalRequest
	var amountNum pgtype.Numeric
	err := row.Scan(
		&w.ID, &w.AccountID, &amountNum, &w.WagerProgress,
		&w.Status, &w.RejectionReason, &w.DecidedBy, &w.DecidedAt, &w.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan withdrawal request: %w", err)
	}
	w.Amount, err = infra.NumericToInt64(amountNum)
	if err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}
	return &w, nil
}

func collectWithdrawals(rows pgx.Rows) ([]domain.WithdrawalRequest, error) {
	var reqs []domain.WithdrawalRequest
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *w)
	}
	return reqs, rows.Err()
}
