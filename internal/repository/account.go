package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/infra"
)

type accountRepo struct{}

// NewAccountRepository returns a pgx-backed AccountRepository.
func NewAccountRepository() AccountRepository {
	return &accountRepo{}
}

const accountColumns = `id, balance, reserved_balance, total_credited, total_wagered, wager_requirement, frozen, currency, created_at, updated_at`

func (r *accountRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Account, error) {
	row := db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *accountRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts WHERE id = $1 FOR UPDATE`, id)
	return scanAccount(row)
}

func (r *accountRepo) Create(ctx context.Context, db DBTX, account *domain.Account) error {
	_, err := db.Exec(ctx, `
		INSERT INTO accounts (id, balance, reserved_balance, total_credited, total_wagered, wager_requirement, frozen, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID,
		infra.Int64ToNumeric(account.Balance),
		infra.Int64ToNumeric(account.ReservedBalance),
		infra.Int64ToNumeric(account.TotalCredited),
		infra.Int64ToNumeric(account.TotalWagered),
		infra.Int64ToNumeric(account.WagerRequirement),
		account.Frozen,
		account.Currency,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// UpdateBalances uses server-side arithmetic with dynamic SET clauses so the
// database applies deltas against the locked row, never client-computed totals.
func (r *accountRepo) UpdateBalances(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, delta domain.BalanceUpdate) (*domain.Account, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}
	argIdx := 1

	if delta.HasBalanceDelta() {
		setClauses = append(setClauses, fmt.Sprintf("balance = balance + $%d", argIdx))
		args = append(args, infra.Int64ToNumeric(delta.Balance))
		argIdx++
	}
	if delta.HasReservedDelta() {
		setClauses = append(setClauses, fmt.Sprintf("reserved_balance = reserved_balance + $%d", argIdx))
		args = append(args, infra.Int64ToNumeric(delta.ReservedBalance))
		argIdx++
	}
	if delta.HasCreditedDelta() {
		setClauses = append(setClauses, fmt.Sprintf("total_credited = total_credited + $%d", argIdx))
		args = append(args, infra.Int64ToNumeric(delta.TotalCredited))
		argIdx++
	}
	if delta.HasWageredDelta() {
		setClauses = append(setClauses, fmt.Sprintf("total_wagered = total_wagered + $%d", argIdx))
		args = append(args, infra.Int64ToNumeric(delta.TotalWagered))
		argIdx++
	}
	if delta.HasRequirementDelta() {
		setClauses = append(setClauses, fmt.Sprintf("wager_requirement = wager_requirement + $%d", argIdx))
		args = append(args, infra.Int64ToNumeric(delta.WagerRequirement))
		argIdx++
	}

	args = append(args, accountID)
	query := fmt.Sprintf(`
		UPDATE accounts SET %s
		WHERE id = $%d
		RETURNING `+accountColumns,
		strings.Join(setClauses, ", "), argIdx)

	row := tx.QueryRow(ctx, query, args...)
	return scanAccount(row)
}

func (r *accountRepo) SetFrozen(ctx context.Context, db DBTX, accountID uuid.UUID, frozen bool) (*domain.Account, error) {
	row := db.QueryRow(ctx, `
		UPDATE accounts SET frozen = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+accountColumns, frozen, accountID)
	return scanAccount(row)
}

func (r *accountRepo) Search(ctx context.Context, db DBTX, query string, limit int) ([]domain.AccountSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	pattern := "%" + query + "%"
	rows, err := db.Query(ctx, `
		SELECT a.id, u.email, u.name, a.balance, a.total_credited, a.total_wagered, a.frozen, a.created_at
		FROM accounts a
		JOIN auth_users u ON u.id = a.id
		WHERE u.email ILIKE $1 OR u.name ILIKE $1
		ORDER BY a.created_at DESC
		LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search accounts: %w", err)
	}
	defer rows.Close()

	var summaries []domain.AccountSummary
	for rows.Next() {
		var s domain.AccountSummary
		var balNum, creditedNum, wageredNum pgtype.Numeric
		if err := rows.Scan(&s.ID, &s.Email, &s.Name, &balNum, &creditedNum, &wageredNum, &s.Frozen, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account summary: %w", err)
		}
		var convErr error
		s.Balance, convErr = infra.NumericToInt64(balNum)
		if convErr != nil {
			return nil, convErr
		}
		s.TotalCredited, convErr = infra.NumericToInt64(creditedNum)
		if convErr != nil {
			return nil, convErr
		}
		s.TotalWagered, convErr = infra.NumericToInt64(wageredNum)
		if convErr != nil {
			return nil, convErr
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *accountRepo) CountAll(ctx context.Context, db DBTX) (int64, error) {
	var count int64
	err := db.QueryRow(ctx, `SELECT count(*) FROM accounts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

func (r *accountRepo) SumActiveBalance(ctx context.Context, db DBTX) (int64, error) {
	var sum pgtype.Numeric
	err := db.QueryRow(ctx, `SELECT COALESCE(sum(balance), 0) FROM accounts`).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum balances: %w", err)
	}
	return infra.NumericToInt64(sum)
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	var balNum, reservedNum, creditedNum, wageredNum, requirementNum pgtype.Numeric
	err := row.Scan(&a.ID, &balNum, &reservedNum, &creditedNum, &wageredNum, &requirementNum,
		&a.Frozen, &a.Currency, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	var convErr error
	a.Balance, convErr = infra.NumericToInt64(balNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert balance: %w", convErr)
	}
	a.ReservedBalance, convErr = infra.NumericToInt64(reservedNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert reserved_balance: %w", convErr)
	}
	a.TotalCredited, convErr = infra.NumericToInt64(creditedNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert total_credited: %w", convErr)
	}
	a.TotalWagered, convErr = infra.NumericToInt64(wageredNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert total_wagered: %w", convErr)
	}
	a.WagerRequirement, convErr = infra.NumericToInt64(requirementNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert wager_requirement: %w", convErr)
	}

	return &a, nil
}
