package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/infra"
)

type ledgerEntryRepo struct{}

// NewLedgerEntryRepository returns a pgx-backed LedgerEntryRepository.
func NewLedgerEntryRepository() LedgerEntryRepository {
	return &ledgerEntryRepo{}
}

const entryColumns = `id, account_id, type, amount, balance_after, reserved_balance_after, reference_id, round_id, metadata, created_at`

func (r *ledgerEntryRepo) FindByReference(ctx context.Context, db DBTX, accountID uuid.UUID, referenceID string) (*domain.LedgerEntry, error) {
	row := db.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM ledger_entries
		WHERE account_id = $1 AND reference_id = $2`, accountID, referenceID)
	return scanEntry(row)
}

func (r *ledgerEntryRepo) Insert(ctx context.Context, db DBTX, params domain.PostLedgerEntryParams, balances domain.Balances) (*domain.LedgerEntry, error) {
	meta := params.Metadata
	if meta == nil {
		meta = json.RawMessage(`{}`)
	}

	row := db.QueryRow(ctx, `
		INSERT INTO ledger_entries
		  (id, account_id, type, amount, balance_after, reserved_balance_after, reference_id, round_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+entryColumns,
		uuid.New(),
		params.AccountID,
		string(params.Type),
		infra.Int64ToNumeric(params.Amount),
		infra.Int64ToNumeric(balances.Balance),
		infra.Int64ToNumeric(balances.ReservedBalance),
		params.ReferenceID,
		params.RoundID,
		meta,
	)
	return scanEntry(row)
}

func (r *ledgerEntryRepo) ListByAccount(ctx context.Context, db DBTX, accountID uuid.UUID, cursor *string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows pgx.Rows
	var err error
	if cursor != nil {
		rows, err = db.Query(ctx, `
			SELECT `+entryColumns+`
			FROM ledger_entries
			WHERE account_id = $1
			  AND (created_at, id) <= ((SELECT created_at, id FROM ledger_entries WHERE id = $2))
			ORDER BY created_at DESC, id DESC
			LIMIT $3`, accountID, *cursor, limit)
	} else {
		rows, err = db.Query(ctx, `
			SELECT `+entryColumns+`
			FROM ledger_entries
			WHERE account_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2`, accountID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *ledgerEntryRepo) DailySumByType(ctx context.Context, db DBTX, entryType domain.EntryType) (int64, error) {
	var sum pgtype.Numeric
	err := db.QueryRow(ctx, `
		SELECT COALESCE(sum(amount), 0)
		FROM ledger_entries
		WHERE type = $1 AND created_at >= date_trunc('day', now() AT TIME ZONE 'utc')`,
		string(entryType)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("daily sum: %w", err)
	}
	return infra.NumericToInt64(sum)
}

func (r *ledgerEntryRepo) AccountDailySumByType(ctx context.Context, db DBTX, accountID uuid.UUID, entryType domain.EntryType) (int64, error) {
	var sum pgtype.Numeric
	err := db.QueryRow(ctx, `
		SELECT COALESCE(sum(amount), 0)
		FROM ledger_entries
		WHERE account_id = $1 AND type = $2
		  AND created_at >= date_trunc('day', now() AT TIME ZONE 'utc')`,
		accountID, string(entryType)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("account daily sum: %w", err)
	}
	return infra.NumericToInt64(sum)
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var amountNum, balNum, reservedNum pgtype.Numeric
	err := row.Scan(
		&e.ID, &e.AccountID, &e.Type,
		&amountNum, &balNum, &reservedNum,
		&e.ReferenceID, &e.RoundID, &e.Metadata, &e.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan ledger entry: %w", err)
	}

	var convErr error
	e.Amount, convErr = infra.NumericToInt64(amountNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert amount: %w", convErr)
	}
	e.BalanceAfter, convErr = infra.NumericToInt64(balNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert balance_after: %w", convErr)
	}
	e.ReservedBalanceAfter, convErr = infra.NumericToInt64(reservedNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert reserved_balance_after: %w", convErr)
	}

	return &e, nil
}

func collectEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var amountNum, balNum, reservedNum pgtype.Numeric
		err := rows.Scan(
			&e.ID, &e.AccountID, &e.Type,
			&amountNum, &balNum, &reservedNum,
			&e.ReferenceID, &e.RoundID, &e.Metadata, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry row: %w", err)
		}
		var convErr error
		e.Amount, convErr = infra.NumericToInt64(amountNum)
		if convErr != nil {
			return nil, convErr
		}
		e.BalanceAfter, convErr = infra.NumericToInt64(balNum)
		if convErr != nil {
			return nil, convErr
		}
		e.ReservedBalanceAfter, convErr = infra.NumericToInt64(reservedNum)
		if convErr != nil {
			return nil, convErr
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
