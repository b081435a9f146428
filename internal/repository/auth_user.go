package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/winpay/platform/internal/domain"
)

type authUserRepo struct{}

// NewAuthUserRepository returns a pgx-backed AuthUserRepository.
func NewAuthUserRepository() AuthUserRepository {
	return &authUserRepo{}
}

func (r *authUserRepo) FindByEmail(ctx context.Context, db DBTX, email string) (*domain.AuthUser, error) {
	row := db.QueryRow(ctx, `
		SELECT id, email, name, password_hash, role, created_at
		FROM auth_users WHERE lower(email) = lower($1)`, email)
	return scanAuthUser(row)
}

func (r *authUserRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.AuthUser, error) {
	row := db.QueryRow(ctx, `
		SELECT id, email, name, password_hash, role, created_at
		FROM auth_users WHERE id = $1`, id)
	return scanAuthUser(row)
}

func (r *authUserRepo) Create(ctx context.Context, db DBTX, user *domain.AuthUser) error {
	_, err := db.Exec(ctx, `
		INSERT INTO auth_users (id, email, name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert auth user: %w", err)
	}
	return nil
}

func scanAuthUser(row pgx.Row) (*domain.AuthUser, error) {
	var u domain.AuthUser
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan auth user: %w", err)
	}
	return &u, nil
}
