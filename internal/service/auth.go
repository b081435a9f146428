package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/winpay/platform/internal/auth"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login for players and admins.
type AuthService struct {
	pool     *pgxpool.Pool
	users    repository.AuthUserRepository
	accounts repository.AccountRepository
	outbox   repository.OutboxRepository
	jwtMgr   *auth.JWTManager
	logger   *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	pool *pgxpool.Pool,
	users repository.AuthUserRepository,
	accounts repository.AccountRepository,
	outbox repository.OutboxRepository,
	jwtMgr *auth.JWTManager,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		pool:     pool,
		users:    users,
		accounts: accounts,
		outbox:   outbox,
		jwtMgr:   jwtMgr,
		logger:   logger,
	}
}

// Session is the result of a successful registration or login.
type Session struct {
	Token   string           `json:"token"`
	User    *domain.AuthUser `json:"user"`
	Account *domain.Account  `json:"account,omitempty"`
}

// Register creates an auth user and its account in one transaction and
// returns a player session.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*Session, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if len(password) < 8 {
		return nil, domain.ErrValidation("password must be at least 8 characters")
	}

	existing, err := s.users.FindByEmail(ctx, s.pool, email)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	now := time.Now()
	user := &domain.AuthUser{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         "player",
		CreatedAt:    now,
	}
	account := &domain.Account{
		ID:        user.ID,
		Currency:  "INR",
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.users.Create(ctx, tx, user); err != nil {
		return nil, domain.ErrInternal("create user", err)
	}
	if err := s.accounts.Create(ctx, tx, account); err != nil {
		return nil, domain.ErrInternal("create account", err)
	}
	event := domain.NewAccountCreatedEvent(account.ID, user.Email, account.Currency)
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	token, err := s.jwtMgr.GenerateToken(auth.RealmPlayer, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	s.logger.Info("account registered", "account_id", account.ID, "email", user.Email)
	return &Session{Token: token, User: user, Account: account}, nil
}

// Login verifies credentials and returns a player session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.verify(ctx, email, password)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, s.pool, user.ID)
	if err != nil {
		return nil, domain.ErrInternal("find account", err)
	}

	token, err := s.jwtMgr.GenerateToken(auth.RealmPlayer, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}
	return &Session{Token: token, User: user, Account: account}, nil
}

// LoginAdmin verifies credentials for an admin role and returns an admin session.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user.Role != "admin" && user.Role != "superadmin" {
		return nil, domain.ErrForbidden("not an admin account")
	}

	token, err := s.jwtMgr.GenerateToken(auth.RealmAdmin, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}
	return &Session{Token: token, User: user}, nil
}

func (s *AuthService) verify(ctx context.Context, email, password string) (*domain.AuthUser, error) {
	user, err := s.users.FindByEmail(ctx, s.pool, email)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}
	return user, nil
}
