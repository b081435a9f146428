//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/winpay/platform/internal/auth"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// RegisterPlayer creates a new player and returns the auth token and account ID.
func (env *TestEnv) RegisterPlayer(email, password string) (token string, accountID uuid.UUID) {
	env.t.Helper()
	resp := env.POST("/api/v1/auth/register", map[string]string{
		"email":    email,
		"name":     "Test Player",
		"password": password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("RegisterPlayer: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		Token   string `json:"token"`
		Account struct {
			ID uuid.UUID `json:"id"`
		} `json:"account"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("RegisterPlayer: decode: %v", err)
	}
	return result.Token, result.Account.ID
}

// CreateAdmin inserts an admin auth user directly and returns an admin token.
func (env *TestEnv) CreateAdmin(email string) string {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	adminID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("adminpass123"), bcrypt.MinCost)
	if err != nil {
		env.t.Fatalf("CreateAdmin: hash: %v", err)
	}
	_, err = env.Pool.Exec(ctx, `
		INSERT INTO auth_users (id, email, name, password_hash, role)
		VALUES ($1, $2, 'Test Admin', $3, 'admin')`, adminID, email, string(hash))
	if err != nil {
		env.t.Fatalf("CreateAdmin: insert: %v", err)
	}

	token, err := env.JWTMgr.GenerateToken(auth.RealmAdmin, adminID, email, "admin")
	if err != nil {
		env.t.Fatalf("CreateAdmin: token: %v", err)
	}
	return token
}

// DirectCredit funds an account's spendable balance through the ledger
// engine, bypassing the deposit approval flow.
func (env *TestEnv) DirectCredit(accountID uuid.UUID, amount int64) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := env.Pool.Begin(ctx)
	if err != nil {
		env.t.Fatalf("DirectCredit: begin tx: %v", err)
	}
	defer tx.Rollback(ctx)

	_, err = env.Engine.ExecuteAdminCredit(ctx, tx, domain.AdminCreditParams{
		AccountID:   accountID,
		Amount:      amount,
		ReferenceID: fmt.Sprintf("test_credit_%s", uuid.New().String()[:8]),
	})
	if err != nil {
		env.t.Fatalf("DirectCredit: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		env.t.Fatalf("DirectCredit: commit: %v", err)
	}
}

// SetWagered overwrites an account's betting turnover directly.
func (env *TestEnv) SetWagered(accountID uuid.UUID, amount int64) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := env.Pool.Exec(ctx,
		"UPDATE accounts SET total_wagered = $2, updated_at = now() WHERE id = $1",
		accountID, amount)
	if err != nil {
		env.t.Fatalf("SetWagered: %v", err)
	}
}

// PlaceBetForPeriod debits the stake and inserts a pending bet for an
// arbitrary period, bypassing the betting service's lock window check.
func (env *TestEnv) PlaceBetForPeriod(accountID uuid.UUID, mode domain.GameMode, periodID string, betType domain.BetType, betValue string, amount int64) uuid.UUID {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bet := &domain.Bet{
		ID:        uuid.New(),
		AccountID: accountID,
		GameMode:  mode,
		PeriodID:  periodID,
		BetType:   betType,
		BetValue:  betValue,
		BetAmount: amount,
		Status:    domain.BetPending,
		CreatedAt: time.Now(),
	}

	tx, err := env.Pool.Begin(ctx)
	if err != nil {
		env.t.Fatalf("PlaceBetForPeriod: begin tx: %v", err)
	}
	defer tx.Rollback(ctx)

	_, err = env.Engine.ExecuteDebitStake(ctx, tx, domain.DebitStakeParams{
		AccountID:   accountID,
		Amount:      amount,
		ReferenceID: "bet_" + bet.ID.String(),
		RoundID:     periodID,
	})
	if err != nil {
		env.t.Fatalf("PlaceBetForPeriod: debit stake: %v", err)
	}
	if err := repository.NewBetRepository().Insert(ctx, tx, bet); err != nil {
		env.t.Fatalf("PlaceBetForPeriod: insert bet: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		env.t.Fatalf("PlaceBetForPeriod: commit: %v", err)
	}
	return bet.ID
}

// AccountRow is a snapshot of the money columns of one account.
type AccountRow struct {
	Balance          int64
	ReservedBalance  int64
	TotalCredited    int64
	TotalWagered     int64
	WagerRequirement int64
}

// GetAccountRow reads an account's money columns.
func (env *TestEnv) GetAccountRow(accountID uuid.UUID) AccountRow {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var row AccountRow
	err := env.Pool.QueryRow(ctx, `
		SELECT balance::bigint, reserved_balance::bigint, total_credited::bigint,
		       total_wagered::bigint, wager_requirement::bigint
		FROM accounts WHERE id = $1`, accountID).
		Scan(&row.Balance, &row.ReservedBalance, &row.TotalCredited,
			&row.TotalWagered, &row.WagerRequirement)
	if err != nil {
		env.t.Fatalf("GetAccountRow: %v", err)
	}
	return row
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with optional auth token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("POST %s: encode: %v", path, err)
		}
	}
	req, err := http.NewRequest("POST", env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("POST %s: new request: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// AuthGET performs an authenticated GET request.
func (env *TestEnv) AuthGET(path, token string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("GET", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("AuthGET %s: new request: %v", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("AuthGET %s: %v", path, err)
	}
	return resp
}
