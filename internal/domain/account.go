package domain

import (
	"time"

	"github.com/google/uuid"
)

// Balances represents the account balance columns (integer paise, numeric(15,0)).
// ReservedBalance holds withdrawal amounts between request and admin decision.
type Balances struct {
	Balance          int64 `json:"balance"`
	ReservedBalance  int64 `json:"reserved_balance"`
	TotalCredited    int64 `json:"total_credited"`
	TotalWagered     int64 `json:"total_wagered"`
	WagerRequirement int64 `json:"wager_requirement"`
}

// Account represents an accounts row.
type Account struct {
	ID uuid.UUID `json:"id"`
	Balances
	Frozen    bool      `json:"frozen"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WagerProgress returns the percentage of the wager requirement reached,
// capped at 100. A zero requirement counts as fully met.
func (a *Account) WagerProgress() float64 {
	if a.WagerRequirement <= 0 {
		return 100
	}
	p := float64(a.TotalWagered) / float64(a.WagerRequirement) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// WithdrawalEligible reports whether the betting turnover requirement is met.
func (a *Account) WithdrawalEligible() bool {
	return a.TotalWagered >= a.WagerRequirement
}

// AccountSummary is the admin search projection: account joined with its
// auth user.
type AccountSummary struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Balance       int64     `json:"balance"`
	TotalCredited int64     `json:"total_credited"`
	TotalWagered  int64     `json:"total_wagered"`
	Frozen        bool      `json:"frozen"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuthUser holds credentials from auth_users. The ID doubles as the account ID.
type AuthUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
