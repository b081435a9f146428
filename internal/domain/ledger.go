package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntryType enumerates all ledger entry types.
type EntryType string

const (
	EntryBet                 EntryType = "bet"
	EntryWin                 EntryType = "win"
	EntrySettlementLoss      EntryType = "settlement_loss"
	EntryDepositCredit       EntryType = "deposit_credit"
	EntryAdminCredit         EntryType = "admin_credit"
	EntryWithdrawalHold      EntryType = "withdrawal_hold"
	EntryWithdrawalProcessed EntryType = "withdrawal_processed"
	EntryWithdrawalRefund    EntryType = "withdrawal_refund"
)

// LedgerEntry represents a ledger_entries row (append-only).
type LedgerEntry struct {
	ID                   uuid.UUID       `json:"id"`
	AccountID            uuid.UUID       `json:"account_id"`
	Type                 EntryType       `json:"type"`
	Amount               int64           `json:"amount"`
	BalanceAfter         int64           `json:"balance_after"`
	ReservedBalanceAfter int64           `json:"reserved_balance_after"`
	ReferenceID          *string         `json:"reference_id,omitempty"`
	RoundID              *string         `json:"round_id,omitempty"`
	Metadata             json.RawMessage `json:"metadata"`
	CreatedAt            time.Time       `json:"created_at"`
}

// BalanceUpdate describes which account columns to update and by how much.
// Used by PostLedgerEntry to build the dynamic UPDATE statement.
type BalanceUpdate struct {
	Balance          int64 // delta for balance column
	ReservedBalance  int64 // delta for reserved_balance column
	TotalCredited    int64 // delta for total_credited column
	TotalWagered     int64 // delta for total_wagered column (never negative)
	WagerRequirement int64 // delta for wager_requirement column
}

// HasBalanceDelta returns true if the spendable balance changes.
func (u BalanceUpdate) HasBalanceDelta() bool { return u.Balance != 0 }

// HasReservedDelta returns true if the reserved balance changes.
func (u BalanceUpdate) HasReservedDelta() bool { return u.ReservedBalance != 0 }

// HasCreditedDelta returns true if lifetime credits change.
func (u BalanceUpdate) HasCreditedDelta() bool { return u.TotalCredited != 0 }

// HasWageredDelta returns true if betting turnover changes.
func (u BalanceUpdate) HasWageredDelta() bool { return u.TotalWagered != 0 }

// HasRequirementDelta returns true if the wager requirement changes.
func (u BalanceUpdate) HasRequirementDelta() bool { return u.WagerRequirement != 0 }

// PostLedgerEntryParams is the input to the atomic PostLedgerEntry operation.
type PostLedgerEntryParams struct {
	AccountID     uuid.UUID
	Type          EntryType
	Amount        int64
	BalanceUpdate BalanceUpdate
	ReferenceID   *string
	RoundID       *string
	Metadata      json.RawMessage
}

// CommandResult is the return value from all ledger commands.
type CommandResult struct {
	Entry      *LedgerEntry
	Account    *Account
	Events     []OutboxDraft
	Idempotent bool // true if this was a duplicate that returned the existing entry
}

// DebitStakeParams holds the input for ExecuteDebitStake.
type DebitStakeParams struct {
	AccountID   uuid.UUID
	Amount      int64
	ReferenceID string
	RoundID     string
	Metadata    json.RawMessage
}

// CreditWinParams holds the input for ExecuteCreditWin.
// StakeAmount is the original stake, counted towards betting turnover.
type CreditWinParams struct {
	AccountID   uuid.UUID
	Amount      int64
	StakeAmount int64
	ReferenceID string
	RoundID     string
	Metadata    json.RawMessage
}

// RecordLossParams holds the input for ExecuteRecordLoss. The stake was
// debited at placement; only turnover moves.
type RecordLossParams struct {
	AccountID   uuid.UUID
	StakeAmount int64
	ReferenceID string
	RoundID     string
	Metadata    json.RawMessage
}

// ApproveDepositParams holds the input for ExecuteApproveDeposit.
// WagerMultiple is the factor applied to the credited amount when raising
// the wager requirement.
type ApproveDepositParams struct {
	AccountID     uuid.UUID
	Amount        int64
	WagerMultiple int64
	ReferenceID   string
	Metadata      json.RawMessage
}

// AdminCreditParams holds the input for ExecuteAdminCredit.
type AdminCreditParams struct {
	AccountID   uuid.UUID
	Amount      int64
	ReferenceID string
	Metadata    json.RawMessage
}

// HoldWithdrawalParams holds the input for ExecuteHoldWithdrawal.
type HoldWithdrawalParams struct {
	AccountID   uuid.UUID
	Amount      int64
	ReferenceID string
	Metadata    json.RawMessage
}

// ReleaseWithdrawalParams holds the input for ExecuteReleaseWithdrawal.
// Refund=false finalizes an approved withdrawal; Refund=true returns the
// held amount to the spendable balance after an admin rejection.
type ReleaseWithdrawalParams struct {
	AccountID   uuid.UUID
	Amount      int64
	Refund      bool
	ReferenceID string
	Metadata    json.RawMessage
}
