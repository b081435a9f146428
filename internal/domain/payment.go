package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus tracks the admin approval lifecycle. Approved and rejected
// are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// DepositRequest represents a deposit_requests row. The UTR correlates the
// request with an external bank transfer and is unique among non-rejected
// requests.
type DepositRequest struct {
	ID              uuid.UUID     `json:"id"`
	AccountID       uuid.UUID     `json:"account_id"`
	Amount          int64         `json:"amount"`
	UTR             string        `json:"utr"`
	SenderUPI       string        `json:"sender_upi"`
	ScreenshotRef   *string       `json:"screenshot_ref,omitempty"`
	Status          RequestStatus `json:"status"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	DecidedBy       *uuid.UUID    `json:"decided_by,omitempty"`
	DecidedAt       *time.Time    `json:"decided_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// WithdrawalRequest represents a withdrawal_requests row. The amount is
// held (moved to reserved balance) at request time; WagerProgress is a
// snapshot of turnover progress at that moment, capped at 100.
type WithdrawalRequest struct {
	ID              uuid.UUID     `json:"id"`
	AccountID       uuid.UUID     `json:"account_id"`
	Amount          int64         `json:"amount"`
	WagerProgress   float64       `json:"wager_progress"`
	Status          RequestStatus `json:"status"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	DecidedBy       *uuid.UUID    `json:"decided_by,omitempty"`
	DecidedAt       *time.Time    `json:"decided_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
