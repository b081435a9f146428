package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/ledger"
	"github.com/winpay/platform/internal/policy"
	"github.com/winpay/platform/internal/repository"
)

// ApprovalService handles the deposit and withdrawal request lifecycle:
// player submission and admin decision. Money only moves on the decision
// side for deposits; withdrawals hold funds at request time.
type ApprovalService struct {
	pool          *pgxpool.Pool
	engine        *ledger.Engine
	payments      repository.PaymentRepository
	accounts      repository.AccountRepository
	entries       repository.LedgerEntryRepository
	outbox        repository.OutboxRepository
	withdrawals   policy.WithdrawalPolicy
	wagerMultiple int64
	logger        *slog.Logger
}

// NewApprovalService creates an ApprovalService.
func NewApprovalService(
	pool *pgxpool.Pool,
	engine *ledger.Engine,
	payments repository.PaymentRepository,
	accounts repository.AccountRepository,
	entries repository.LedgerEntryRepository,
	outbox repository.OutboxRepository,
	withdrawals policy.WithdrawalPolicy,
	wagerMultiple int64,
	logger *slog.Logger,
) *ApprovalService {
	return &ApprovalService{
		pool:          pool,
		engine:        engine,
		payments:      payments,
		accounts:      accounts,
		entries:       entries,
		outbox:        outbox,
		withdrawals:   withdrawals,
		wagerMultiple: wagerMultiple,
		logger:        logger,
	}
}

// SubmitDeposit records a pending deposit request. The balance is untouched
// until an admin approves it.
func (s *ApprovalService) SubmitDeposit(ctx context.Context, accountID uuid.UUID, amount int64, utr, senderUPI string, screenshotRef *string) (*domain.DepositRequest, error) {
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateUTR(utr); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateUPI(senderUPI); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	account, err := s.accounts.FindByID(ctx, s.pool, accountID)
	if err != nil {
		return nil, domain.ErrInternal("find account", err)
	}
	if account == nil {
		return nil, domain.ErrNotFound("account", accountID.String())
	}
	if account.Frozen {
		return nil, domain.ErrAccountFrozen()
	}

	req := &domain.DepositRequest{
		ID:            uuid.New(),
		AccountID:     accountID,
		Amount:        amount,
		UTR:           utr,
		SenderUPI:     senderUPI,
		ScreenshotRef: screenshotRef,
		Status:        domain.RequestPending,
		CreatedAt:     time.Now(),
	}
	if err := s.payments.InsertDeposit(ctx, s.pool, req); err != nil {
		return nil, err
	}

	s.logger.Info("deposit requested", "request_id", req.ID, "account_id", accountID,
		"amount", amount, "utr", utr)
	return req, nil
}

// ApproveDeposit credits an approved deposit. The status guard makes the
// decision first-writer-wins; the ledger reference makes the credit
// idempotent even if the process dies between the two writes.
func (s *ApprovalService) ApproveDeposit(ctx context.Context, adminID, requestID uuid.UUID) (*domain.DepositRequest, error) {
	req, err := s.payments.FindDeposit(ctx, s.pool, requestID)
	if err != nil {
		return nil, domain.ErrInternal("find deposit", err)
	}
	if req == nil {
		return nil, domain.ErrNotFound("deposit request", requestID.String())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	decided, err := s.payments.DecideDeposit(ctx, tx, requestID, domain.RequestApproved, adminID, nil)
	if err != nil {
		return nil, domain.ErrInternal("decide deposit", err)
	}
	if !decided {
		return nil, domain.ErrAlreadyDecided(requestID.String())
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"request_id": requestID.String(),
		"utr":        req.UTR,
		"decided_by": adminID.String(),
	})
	_, err = s.engine.ExecuteApproveDeposit(ctx, tx, domain.ApproveDepositParams{
		AccountID:     req.AccountID,
		Amount:        req.Amount,
		WagerMultiple: s.wagerMultiple,
		ReferenceID:   "dep_" + requestID.String(),
		Metadata:      meta,
	})
	if err != nil {
		return nil, err
	}

	event := domain.NewRequestDecidedEvent(domain.EventDepositDecided, requestID, req.AccountID, domain.RequestApproved, req.Amount)
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("deposit approved", "request_id", requestID, "account_id", req.AccountID,
		"amount", req.Amount, "admin_id", adminID)
	return s.payments.FindDeposit(ctx, s.pool, requestID)
}

// RejectDeposit marks a pending deposit rejected. No money moves.
func (s *ApprovalService) RejectDeposit(ctx context.Context, adminID, requestID uuid.UUID, reason string) (*domain.DepositRequest, error) {
	req, err := s.payments.FindDeposit(ctx, s.pool, requestID)
	if err != nil {
		return nil, domain.ErrInternal("find deposit", err)
	}
	if req == nil {
		return nil, domain.ErrNotFound("deposit request", requestID.String())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	decided, err := s.payments.DecideDeposit(ctx, tx, requestID, domain.RequestRejected, adminID, &reason)
	if err != nil {
		return nil, domain.ErrInternal("decide deposit", err)
	}
	if !decided {
		return nil, domain.ErrAlreadyDecided(requestID.String())
	}

	event := domain.NewRequestDecidedEvent(domain.EventDepositDecided, requestID, req.AccountID, domain.RequestRejected, req.Amount)
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("deposit rejected", "request_id", requestID, "admin_id", adminID, "reason", reason)
	return s.payments.FindDeposit(ctx, s.pool, requestID)
}

// RequestWithdrawal holds the amount in reserved balance and records a
// pending withdrawal request.
func (s *ApprovalService) RequestWithdrawal(ctx context.Context, accountID uuid.UUID, amount int64) (*domain.WithdrawalRequest, error) {
	account, err := s.accounts.FindByID(ctx, s.pool, accountID)
	if err != nil {
		return nil, domain.ErrInternal("find account", err)
	}
	if account == nil {
		return nil, domain.ErrNotFound("account", accountID.String())
	}

	dailyHeld, err := s.entries.AccountDailySumByType(ctx, s.pool, accountID, domain.EntryWithdrawalHold)
	if err != nil {
		return nil, domain.ErrInternal("daily withdrawal sum", err)
	}
	eval := policy.EvaluateWithdrawal(s.withdrawals, account, amount, dailyHeld)
	if !eval.Allowed {
		if eval.BreachedLimit == "wager_requirement" {
			return nil, domain.ErrWagerNotMet(account.TotalWagered, account.WagerRequirement)
		}
		return nil, &domain.AppError{
			Code:    "WITHDRAWAL_LIMIT",
			Message: fmt.Sprintf("withdrawal breaches %s limit", eval.BreachedLimit),
			Status:  422,
		}
	}

	req := &domain.WithdrawalRequest{
		ID:        uuid.New(),
		AccountID: accountID,
		Amount:    amount,
		Status:    domain.RequestPending,
		CreatedAt: time.Now(),
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.ExecuteHoldWithdrawal(ctx, tx, domain.HoldWithdrawalParams{
		AccountID:   accountID,
		Amount:      amount,
		ReferenceID: "wd_hold_" + req.ID.String(),
	})
	if err != nil {
		return nil, err
	}

	// Snapshot turnover progress at request time for the admin review queue.
	req.WagerProgress = result.Account.WagerProgress()
	if err := s.payments.InsertWithdrawal(ctx, tx, req); err != nil {
		return nil, domain.ErrInternal("insert withdrawal request", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("withdrawal requested", "request_id", req.ID, "account_id", accountID, "amount", amount)
	return req, nil
}

// ApproveWithdrawal finalizes a held withdrawal: the reserved amount leaves
// the system for the external payout rail.
func (s *ApprovalService) ApproveWithdrawal(ctx context.Context, adminID, requestID uuid.UUID) (*domain.WithdrawalRequest, error) {
	return s.decideWithdrawal(ctx, adminID, requestID, domain.RequestApproved, nil)
}

// RejectWithdrawal refunds the held amount to the spendable balance.
func (s *ApprovalService) RejectWithdrawal(ctx context.Context, adminID, requestID uuid.UUID, reason string) (*domain.WithdrawalRequest, error) {
	return s.decideWithdrawal(ctx, adminID, requestID, domain.RequestRejected, &reason)
}

func (s *ApprovalService) decideWithdrawal(ctx context.Context, adminID, requestID uuid.UUID, status domain.RequestStatus, reason *string) (*domain.WithdrawalRequest, error) {
	req, err := s.payments.FindWithdrawal(ctx, s.pool, requestID)
	if err != nil {
		return nil, domain.ErrInternal("find withdrawal", err)
	}
	if req == nil {
		return nil, domain.ErrNotFound("withdrawal request", requestID.String())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	decided, err := s.payments.DecideWithdrawal(ctx, tx, requestID, status, adminID, reason)
	if err != nil {
		return nil, domain.ErrInternal("decide withdrawal", err)
	}
	if !decided {
		return nil, domain.ErrAlreadyDecided(requestID.String())
	}

	refund := status == domain.RequestRejected
	refPrefix := "wd_ok_"
	if refund {
		refPrefix = "wd_rej_"
	}
	meta, _ := json.Marshal(map[string]interface{}{
		"request_id": requestID.String(),
		"decided_by": adminID.String(),
	})
	_, err = s.engine.ExecuteReleaseWithdrawal(ctx, tx, domain.ReleaseWithdrawalParams{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Refund:      refund,
		ReferenceID: refPrefix + requestID.String(),
		Metadata:    meta,
	})
	if err != nil {
		return nil, err
	}

	event := domain.NewRequestDecidedEvent(domain.EventWithdrawalDecided, requestID, req.AccountID, status, req.Amount)
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("withdrawal decided", "request_id", requestID, "status", status, "admin_id", adminID)
	return s.payments.FindWithdrawal(ctx, s.pool, requestID)
}

// ListDeposits returns deposit requests for the admin queue.
func (s *ApprovalService) ListDeposits(ctx context.Context, status *domain.RequestStatus, limit int) ([]domain.DepositRequest, error) {
	reqs, err := s.payments.ListDeposits(ctx, s.pool, status, limit)
	if err != nil {
		return nil, domain.ErrInternal("list deposits", err)
	}
	return reqs, nil
}

// ListWithdrawals returns withdrawal requests for the admin queue.
func (s *ApprovalService) ListWithdrawals(ctx context.Context, status *domain.RequestStatus, limit int) ([]domain.WithdrawalRequest, error) {
	reqs, err := s.payments.ListWithdrawals(ctx, s.pool, status, limit)
	if err != nil {
		return nil, domain.ErrInternal("list withdrawals", err)
	}
	return reqs, nil
}

// AccountDeposits returns one account's deposit requests.
func (s *ApprovalService) AccountDeposits(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.DepositRequest, error) {
	reqs, err := s.payments.ListDepositsByAccount(ctx, s.pool, accountID, limit)
	if err != nil {
		return nil, domain.ErrInternal("list account deposits", err)
	}
	return reqs, nil
}

// AccountWithdrawals returns one account's withdrawal requests.
func (s *ApprovalService) AccountWithdrawals(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.WithdrawalRequest, error) {
	reqs, err := s.payments.ListWithdrawalsByAccount(ctx, s.pool, accountID, limit)
	if err != nil {
		return nil, domain.ErrInternal("list account withdrawals", err)
	}
	return reqs, nil
}
