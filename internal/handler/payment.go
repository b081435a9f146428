package handler

import (
	"net/http"
	"strconv"

	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/service"
)

// PaymentHandler serves player deposit and withdrawal requests.
type PaymentHandler struct {
	svc *service.ApprovalService
}

// NewPaymentHandler creates a PaymentHandler.
func NewPaymentHandler(svc *service.ApprovalService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type depositRequestBody struct {
	Amount        int64   `json:"amount"`
	UTR           string  `json:"utr"`
	SenderUPI     string  `json:"sender_upi"`
	ScreenshotRef *string `json:"screenshot_ref,omitempty"`
}

type withdrawalRequestBody struct {
	Amount int64 `json:"amount"`
}

// SubmitDeposit handles POST /api/v1/payments/deposits.
func (h *PaymentHandler) SubmitDeposit(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req depositRequestBody
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	dep, err := h.svc.SubmitDeposit(r.Context(), accountID, req.Amount, req.UTR, req.SenderUPI, req.ScreenshotRef)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, dep)
}

// RequestWithdrawal handles POST /api/v1/payments/withdrawals.
func (h *PaymentHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req withdrawalRequestBody
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	wd, err := h.svc.RequestWithdrawal(r.Context(), accountID, req.Amount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, wd)
}

// ListDeposits handles GET /api/v1/payments/deposits?limit=.
func (h *PaymentHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reqs, err := h.svc.AccountDeposits(r.Context(), accountID, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"deposits": reqs})
}

// ListWithdrawals handles GET /api/v1/payments/withdrawals?limit=.
func (h *PaymentHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reqs, err := h.svc.AccountWithdrawals(r.Context(), accountID, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"withdrawals": reqs})
}
