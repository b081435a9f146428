package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/handler"
	"github.com/winpay/platform/internal/service"
)

// PaymentsHandler serves the admin deposit/withdrawal approval queue.
type PaymentsHandler struct {
	svc *service.ApprovalService
}

// NewPaymentsHandler creates a PaymentsHandler.
func NewPaymentsHandler(svc *service.ApprovalService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// ListDeposits handles GET /api/v1/admin/deposits?status=&limit=.
func (h *PaymentsHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	status, limit := queueFilters(r)
	reqs, err := h.svc.ListDeposits(r.Context(), status, limit)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{"deposits": reqs})
}

// ApproveDeposit handles POST /api/v1/admin/deposits/{id}/approve.
func (h *PaymentsHandler) ApproveDeposit(w http.ResponseWriter, r *http.Request) {
	adminID, requestID, err := decisionIDs(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	req, err := h.svc.ApproveDeposit(r.Context(), adminID, requestID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, req)
}

// RejectDeposit handles POST /api/v1/admin/deposits/{id}/reject.
func (h *PaymentsHandler) RejectDeposit(w http.ResponseWriter, r *http.Request) {
	adminID, requestID, err := decisionIDs(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var body rejectRequest
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}
	if body.Reason == "" {
		handler.RespondError(w, domain.ErrValidation("rejection reason is required"))
		return
	}

	req, err := h.svc.RejectDeposit(r.Context(), adminID, requestID, body.Reason)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, req)
}

// ListWithdrawals handles GET /api/v1/admin/withdrawals?status=&limit=.
func (h *PaymentsHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	status, limit := queueFilters(r)
	reqs, err := h.svc.ListWithdrawals(r.Context(), status, limit)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{"withdrawals": reqs})
}

// ApproveWithdrawal handles POST /api/v1/admin/withdrawals/{id}/approve.
func (h *PaymentsHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID, requestID, err := decisionIDs(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	req, err := h.svc.ApproveWithdrawal(r.Context(), adminID, requestID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, req)
}

// RejectWithdrawal handles POST /api/v1/admin/withdrawals/{id}/reject.
func (h *PaymentsHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID, requestID, err := decisionIDs(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var body rejectRequest
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}
	if body.Reason == "" {
		handler.RespondError(w, domain.ErrValidation("rejection reason is required"))
		return
	}

	req, err := h.svc.RejectWithdrawal(r.Context(), adminID, requestID, body.Reason)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, req)
}

func queueFilters(r *http.Request) (*domain.RequestStatus, int) {
	var status *domain.RequestStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.RequestStatus(s)
		status = &st
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return status, limit
}

func decisionIDs(r *http.Request) (adminID, requestID uuid.UUID, err error) {
	adminID, err = handler.AccountIDFromContext(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	requestID, parseErr := uuid.Parse(chi.URLParam(r, "id"))
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, domain.ErrValidation("invalid request id")
	}
	return adminID, requestID, nil
}
