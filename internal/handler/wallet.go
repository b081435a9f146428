package handler

import (
	"net/http"
	"strconv"

	"github.com/winpay/platform/internal/service"
)

// WalletHandler serves balance and ledger history.
type WalletHandler struct {
	svc *service.WalletService
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(svc *service.WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

// Balance handles GET /api/v1/wallet/balance.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	view, err := h.svc.Balance(r.Context(), accountID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, view)
}

// Entries handles GET /api/v1/wallet/entries?cursor=&limit=.
func (h *WalletHandler) Entries(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.svc.Entries(r.Context(), accountID, cursor, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
