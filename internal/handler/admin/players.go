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

// PlayersHandler serves admin account management.
type PlayersHandler struct {
	svc *service.AdminService
}

// NewPlayersHandler creates a PlayersHandler.
func NewPlayersHandler(svc *service.AdminService) *PlayersHandler {
	return &PlayersHandler{svc: svc}
}

// Search handles GET /api/v1/admin/players?q=&limit=.
func (h *PlayersHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	summaries, err := h.svc.SearchAccounts(r.Context(), query, limit)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{"players": summaries})
}

type freezeRequest struct {
	Frozen bool `json:"frozen"`
}

// SetFrozen handles POST /api/v1/admin/players/{id}/freeze.
func (h *PlayersHandler) SetFrozen(w http.ResponseWriter, r *http.Request) {
	adminID, err := handler.AccountIDFromContext(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid account id"))
		return
	}

	var body freezeRequest
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	account, err := h.svc.SetFrozen(r.Context(), adminID, accountID, body.Frozen)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, account)
}

type creditRequest struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

// Credit handles POST /api/v1/admin/players/{id}/credit.
func (h *PlayersHandler) Credit(w http.ResponseWriter, r *http.Request) {
	adminID, err := handler.AccountIDFromContext(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid account id"))
		return
	}

	var body creditRequest
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	result, err := h.svc.Credit(r.Context(), adminID, accountID, body.Amount, body.Note)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"entry":   result.Entry,
		"account": result.Account,
	})
}
