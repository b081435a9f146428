package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/service"
)

// GridHandler serves the grid-reveal game.
type GridHandler struct {
	svc *service.GridService
}

// NewGridHandler creates a GridHandler.
func NewGridHandler(svc *service.GridService) *GridHandler {
	return &GridHandler{svc: svc}
}

type startGridRequest struct {
	BetAmount int64 `json:"bet_amount"`
	MineCount int   `json:"mine_count"`
}

type revealRequest struct {
	GameID    uuid.UUID `json:"game_id"`
	CellIndex int       `json:"cell_index"`
}

// Start handles POST /api/v1/grid/start.
func (h *GridHandler) Start(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req startGridRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	view, err := h.svc.Start(r.Context(), accountID, req.BetAmount, req.MineCount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, view)
}

// Reveal handles POST /api/v1/grid/reveal.
func (h *GridHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req revealRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}
	if req.GameID == uuid.Nil {
		RespondError(w, domain.ErrValidation("game_id is required"))
		return
	}

	view, err := h.svc.Reveal(r.Context(), accountID, req.GameID, req.CellIndex)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, view)
}

// CashOut handles POST /api/v1/grid/cashout.
func (h *GridHandler) CashOut(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	view, err := h.svc.CashOut(r.Context(), accountID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, view)
}

// Active handles GET /api/v1/grid/active.
func (h *GridHandler) Active(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	view, err := h.svc.Active(r.Context(), accountID)
	if err != nil {
		RespondError(w, err)
		return
	}
	if view == nil {
		RespondJSON(w, http.StatusOK, map[string]interface{}{"game": nil})
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"game": view})
}

// History handles GET /api/v1/grid/history?limit=.
func (h *GridHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	games, err := h.svc.History(r.Context(), accountID, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}
