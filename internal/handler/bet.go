package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/service"
)

// BetHandler serves round-game betting.
type BetHandler struct {
	svc *service.BettingService
}

// NewBetHandler creates a BetHandler.
func NewBetHandler(svc *service.BettingService) *BetHandler {
	return &BetHandler{svc: svc}
}

type placeBetRequest struct {
	GameMode  domain.GameMode `json:"game_mode"`
	BetType   domain.BetType  `json:"bet_type"`
	BetValue  string          `json:"bet_value"`
	BetAmount int64           `json:"bet_amount"`
}

// Place handles POST /api/v1/bets.
func (h *BetHandler) Place(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req placeBetRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	bet, err := h.svc.PlaceBet(r.Context(), accountID, req.GameMode, req.BetType, req.BetValue, req.BetAmount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, bet)
}

// History handles GET /api/v1/bets?limit=.
func (h *BetHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, err := AccountIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	bets, err := h.svc.History(r.Context(), accountID, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"bets": bets})
}

// CurrentRound handles GET /api/v1/rounds/{mode}/current.
func (h *BetHandler) CurrentRound(w http.ResponseWriter, r *http.Request) {
	mode := domain.GameMode(chi.URLParam(r, "mode"))
	info, err := h.svc.CurrentRound(mode)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, info)
}

// Results handles GET /api/v1/rounds/{mode}/results?limit=.
func (h *BetHandler) Results(w http.ResponseWriter, r *http.Request) {
	mode := domain.GameMode(chi.URLParam(r, "mode"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.svc.RecentResults(r.Context(), mode, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
