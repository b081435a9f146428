package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/handler"
	"github.com/winpay/platform/internal/service"
)

// RoundsHandler serves admin round inspection.
type RoundsHandler struct {
	svc *service.AdminService
}

// NewRoundsHandler creates a RoundsHandler.
func NewRoundsHandler(svc *service.AdminService) *RoundsHandler {
	return &RoundsHandler{svc: svc}
}

// Preview handles GET /api/v1/admin/rounds/{mode}/preview?count=.
func (h *RoundsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	mode := domain.GameMode(chi.URLParam(r, "mode"))
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))

	previews, err := h.svc.PreviewOutcomes(r.Context(), mode, count)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{"previews": previews})
}
