package admin

import (
	"net/http"

	"github.com/winpay/platform/internal/handler"
	"github.com/winpay/platform/internal/service"
)

// ReportsHandler serves the admin dashboard.
type ReportsHandler struct {
	svc *service.AdminService
}

// NewReportsHandler creates a ReportsHandler.
func NewReportsHandler(svc *service.AdminService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Dashboard handles GET /api/v1/admin/dashboard.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard(r.Context())
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, stats)
}
