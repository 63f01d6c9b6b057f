package handler

import (
	"errors"
	"net/http"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/usecase"
	"github.com/dreschagin/ops-dashboard-simulator/internal/interfaces/http/middleware"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

// AlertsHandler отдает открытые тикеты
type AlertsHandler struct {
	openTicketsUC *usecase.ListOpenTicketsUseCase
	logger        *logger.Logger
}

func NewAlertsHandler(openTicketsUC *usecase.ListOpenTicketsUseCase, log *logger.Logger) *AlertsHandler {
	return &AlertsHandler{openTicketsUC: openTicketsUC, logger: log}
}

// ListOpenTickets GET /api/v1/alerts/open
func (h *AlertsHandler) ListOpenTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.openTicketsUC.Execute(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrSnapshotNotLoaded) {
			middleware.WriteError(w, http.StatusServiceUnavailable, "Dashboard data is not loaded yet")
			return
		}
		h.logger.Error("Failed to list open tickets", err)
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"total": len(tickets),
		"data":  tickets,
	})
}
