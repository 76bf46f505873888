package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/dashboard"
	"github.com/yci-attendance/attendance-backend/internal/handler/http/response"
)

type DashboardHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
	GetStatistics(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	now              func() time.Time
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
		now:              time.Now,
	}
}

// GetDashboard implements DashboardHandler.
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date", h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.GetDashboard(r.Context(), date)
	if err != nil {
		slog.Error("Failed to build dashboard", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetStatistics implements DashboardHandler.
func (h *dashboardHandlerImpl) GetStatistics(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date", h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.GetStatistics(r.Context(), date)
	if err != nil {
		slog.Error("Failed to build dashboard statistics", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
