package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yci-attendance/attendance-backend/internal/domain/report"
	"github.com/yci-attendance/attendance-backend/internal/handler/http/response"
)

type ReportHandler interface {
	Export(w http.ResponseWriter, r *http.Request)
	ExportDaily(w http.ResponseWriter, r *http.Request)
	ExportWeekly(w http.ResponseWriter, r *http.Request)
	ExportMonthly(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	now           func() time.Time
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
		now:           time.Now,
	}
}

// Export implements ReportHandler. The report type comes from the {type} path segment.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	reportType, err := report.ParseReportType(chi.URLParam(r, "type"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.export(w, r, reportType)
}

// ExportDaily implements ReportHandler.
func (h *reportHandlerImpl) ExportDaily(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, report.ReportTypeDaily)
}

// ExportWeekly implements ReportHandler.
func (h *reportHandlerImpl) ExportWeekly(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, report.ReportTypeWeekly)
}

// ExportMonthly implements ReportHandler.
func (h *reportHandlerImpl) ExportMonthly(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, report.ReportTypeMonthly)
}

func (h *reportHandlerImpl) export(w http.ResponseWriter, r *http.Request, reportType report.ReportType) {
	date, err := dateParam(r, "date", h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rep, err := h.reportService.Generate(r.Context(), reportType, date)
	if err != nil {
		slog.Error("Failed to generate report", "type", reportType, "error", err)
		response.HandleError(w, err)
		return
	}

	if err := response.CSV(w, rep); err != nil {
		slog.Error("Failed to write report", "type", reportType, "filename", rep.Filename, "error", err)
	}
}
