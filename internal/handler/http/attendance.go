package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/handler/http/response"
)

type AttendanceHandler interface {
	ListEmployeeStatuses(w http.ResponseWriter, r *http.Request)
	GetEmployeeStatus(w http.ResponseWriter, r *http.Request)
	RecordPunch(w http.ResponseWriter, r *http.Request)
	ListPunches(w http.ResponseWriter, r *http.Request)
	ListLateComers(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		now:               time.Now,
	}
}

// ListEmployeeStatuses implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListEmployeeStatuses(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date", h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	statuses, err := h.attendanceService.ListEmployeeStatuses(r.Context(), date)
	if err != nil {
		slog.Error("Failed to list employee statuses", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, statuses, &response.Meta{
		Date:       date.Format(attendance.DateLayout),
		TotalItems: len(statuses),
	})
}

// GetEmployeeStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := idParam("id", id); err != nil {
		response.HandleError(w, err)
		return
	}

	date, err := dateParam(r, "date", h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.attendanceService.GetEmployeeStatus(r.Context(), id, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// RecordPunch implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordPunch(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecordPunchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Record punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.EmployeeID != "" {
		if err := idParam("employee_id", req.EmployeeID); err != nil {
			response.HandleError(w, err)
			return
		}
	}

	punch, err := h.attendanceService.RecordPunch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded successfully", punch)
}

// ListPunches implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListPunches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	today := h.now().Format(attendance.DateLayout)

	filter := attendance.PunchFilter{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
	if filter.StartDate == "" {
		filter.StartDate = today
	}
	if filter.EndDate == "" {
		filter.EndDate = filter.StartDate
	}
	if id := query.Get("employee_id"); id != "" {
		if err := idParam("employee_id", id); err != nil {
			response.HandleError(w, err)
			return
		}
		filter.EmployeeID = &id
	}

	limit, err := intParam(r, "limit", 0)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	filter.Limit = limit

	punches, err := h.attendanceService.ListPunches(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, punches, &response.Meta{
		Limit:      filter.Limit,
		TotalItems: len(punches),
	})
}

// ListLateComers implements AttendanceHandler. The ranking defaults to yesterday.
func (h *attendanceHandlerImpl) ListLateComers(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date", h.now().AddDate(0, 0, -1))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	lateComers, err := h.attendanceService.ListLateComers(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, lateComers, &response.Meta{
		Date:       date.Format(attendance.DateLayout),
		TotalItems: len(lateComers),
	})
}
