package response

import (
	"errors"
	"net/http"

	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/domain/employee"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/device"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/team"
	"github.com/yci-attendance/attendance-backend/internal/domain/report"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
	"github.com/yci-attendance/attendance-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrPunchEmployeeUnknown):
		NotFound(w, "Employee not found for punch")
	case errors.Is(err, attendance.ErrPunchDeviceUnknown):
		NotFound(w, "Device not found for punch")
	case errors.Is(err, attendance.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUserIDExists):
		Conflict(w, "User ID already registered")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Master data errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftNameExists):
		Conflict(w, "Shift name already exists")
	case errors.Is(err, team.ErrTeamNotFound):
		NotFound(w, "Team not found")
	case errors.Is(err, team.ErrTeamNameExists):
		Conflict(w, "Team name already exists")
	case errors.Is(err, device.ErrDeviceNotFound):
		NotFound(w, "Device not found")
	case errors.Is(err, device.ErrDeviceIPExists):
		Conflict(w, "Device IP address already registered")

	// Report errors
	case errors.Is(err, report.ErrInvalidReportType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrInvalidDate):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
