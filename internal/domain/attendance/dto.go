package attendance

import (
	"time"

	"github.com/yci-attendance/attendance-backend/internal/pkg/validator"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// ========================================
// PUNCH INGESTION
// ========================================

// RecordPunchRequest identifies the employee by id or by terminal enrolment id,
// and the device by id or IP address.
type RecordPunchRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	Timestamp  string `json:"timestamp"`
	Status     string `json:"status"`
	DeviceID   string `json:"device_id,omitempty"`
	DeviceIP   string `json:"device_ip,omitempty"`

	ParsedTimestamp time.Time `json:"-"`
}

func (r *RecordPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) && validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "employee_id or user_id is required",
		})
	}

	if t, ok := validator.IsValidDateTime(r.Timestamp); ok {
		r.ParsedTimestamp = t
	} else {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be RFC3339 or YYYY-MM-DD HH:MM:SS",
		})
	}

	if !validator.IsInSlice(r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of Punched_In, Punched_Out, Break_In, Break_Out",
		})
	}

	if r.DeviceIP != "" && !validator.IsValidIP(r.DeviceIP) {
		errs = append(errs, validator.ValidationError{
			Field:   "device_ip",
			Message: "device_ip must be a valid IP address",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PunchResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	UserID     string  `json:"user_id,omitempty"`
	Name       string  `json:"name,omitempty"`
	Team       string  `json:"team,omitempty"`
	Timestamp  string  `json:"timestamp"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Status     Status  `json:"status"`
	DeviceID   *string `json:"device_id,omitempty"`
}

func NewPunchResponse(p Punch) PunchResponse {
	return PunchResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Timestamp:  p.Timestamp.Format(time.DateTime),
		Date:       p.Timestamp.Format(DateLayout),
		Time:       p.Timestamp.Format(TimeLayout),
		Status:     p.Status,
		DeviceID:   p.DeviceID,
	}
}

func NewPunchRecordResponse(r PunchRecord) PunchResponse {
	resp := NewPunchResponse(r.Punch)
	resp.UserID = r.EmployeeUserID
	resp.Name = r.EmployeeName
	resp.Team = r.TeamName
	return resp
}

// PunchFilter scopes punch history queries. Dates are YYYY-MM-DD, inclusive.
type PunchFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Limit      int     `json:"limit"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (f *PunchFilter) Validate() error {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDate(f.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
	}
	end, ok2 := validator.IsValidDate(f.EndDate)
	if !ok2 {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
	}
	if ok && ok2 && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: ErrInvalidDateRange.Error()})
	}

	if f.Limit < 0 || f.Limit > 1000 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be between 0 and 1000"})
	}

	if len(errs) > 0 {
		return errs
	}

	f.Start = start
	f.End = end.AddDate(0, 0, 1)
	return nil
}

// ========================================
// STATUS RESOLUTION
// ========================================

// EmployeeStatusResponse is the per-employee record dashboards and exports consume verbatim.
// Association fields degrade to their zero value when the lookup fails.
type EmployeeStatusResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	ShiftName      string `json:"shift_name"`
	ShiftStartTime string `json:"shift_start_time"`
	ShiftEndTime   string `json:"shift_end_time"`
	Team           string `json:"team"`
	TeamID         string `json:"team_id"`
	DeviceIP       string `json:"device_ip"`
	IsOnline       bool   `json:"is_online"`
	Status         Status `json:"status"`
	LastPunchDate  string `json:"last_punch_date"`
	LastPunchTime  string `json:"last_punch_time"`
	LateByMinutes  int    `json:"late_by_minutes"`
}

// LateComer is one entry of the late check-in ranking.
type LateComer struct {
	EmployeeID     string `json:"id"`
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Team           string `json:"team"`
	ShiftName      string `json:"shift_name"`
	ShiftStartTime string `json:"shift_start_time"`
	LateByMinutes  int    `json:"late_by_minutes"`
}
