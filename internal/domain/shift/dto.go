package shift

import (
	"github.com/yci-attendance/attendance-backend/internal/pkg/validator"
)

type CreateShiftRequest struct {
	Name       string  `json:"name"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsValidClock(r.StartTime) {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be HH:MM or HH:MM:SS"})
	}
	if !validator.IsValidClock(r.EndTime) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be HH:MM or HH:MM:SS"})
	}
	if (r.BreakStart == nil) != (r.BreakEnd == nil) {
		errs = append(errs, validator.ValidationError{Field: "break_start", Message: "break_start and break_end must be set together"})
	} else if r.BreakStart != nil {
		if !validator.IsValidClock(*r.BreakStart) {
			errs = append(errs, validator.ValidationError{Field: "break_start", Message: "break_start must be HH:MM or HH:MM:SS"})
		}
		if !validator.IsValidClock(*r.BreakEnd) {
			errs = append(errs, validator.ValidationError{Field: "break_end", Message: "break_end must be HH:MM or HH:MM:SS"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	BreakStart      *string `json:"break_start,omitempty"`
	BreakEnd        *string `json:"break_end,omitempty"`
	CrossesMidnight bool    `json:"crosses_midnight"`
}

func NewShiftResponse(s Shift) ShiftResponse {
	resp := ShiftResponse{
		ID:              s.ID,
		Name:            s.Name,
		StartTime:       s.StartTime.HHMM(),
		EndTime:         s.EndTime.HHMM(),
		CrossesMidnight: s.CrossesMidnight(),
	}
	if s.BreakStart != nil {
		v := s.BreakStart.HHMM()
		resp.BreakStart = &v
	}
	if s.BreakEnd != nil {
		v := s.BreakEnd.HHMM()
		resp.BreakEnd = &v
	}
	return resp
}
