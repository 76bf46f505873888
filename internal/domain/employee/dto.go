package employee

import "github.com/yci-attendance/attendance-backend/internal/pkg/validator"

type CreateEmployeeRequest struct {
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	ShiftID  *string `json:"shift_id,omitempty"`
	TeamID   *string `json:"team_id,omitempty"`
	DeviceID *string `json:"device_id,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	} else if len(r.UserID) > 50 {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must not exceed 50 characters"})
	} else if !validator.IsNumeric(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must be the numeric enrolment id"})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email format"})
	}

	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: ErrInvalidPhoneNumber.Error()})
	}

	for field, ref := range map[string]*string{"shift_id": r.ShiftID, "team_id": r.TeamID, "device_id": r.DeviceID} {
		if ref != nil && validator.IsEmpty(*ref) {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " must not be blank"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	ShiftID  *string `json:"shift_id,omitempty"`
	TeamID   *string `json:"team_id,omitempty"`
	DeviceID *string `json:"device_id,omitempty"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:       e.ID,
		UserID:   e.UserID,
		Name:     e.Name,
		Email:    e.Email,
		Phone:    e.Phone,
		ShiftID:  e.ShiftID,
		TeamID:   e.TeamID,
		DeviceID: e.DeviceID,
	}
}
