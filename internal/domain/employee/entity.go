package employee

import (
	"time"
)

// Employee is a person enrolled on a biometric terminal. Shift, team and device
// assignments are optional references; any of them may point at a missing record.
type Employee struct {
	ID        string
	UserID    string // enrolment id on the terminal
	Name      string
	Email     *string
	Phone     *string
	ShiftID   *string
	TeamID    *string
	DeviceID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
