package attendance

import (
	"fmt"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
)

// Status is the label a terminal attaches to a punch.
type Status string

const (
	StatusPunchedIn  Status = "Punched_In"
	StatusPunchedOut Status = "Punched_Out"
	StatusBreakIn    Status = "Break_In"
	StatusBreakOut   Status = "Break_Out"
)

var StatusValues = []string{
	string(StatusPunchedIn),
	string(StatusPunchedOut),
	string(StatusBreakIn),
	string(StatusBreakOut),
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPunchedIn, StatusPunchedOut, StatusBreakIn, StatusBreakOut:
		return true
	}
	return false
}

// ParseStatus accepts the taxonomy labels exactly as terminals report them.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Punch is a single immutable terminal event. Punches are only ever appended.
type Punch struct {
	ID         string
	EmployeeID string
	Timestamp  time.Time
	Status     Status
	DeviceID   *string
}

// PunchRecord is a punch joined with the employee and team it belongs to.
type PunchRecord struct {
	Punch
	EmployeeUserID string
	EmployeeName   string
	TeamName       string
}

// CheckInRow is a Punched_In event joined with the employee's shift.
type CheckInRow struct {
	EmployeeID string
	UserID     string
	Name       string
	TeamName   string
	ShiftName  string
	ShiftStart shift.TimeOfDay
	ShiftEnd   shift.TimeOfDay
	Timestamp  time.Time
}

// Resolution is the derived attendance state of one employee for one day.
type Resolution struct {
	Status        Status
	LastPunchAt   *time.Time
	LastPunchDate string
	LastPunchTime string
	LateByMinutes int
}
