package attendance

import (
	"context"
	"time"
)

// AttendanceService defines ingestion and status resolution
type AttendanceService interface {
	// RecordPunch appends a punch reported by a terminal or the ingestion collaborator
	RecordPunch(ctx context.Context, req RecordPunchRequest) (PunchResponse, error)

	// ListEmployeeStatuses resolves the status of every employee for date
	ListEmployeeStatuses(ctx context.Context, date time.Time) ([]EmployeeStatusResponse, error)

	// GetEmployeeStatus resolves the status of one employee for date
	GetEmployeeStatus(ctx context.Context, employeeID string, date time.Time) (EmployeeStatusResponse, error)

	// ListLateComers ranks the late check-ins of date
	ListLateComers(ctx context.Context, date time.Time) ([]LateComer, error)

	// ListPunches returns raw punch history
	ListPunches(ctx context.Context, filter PunchFilter) ([]PunchResponse, error)
}
