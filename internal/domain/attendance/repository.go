package attendance

import (
	"context"
	"time"
)

type RangeFilter struct {
	EmployeeID *string
	Start      time.Time // inclusive
	End        time.Time // exclusive
	Limit      int       // 0 means no limit
}

type AttendanceRepository interface {
	// Create appends a punch event
	Create(ctx context.Context, punch Punch) (Punch, error)

	// ListRecentByEmployee returns at most limit punches, newest first
	ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]Punch, error)

	// ListCheckIns returns Punched_In events in [start, end) for employees with a shift,
	// oldest first
	ListCheckIns(ctx context.Context, start, end time.Time) ([]CheckInRow, error)

	// ListInRange returns punches joined with employee and team, oldest first
	ListInRange(ctx context.Context, filter RangeFilter) ([]PunchRecord, error)
}
