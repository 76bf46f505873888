package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
	"github.com/yci-attendance/attendance-backend/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, punch attendance.Punch) (attendance.Punch, error) {
	query := `
		INSERT INTO attendance (id, employee_id, timestamp, status, device_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, punch.ID, punch.EmployeeID, punch.Timestamp, string(punch.Status), punch.DeviceID)
	if err != nil {
		return attendance.Punch{}, constraintError(err, map[string]error{
			"attendance_employee_id_fkey": attendance.ErrPunchEmployeeUnknown,
			"attendance_device_id_fkey":   attendance.ErrPunchDeviceUnknown,
		})
	}
	return punch, nil
}

// ListRecentByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]attendance.Punch, error) {
	query := `
		SELECT id, employee_id, timestamp, status, device_id
		FROM attendance
		WHERE employee_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	punches := make([]attendance.Punch, 0, limit)
	for rows.Next() {
		var (
			p      attendance.Punch
			status string
		)
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Timestamp, &status, &p.DeviceID); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		p.Timestamp = asLocal(p.Timestamp)
		p.Status = attendance.Status(status)
		punches = append(punches, p)
	}
	return punches, rows.Err()
}

// ListCheckIns implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListCheckIns(ctx context.Context, start, end time.Time) ([]attendance.CheckInRow, error) {
	query := `
		SELECT e.id, e.user_id, e.name, COALESCE(t.name, ''), s.name, s.start_time, s.end_time, a.timestamp
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		JOIN shifts s ON s.id = e.shift_id
		LEFT JOIN teams t ON t.id = e.team_id
		WHERE a.status = $1 AND a.timestamp >= $2 AND a.timestamp < $3
		ORDER BY a.timestamp, a.id
	`

	rows, err := r.db.Query(ctx, query, string(attendance.StatusPunchedIn), start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	result := make([]attendance.CheckInRow, 0)
	for rows.Next() {
		var (
			row                  attendance.CheckInRow
			shiftStart, shiftEnd pgtype.Time
		)
		err := rows.Scan(&row.EmployeeID, &row.UserID, &row.Name, &row.TeamName, &row.ShiftName, &shiftStart, &shiftEnd, &row.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		row.ShiftStart = shift.FromMicroseconds(shiftStart.Microseconds)
		row.ShiftEnd = shift.FromMicroseconds(shiftEnd.Microseconds)
		row.Timestamp = asLocal(row.Timestamp)
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListInRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListInRange(ctx context.Context, filter attendance.RangeFilter) ([]attendance.PunchRecord, error) {
	var (
		conditions = []string{"a.timestamp >= $1", "a.timestamp < $2"}
		args       = []any{filter.Start, filter.End}
	)
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}

	query := `
		SELECT a.id, a.employee_id, a.timestamp, a.status, a.device_id, e.user_id, e.name, COALESCE(t.name, '')
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		LEFT JOIN teams t ON t.id = e.team_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY a.timestamp, a.id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches in range: %w", err)
	}
	defer rows.Close()

	result := make([]attendance.PunchRecord, 0)
	for rows.Next() {
		var (
			rec    attendance.PunchRecord
			status string
		)
		err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Timestamp, &status, &rec.DeviceID, &rec.EmployeeUserID, &rec.EmployeeName, &rec.TeamName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch record: %w", err)
		}
		rec.Timestamp = asLocal(rec.Timestamp)
		rec.Status = attendance.Status(status)
		result = append(result, rec)
	}
	return result, rows.Err()
}
