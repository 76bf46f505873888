package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
	"github.com/yci-attendance/attendance-backend/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewAttendanceRepository(db *database.SQLiteDB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, punch attendance.Punch) (attendance.Punch, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attendance (id, employee_id, timestamp, status, device_id) VALUES (?, ?, ?, ?, ?)`,
		punch.ID, punch.EmployeeID, formatTime(punch.Timestamp), string(punch.Status), nullString(punch.DeviceID),
	)
	if err != nil {
		return attendance.Punch{}, constraintError(err, map[string]error{"FOREIGN KEY": attendance.ErrPunchEmployeeUnknown})
	}
	return punch, nil
}

// ListRecentByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]attendance.Punch, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, employee_id, timestamp, status, device_id
		FROM attendance
		WHERE employee_id = ?
		ORDER BY timestamp DESC
		LIMIT ?`, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	punches := make([]attendance.Punch, 0, limit)
	for rows.Next() {
		var (
			p          attendance.Punch
			ts, status string
			deviceID   sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.EmployeeID, &ts, &status, &deviceID); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		if p.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("failed to parse punch timestamp: %w", err)
		}
		p.Status = attendance.Status(status)
		p.DeviceID = stringPtr(deviceID)
		punches = append(punches, p)
	}
	return punches, rows.Err()
}

// ListCheckIns implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListCheckIns(ctx context.Context, start, end time.Time) ([]attendance.CheckInRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.user_id, e.name, COALESCE(t.name, ''), s.name, s.start_time, s.end_time, a.timestamp
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		JOIN shifts s ON s.id = e.shift_id
		LEFT JOIN teams t ON t.id = e.team_id
		WHERE a.status = ? AND a.timestamp >= ? AND a.timestamp < ?
		ORDER BY a.timestamp, a.id`,
		string(attendance.StatusPunchedIn), formatTime(start), formatTime(end),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	result := make([]attendance.CheckInRow, 0)
	for rows.Next() {
		var (
			row                      attendance.CheckInRow
			shiftStart, shiftEnd, ts string
		)
		if err := rows.Scan(&row.EmployeeID, &row.UserID, &row.Name, &row.TeamName, &row.ShiftName, &shiftStart, &shiftEnd, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		if row.ShiftStart, err = shift.ParseTimeOfDay(shiftStart); err != nil {
			return nil, err
		}
		if row.ShiftEnd, err = shift.ParseTimeOfDay(shiftEnd); err != nil {
			return nil, err
		}
		if row.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("failed to parse check-in timestamp: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListInRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListInRange(ctx context.Context, filter attendance.RangeFilter) ([]attendance.PunchRecord, error) {
	var (
		conditions = []string{"a.timestamp >= ?", "a.timestamp < ?"}
		args       = []any{formatTime(filter.Start), formatTime(filter.End)}
	)
	if filter.EmployeeID != nil {
		conditions = append(conditions, "a.employee_id = ?")
		args = append(args, *filter.EmployeeID)
	}

	query := `
		SELECT a.id, a.employee_id, a.timestamp, a.status, a.device_id, e.user_id, e.name, COALESCE(t.name, '')
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		LEFT JOIN teams t ON t.id = e.team_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY a.timestamp, a.id`
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches in range: %w", err)
	}
	defer rows.Close()

	result := make([]attendance.PunchRecord, 0)
	for rows.Next() {
		var (
			rec        attendance.PunchRecord
			ts, status string
			deviceID   sql.NullString
		)
		err := rows.Scan(&rec.ID, &rec.EmployeeID, &ts, &status, &deviceID, &rec.EmployeeUserID, &rec.EmployeeName, &rec.TeamName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch record: %w", err)
		}
		if rec.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("failed to parse punch timestamp: %w", err)
		}
		rec.Status = attendance.Status(status)
		rec.DeviceID = stringPtr(deviceID)
		result = append(result, rec)
	}
	return result, rows.Err()
}
