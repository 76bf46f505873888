package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/employee"
	"github.com/yci-attendance/attendance-backend/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewEmployeeRepository(db *database.SQLiteDB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, user_id, name, email, phone, shift_id, team_id, device_id, created_at, updated_at`

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var (
		e                         employee.Employee
		email, phone              sql.NullString
		shiftID, teamID, deviceID sql.NullString
		createdAt, updatedAt      string
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Name, &email, &phone, &shiftID, &teamID, &deviceID, &createdAt, &updatedAt)
	if err != nil {
		return employee.Employee{}, err
	}
	e.Email, e.Phone = stringPtr(email), stringPtr(phone)
	e.ShiftID, e.TeamID, e.DeviceID = stringPtr(shiftID), stringPtr(teamID), stringPtr(deviceID)

	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return employee.Employee{}, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg string) (employee.Employee, error) {
	e, err := scanEmployee(r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE `+where+` = ?`, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by %s %s: %w", where, arg, err)
	}
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "id", id)
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return r.getOne(ctx, "user_id", userID)
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name, user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	now := time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO employees (`+employeeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newEmployee.ID, newEmployee.UserID, newEmployee.Name,
		nullString(newEmployee.Email), nullString(newEmployee.Phone),
		nullString(newEmployee.ShiftID), nullString(newEmployee.TeamID), nullString(newEmployee.DeviceID),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return employee.Employee{}, constraintError(err, map[string]error{
			"employees.user_id": employee.ErrUserIDExists,
			"employees.email":   employee.ErrEmailExists,
		})
	}
	newEmployee.CreatedAt, newEmployee.UpdatedAt = now, now
	return newEmployee, nil
}
