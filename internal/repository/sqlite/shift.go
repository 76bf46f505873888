package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
	"github.com/yci-attendance/attendance-backend/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewShiftRepository(db *database.SQLiteDB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `id, name, start_time, end_time, break_start, break_end, created_at, updated_at`

func scanShift(row rowScanner) (shift.Shift, error) {
	var (
		s                    shift.Shift
		start, end           string
		breakStart, breakEnd sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&s.ID, &s.Name, &start, &end, &breakStart, &breakEnd, &createdAt, &updatedAt); err != nil {
		return shift.Shift{}, err
	}

	var err error
	if s.StartTime, err = shift.ParseTimeOfDay(start); err != nil {
		return shift.Shift{}, err
	}
	if s.EndTime, err = shift.ParseTimeOfDay(end); err != nil {
		return shift.Shift{}, err
	}
	if s.BreakStart, err = parseTimeOfDay(breakStart); err != nil {
		return shift.Shift{}, err
	}
	if s.BreakEnd, err = parseTimeOfDay(breakEnd); err != nil {
		return shift.Shift{}, err
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return shift.Shift{}, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return shift.Shift{}, err
	}
	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	s, err := scanShift(r.db.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift with id %s: %w", id, err)
	}
	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]shift.Shift, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY start_time, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	shifts := make([]shift.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, newShift shift.Shift) (shift.Shift, error) {
	now := time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shifts (`+shiftColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		newShift.ID, newShift.Name, newShift.StartTime.String(), newShift.EndTime.String(),
		formatTimeOfDay(newShift.BreakStart), formatTimeOfDay(newShift.BreakEnd),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return shift.Shift{}, constraintError(err, map[string]error{"shifts.name": shift.ErrShiftNameExists})
	}
	newShift.CreatedAt, newShift.UpdatedAt = now, now
	return newShift, nil
}
