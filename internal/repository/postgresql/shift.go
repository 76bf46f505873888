package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
	"github.com/yci-attendance/attendance-backend/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `id, name, start_time, end_time, break_start, break_end, created_at, updated_at`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var (
		s                    shift.Shift
		start, end           pgtype.Time
		breakStart, breakEnd pgtype.Time
	)
	if err := row.Scan(&s.ID, &s.Name, &start, &end, &breakStart, &breakEnd, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return shift.Shift{}, err
	}
	s.StartTime = shift.FromMicroseconds(start.Microseconds)
	s.EndTime = shift.FromMicroseconds(end.Microseconds)
	s.BreakStart = timeOfDayPtr(breakStart)
	s.BreakEnd = timeOfDayPtr(breakEnd)
	s.CreatedAt, s.UpdatedAt = asLocal(s.CreatedAt), asLocal(s.UpdatedAt)
	return s, nil
}

func timeOfDayPtr(t pgtype.Time) *shift.TimeOfDay {
	if !t.Valid {
		return nil
	}
	v := shift.FromMicroseconds(t.Microseconds)
	return &v
}

func pgTime(t *shift.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: t.Microseconds(), Valid: true}
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	s, err := scanShift(r.db.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift with id %s: %w", id, err)
	}
	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]shift.Shift, error) {
	rows, err := r.db.Query(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY start_time, name`)
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
	query := `
		INSERT INTO shifts (id, name, start_time, end_time, break_start, break_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		newShift.ID, newShift.Name,
		pgTime(&newShift.StartTime), pgTime(&newShift.EndTime),
		pgTime(newShift.BreakStart), pgTime(newShift.BreakEnd),
	).Scan(&newShift.CreatedAt, &newShift.UpdatedAt)
	if err != nil {
		return shift.Shift{}, constraintError(err, map[string]error{"shifts_name_key": shift.ErrShiftNameExists})
	}
	newShift.CreatedAt, newShift.UpdatedAt = asLocal(newShift.CreatedAt), asLocal(newShift.UpdatedAt)
	return newShift, nil
}
