// Package sqlite implements the domain repositories on the embedded SQLite store.
// Timestamps are stored as local wall-clock TEXT so that range queries compare lexically.
package sqlite

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

func formatTime(t time.Time) string {
	return t.In(time.Local).Format(timestampLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timestampLayout, s, time.Local)
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func formatTimeOfDay(t *shift.TimeOfDay) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.String(), Valid: true}
}

func parseTimeOfDay(s sql.NullString) (*shift.TimeOfDay, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := shift.ParseTimeOfDay(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// constraintError maps a constraint failure to the domain error registered for the
// "table.column" named in the SQLite message, or for "FOREIGN KEY".
func constraintError(err error, byKey map[string]error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return err
	}
	msg := sqliteErr.Error()
	for key, mapped := range byKey {
		if strings.Contains(msg, key) {
			return mapped
		}
	}
	return err
}
