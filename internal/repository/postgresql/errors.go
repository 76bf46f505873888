package postgresql

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// constraintError maps a constraint violation to the domain error registered for its name.
func constraintError(err error, byConstraint map[string]error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code != codeUniqueViolation && pgErr.Code != codeForeignKeyViolation {
		return err
	}
	if mapped, ok := byConstraint[pgErr.ConstraintName]; ok {
		return mapped
	}
	return err
}

// asLocal reinterprets a TIMESTAMP value, which pgx returns as UTC, as local wall-clock time.
func asLocal(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
}

func asLocalPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := asLocal(*t)
	return &v
}
