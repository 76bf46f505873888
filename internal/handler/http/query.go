package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/pkg/utils"
	"github.com/yci-attendance/attendance-backend/internal/pkg/validator"
)

// dateParam reads a YYYY-MM-DD query value, falling back when it is absent.
func dateParam(r *http.Request, key string, fallback time.Time) (time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return utils.StartOfDay(fallback), nil
	}
	date, ok := validator.IsValidDate(value)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   key,
			Message: key + " must be YYYY-MM-DD",
		}}
	}
	return date, nil
}

func intParam(r *http.Request, key string, fallback int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, validator.ValidationErrors{{
			Field:   key,
			Message: key + " must be a number",
		}}
	}
	return n, nil
}

// idParam rejects identifiers that are not UUIDv7, the format every stored record uses.
func idParam(field, value string) error {
	if validator.IsValidUUID(value) {
		return nil
	}
	return validator.ValidationErrors{{
		Field:   field,
		Message: field + " must be a valid UUID",
	}}
}
