package shift

import "errors"

var (
	ErrShiftNotFound    = errors.New("shift not found")
	ErrShiftNameExists  = errors.New("shift with this name already exists")
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
)
