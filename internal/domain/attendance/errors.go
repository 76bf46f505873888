package attendance

import "errors"

// Attendance domain errors
var (
	ErrInvalidStatus        = errors.New("invalid attendance status")
	ErrPunchEmployeeUnknown = errors.New("punch references an unknown employee")
	ErrPunchDeviceUnknown   = errors.New("punch references an unknown device")
	ErrInvalidDateRange     = errors.New("end_date must not be before start_date")
)
