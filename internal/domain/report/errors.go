package report

import "errors"

var (
	ErrInvalidReportType = errors.New("report type must be daily, weekly or monthly")
	ErrInvalidDate       = errors.New("date must be YYYY-MM-DD")
)
