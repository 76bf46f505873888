package report

import (
	"context"
	"time"
)

// ReportService defines the interface for CSV exports
type ReportService interface {
	// Generate builds the report of reportType anchored on date
	Generate(ctx context.Context, reportType ReportType, date time.Time) (Report, error)
}
