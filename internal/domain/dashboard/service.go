package dashboard

import (
	"context"
	"time"
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns statistics, pie chart, not-punched-in list and the previous day's late comers
	GetDashboard(ctx context.Context, date time.Time) (*DashboardResponse, error)

	// GetStatistics returns the aggregate counters for date
	GetStatistics(ctx context.Context, date time.Time) (*StatisticsResponse, error)
}
