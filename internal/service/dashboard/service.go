package dashboard

import (
	"context"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/domain/dashboard"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
	"github.com/yci-attendance/attendance-backend/internal/pkg/utils"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewDashboardService(attendanceService attendance.AttendanceService) dashboard.DashboardService {
	return &DashboardServiceImpl{
		attendanceService: attendanceService,
		now:               time.Now,
	}
}

// GetDashboard returns combined dashboard data using parallel goroutines
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, date time.Time) (*dashboard.DashboardResponse, error) {
	lateDate := utils.StartOfDay(date).AddDate(0, 0, -1)

	var (
		statuses   []attendance.EmployeeStatusResponse
		lateComers []attendance.LateComer
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		statuses, err = s.attendanceService.ListEmployeeStatuses(gCtx, date)
		return err
	})

	g.Go(func() error {
		var err error
		lateComers, err = s.attendanceService.ListLateComers(gCtx, lateDate)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	return &dashboard.DashboardResponse{
		Date:           date.Format(attendance.DateLayout),
		Statistics:     CalculateStatistics(statuses, date, now),
		PieChart:       PieChart(statuses),
		NotPunchedIn:   NotPunchedIn(statuses, date, now),
		LateComers:     lateComers,
		LateComersDate: lateDate.Format(attendance.DateLayout),
	}, nil
}

func (s *DashboardServiceImpl) GetStatistics(ctx context.Context, date time.Time) (*dashboard.StatisticsResponse, error) {
	statuses, err := s.attendanceService.ListEmployeeStatuses(ctx, date)
	if err != nil {
		return nil, err
	}
	stats := CalculateStatistics(statuses, date, s.now())
	return &stats, nil
}

// CalculateStatistics aggregates resolved statuses for date. now decides which shifts have started.
func CalculateStatistics(statuses []attendance.EmployeeStatusResponse, date, now time.Time) dashboard.StatisticsResponse {
	day := date.Format(attendance.DateLayout)
	stats := dashboard.StatisticsResponse{TotalEmployees: int64(len(statuses))}

	for _, st := range statuses {
		punchedToday := st.LastPunchDate == day

		if st.IsOnline && punchedToday {
			stats.PresentToday++
		}
		if st.IsOnline && st.Status == attendance.StatusPunchedIn {
			stats.WorkingNow++
		}
		if st.IsOnline && st.Status == attendance.StatusBreakIn {
			stats.OnBreak++
		}
		if shiftStarted(st, date, now) && st.Status != attendance.StatusPunchedIn {
			stats.NotPunchedIn++
		}
		if !st.IsOnline || st.Status == attendance.StatusPunchedOut {
			stats.AbsentToday++
		}

		if !punchedToday {
			continue
		}
		switch st.Status {
		case attendance.StatusPunchedIn:
			stats.LastPunchIn = laterEvent(stats.LastPunchIn, st)
		case attendance.StatusPunchedOut:
			stats.LastPunchOut = laterEvent(stats.LastPunchOut, st)
		case attendance.StatusBreakIn:
			stats.LastBreakIn = laterEvent(stats.LastBreakIn, st)
		case attendance.StatusBreakOut:
			stats.LastBreakOut = laterEvent(stats.LastBreakOut, st)
		}
	}

	return stats
}

// laterEvent keeps the earlier-seen event on equal timestamps.
func laterEvent(current *dashboard.LastEvent, st attendance.EmployeeStatusResponse) *dashboard.LastEvent {
	ts := st.LastPunchDate + " " + st.LastPunchTime
	if current != nil && ts <= current.Timestamp {
		return current
	}
	return &dashboard.LastEvent{Timestamp: ts, UserID: st.UserID, Name: st.Name}
}

// PieChart buckets employees by presence. Empty segments are omitted.
func PieChart(statuses []attendance.EmployeeStatusResponse) []dashboard.PieChartSegment {
	counts := make(map[string]int64, len(dashboard.SegmentOrder))
	for _, st := range statuses {
		counts[segmentOf(st)]++
	}

	segments := make([]dashboard.PieChartSegment, 0, len(counts))
	for _, name := range dashboard.SegmentOrder {
		if counts[name] == 0 {
			continue
		}
		segments = append(segments, dashboard.PieChartSegment{
			Name:  name,
			Value: counts[name],
			Color: dashboard.SegmentColors[name],
		})
	}
	return segments
}

func segmentOf(st attendance.EmployeeStatusResponse) string {
	switch {
	case !st.IsOnline:
		return dashboard.SegmentOffline
	case st.Status == attendance.StatusPunchedIn:
		return dashboard.SegmentWorking
	case st.Status == attendance.StatusBreakIn:
		return dashboard.SegmentOnBreak
	case st.Status == attendance.StatusBreakOut:
		return dashboard.SegmentAvailable
	default:
		return dashboard.SegmentPunchedOut
	}
}

// NotPunchedIn lists employees whose shift has started on date without a check-in.
func NotPunchedIn(statuses []attendance.EmployeeStatusResponse, date, now time.Time) []attendance.EmployeeStatusResponse {
	result := make([]attendance.EmployeeStatusResponse, 0)
	for _, st := range statuses {
		if st.Status != attendance.StatusPunchedIn && shiftStarted(st, date, now) {
			result = append(result, st)
		}
	}
	return result
}

// shiftStarted compares the shift start with now when date is today. Past days count as started,
// future days as not started. Employees without a shift never count.
func shiftStarted(st attendance.EmployeeStatusResponse, date, now time.Time) bool {
	start, err := shift.ParseTimeOfDay(st.ShiftStartTime)
	if err != nil {
		return false
	}

	day := utils.StartOfDay(date)
	today := utils.StartOfDay(now)
	switch {
	case day.Before(today):
		return true
	case day.After(today):
		return false
	}
	return !now.Before(start.On(now))
}
