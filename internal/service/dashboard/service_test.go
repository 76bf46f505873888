package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/domain/dashboard"
)

var day = time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)

type stubAttendance struct {
	attendance.AttendanceService
	statuses    []attendance.EmployeeStatusResponse
	statusErr   error
	lateComers  []attendance.LateComer
	lateDateGot time.Time
}

func (s *stubAttendance) ListEmployeeStatuses(context.Context, time.Time) ([]attendance.EmployeeStatusResponse, error) {
	return s.statuses, s.statusErr
}

func (s *stubAttendance) ListLateComers(_ context.Context, date time.Time) ([]attendance.LateComer, error) {
	s.lateDateGot = date
	return s.lateComers, nil
}

func status(userID string, online bool, st attendance.Status, date, clock, shiftStart string) attendance.EmployeeStatusResponse {
	return attendance.EmployeeStatusResponse{
		ID:             "id-" + userID,
		UserID:         userID,
		Name:           "Employee " + userID,
		ShiftStartTime: shiftStart,
		IsOnline:       online,
		Status:         st,
		LastPunchDate:  date,
		LastPunchTime:  clock,
	}
}

func sample() []attendance.EmployeeStatusResponse {
	return []attendance.EmployeeStatusResponse{
		status("1", true, attendance.StatusPunchedIn, "2024-03-05", "08:05:00", "08:00"),
		status("2", true, attendance.StatusPunchedIn, "2024-03-05", "08:40:00", "08:00"),
		status("3", true, attendance.StatusBreakIn, "2024-03-05", "12:00:00", "08:00"),
		status("4", true, attendance.StatusBreakOut, "2024-03-05", "13:00:00", "08:00"),
		status("5", false, attendance.StatusPunchedIn, "2024-03-05", "07:50:00", "08:00"),
		status("6", true, attendance.StatusPunchedOut, "", "", "14:00"),
		status("7", true, attendance.StatusPunchedOut, "", "", ""),
	}
}

func TestCalculateStatistics(t *testing.T) {
	now := day.Add(10 * time.Hour)

	stats := CalculateStatistics(sample(), day, now)

	assert.Equal(t, int64(7), stats.TotalEmployees)
	assert.Equal(t, int64(4), stats.PresentToday)
	assert.Equal(t, int64(2), stats.WorkingNow)
	assert.Equal(t, int64(1), stats.OnBreak)
	// 3 and 4 started at 08:00 and are not Punched_In; 6 starts at 14:00; 7 has no shift
	assert.Equal(t, int64(2), stats.NotPunchedIn)
	assert.Equal(t, int64(3), stats.AbsentToday)

	require.NotNil(t, stats.LastPunchIn)
	assert.Equal(t, &dashboard.LastEvent{Timestamp: "2024-03-05 08:40:00", UserID: "2", Name: "Employee 2"}, stats.LastPunchIn)
	require.NotNil(t, stats.LastBreakIn)
	assert.Equal(t, "3", stats.LastBreakIn.UserID)
	require.NotNil(t, stats.LastBreakOut)
	assert.Nil(t, stats.LastPunchOut)
}

func TestCalculateStatistics_PastAndFutureDays(t *testing.T) {
	statuses := []attendance.EmployeeStatusResponse{status("6", true, attendance.StatusPunchedOut, "", "", "14:00")}

	past := CalculateStatistics(statuses, day, day.AddDate(0, 0, 3))
	future := CalculateStatistics(statuses, day, day.AddDate(0, 0, -3))

	assert.Equal(t, int64(1), past.NotPunchedIn)
	assert.Equal(t, int64(0), future.NotPunchedIn)
}

func TestPieChart(t *testing.T) {
	segments := PieChart(sample())

	assert.Equal(t, []dashboard.PieChartSegment{
		{Name: "Working", Value: 2, Color: "rgb(34, 197, 94)"},
		{Name: "On Break", Value: 1, Color: "rgb(251, 146, 60)"},
		{Name: "Available", Value: 1, Color: "rgb(59, 130, 246)"},
		{Name: "Punched Out", Value: 2, Color: "rgb(239, 68, 68)"},
		{Name: "Offline", Value: 1, Color: "rgb(156, 163, 175)"},
	}, segments)

	assert.Empty(t, PieChart(nil))
}

func TestNotPunchedIn(t *testing.T) {
	got := NotPunchedIn(sample(), day, day.Add(15*time.Hour))

	var ids []string
	for _, st := range got {
		ids = append(ids, st.UserID)
	}
	assert.Equal(t, []string{"3", "4", "6"}, ids)
}

func TestDashboardService_GetDashboard(t *testing.T) {
	stub := &stubAttendance{
		statuses:   sample(),
		lateComers: []attendance.LateComer{{EmployeeID: "id-2", LateByMinutes: 40}},
	}
	svc := &DashboardServiceImpl{attendanceService: stub, now: func() time.Time { return day.Add(10 * time.Hour) }}

	resp, err := svc.GetDashboard(context.Background(), day)

	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", resp.Date)
	assert.Equal(t, "2024-03-04", resp.LateComersDate)
	assert.Equal(t, day.AddDate(0, 0, -1), stub.lateDateGot)
	assert.Len(t, resp.LateComers, 1)
	assert.Equal(t, int64(7), resp.Statistics.TotalEmployees)
	assert.Len(t, resp.PieChart, 5)
	assert.Len(t, resp.NotPunchedIn, 2)
}

func TestDashboardService_GetStatistics_Error(t *testing.T) {
	boom := errors.New("store unreachable")
	svc := &DashboardServiceImpl{attendanceService: &stubAttendance{statusErr: boom}, now: time.Now}

	_, err := svc.GetStatistics(context.Background(), day)

	assert.ErrorIs(t, err, boom)
}
