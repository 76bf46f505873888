package report

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/domain/report"
	"github.com/yci-attendance/attendance-backend/internal/pkg/utils"
)

type ReportServiceImpl struct {
	attendanceService attendance.AttendanceService
}

func NewReportService(attendanceService attendance.AttendanceService) report.ReportService {
	return &ReportServiceImpl{
		attendanceService: attendanceService,
	}
}

// Generate implements report.ReportService.
func (s *ReportServiceImpl) Generate(ctx context.Context, reportType report.ReportType, date time.Time) (report.Report, error) {
	switch reportType {
	case report.ReportTypeDaily:
		return s.generateDaily(ctx, date)
	case report.ReportTypeWeekly:
		start, end := utils.WeekRange(date)
		last := end.AddDate(0, 0, -1)
		filename := fmt.Sprintf("weekly_report_%s_to_%s.csv", start.Format(attendance.DateLayout), last.Format(attendance.DateLayout))
		return s.generatePunches(ctx, reportType, filename, start, last)
	case report.ReportTypeMonthly:
		start, end := utils.MonthRange(date)
		filename := fmt.Sprintf("monthly_report_%s.csv", start.Format("2006-01"))
		return s.generatePunches(ctx, reportType, filename, start, end.AddDate(0, 0, -1))
	}
	return report.Report{}, report.ErrInvalidReportType
}

// generateDaily emits one row per employee from the resolved status for date
func (s *ReportServiceImpl) generateDaily(ctx context.Context, date time.Time) (report.Report, error) {
	statuses, err := s.attendanceService.ListEmployeeStatuses(ctx, date)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to resolve statuses: %w", err)
	}

	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		rows = append(rows, []string{
			st.UserID,
			st.Name,
			st.Team,
			st.ShiftName,
			st.ShiftStartTime,
			st.ShiftEndTime,
			string(st.Status),
			st.LastPunchDate,
			st.LastPunchTime,
			strconv.Itoa(st.LateByMinutes),
		})
	}

	return report.Report{
		Type:     report.ReportTypeDaily,
		Filename: fmt.Sprintf("daily_report_%s.csv", date.Format(attendance.DateLayout)),
		Header:   report.DailyHeader,
		Rows:     rows,
	}, nil
}

// generatePunches emits one row per punch between first and last, inclusive
func (s *ReportServiceImpl) generatePunches(ctx context.Context, reportType report.ReportType, filename string, first, last time.Time) (report.Report, error) {
	punches, err := s.attendanceService.ListPunches(ctx, attendance.PunchFilter{
		StartDate: first.Format(attendance.DateLayout),
		EndDate:   last.Format(attendance.DateLayout),
	})
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to list punches: %w", err)
	}

	rows := make([][]string, 0, len(punches))
	for _, p := range punches {
		rows = append(rows, []string{p.UserID, p.Name, p.Team, p.Date, p.Time, string(p.Status)})
	}

	return report.Report{
		Type:     reportType,
		Filename: filename,
		Header:   report.PunchHeader,
		Rows:     rows,
	}, nil
}
