package dashboard

import "github.com/yci-attendance/attendance-backend/internal/domain/attendance"

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	Date           string                              `json:"date"`
	Statistics     StatisticsResponse                  `json:"statistics"`
	PieChart       []PieChartSegment                   `json:"pie_chart"`
	NotPunchedIn   []attendance.EmployeeStatusResponse `json:"not_punched_in"`
	LateComers     []attendance.LateComer              `json:"late_comers"`
	LateComersDate string                              `json:"late_comers_date"`
}

// ========== STATISTICS ==========

// StatisticsResponse aggregates the resolved statuses of all employees for one day
type StatisticsResponse struct {
	TotalEmployees int64      `json:"total_employees"`
	PresentToday   int64      `json:"present_today"`  // online, punched on the day
	WorkingNow     int64      `json:"working_now"`    // online, Punched_In
	OnBreak        int64      `json:"on_break"`       // online, Break_In
	NotPunchedIn   int64      `json:"not_punched_in"` // shift started, not Punched_In
	AbsentToday    int64      `json:"absent_today"`   // offline or Punched_Out
	LastPunchIn    *LastEvent `json:"last_punch_in,omitempty"`
	LastPunchOut   *LastEvent `json:"last_punch_out,omitempty"`
	LastBreakIn    *LastEvent `json:"last_break_in,omitempty"`
	LastBreakOut   *LastEvent `json:"last_break_out,omitempty"`
}

// LastEvent is the most recent punch of one status on the day
type LastEvent struct {
	Timestamp string `json:"timestamp"` // Format: "YYYY-MM-DD HH:MM:SS"
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
}

// ========== PIE CHART ==========

const (
	SegmentWorking    = "Working"
	SegmentOnBreak    = "On Break"
	SegmentAvailable  = "Available"
	SegmentPunchedOut = "Punched Out"
	SegmentOffline    = "Offline"
)

// SegmentOrder is the order segments are emitted in
var SegmentOrder = []string{SegmentWorking, SegmentOnBreak, SegmentAvailable, SegmentPunchedOut, SegmentOffline}

var SegmentColors = map[string]string{
	SegmentWorking:    "rgb(34, 197, 94)",
	SegmentOnBreak:    "rgb(251, 146, 60)",
	SegmentAvailable:  "rgb(59, 130, 246)",
	SegmentPunchedOut: "rgb(239, 68, 68)",
	SegmentOffline:    "rgb(156, 163, 175)",
}

type PieChartSegment struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Color string `json:"color"`
}
