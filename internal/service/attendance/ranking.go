package attendance

import (
	"sort"

	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
)

// DefaultLateComersLimit is the size of the late check-in ranking.
const DefaultLateComersLimit = 10

// RankLateComers computes lateness for every check-in row, keeps the late ones and returns
// at most limit of them, latest first. Equal lateness keeps the order rows arrived in.
// The ranking never exceeds DefaultLateComersLimit entries.
func RankLateComers(rows []attendance.CheckInRow, limit int) []attendance.LateComer {
	if limit <= 0 || limit > DefaultLateComersLimit {
		limit = DefaultLateComersLimit
	}

	late := make([]attendance.LateComer, 0, len(rows))
	for _, row := range rows {
		minutes := ShiftLateness(row.Timestamp, shift.Shift{StartTime: row.ShiftStart, EndTime: row.ShiftEnd})
		if minutes <= 0 {
			continue
		}
		late = append(late, attendance.LateComer{
			EmployeeID:     row.EmployeeID,
			UserID:         row.UserID,
			Name:           row.Name,
			Team:           row.TeamName,
			ShiftName:      row.ShiftName,
			ShiftStartTime: row.ShiftStart.HHMM(),
			LateByMinutes:  minutes,
		})
	}

	sort.SliceStable(late, func(i, j int) bool {
		return late[i].LateByMinutes > late[j].LateByMinutes
	})

	if len(late) > limit {
		late = late[:limit]
	}
	return late
}
