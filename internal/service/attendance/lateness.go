package attendance

import (
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
)

// LatenessMinutes returns the whole minutes punch falls after shiftStart on the punch's own
// calendar date. Early and on-time punches yield 0. Partial minutes are truncated.
func LatenessMinutes(punch time.Time, shiftStart shift.TimeOfDay) int {
	return minutesAfter(punch, shiftStart.On(punch))
}

// ShiftLateness is LatenessMinutes against a full shift. For shifts that cross midnight a punch
// in the post-midnight tail (before the shift end) is measured against the previous day's start.
func ShiftLateness(punch time.Time, s shift.Shift) int {
	if s.CrossesMidnight() && shift.FromTime(punch) < s.EndTime {
		return minutesAfter(punch, s.StartTime.On(punch.AddDate(0, 0, -1)))
	}
	return LatenessMinutes(punch, s.StartTime)
}

func minutesAfter(punch, reference time.Time) int {
	if !punch.After(reference) {
		return 0
	}
	return int(punch.Sub(reference) / time.Minute)
}
