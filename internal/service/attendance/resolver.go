package attendance

import (
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
)

// ResolveInput carries one employee's data for one day. Punches must be sorted newest first;
// Resolve does not sort them.
type ResolveInput struct {
	TargetDate time.Time
	Shift      *shift.Shift // nil when unassigned or the lookup failed
	Punches    []attendance.Punch
}

// Resolve derives the employee's status for the target date from the first punch on that date.
// With no punch on the date the employee is Punched_Out, whatever earlier punches say.
func Resolve(in ResolveInput) attendance.Resolution {
	latest, ok := firstOnDate(in.Punches, in.TargetDate)
	if !ok {
		return attendance.Resolution{Status: attendance.StatusPunchedOut}
	}

	ts := latest.Timestamp
	res := attendance.Resolution{
		Status:        latest.Status,
		LastPunchAt:   &ts,
		LastPunchDate: ts.Format(attendance.DateLayout),
		LastPunchTime: ts.Format(attendance.TimeLayout),
	}

	if latest.Status == attendance.StatusPunchedIn && in.Shift != nil {
		res.LateByMinutes = ShiftLateness(ts, *in.Shift)
	}

	return res
}

func firstOnDate(punches []attendance.Punch, date time.Time) (attendance.Punch, bool) {
	for _, p := range punches {
		if sameDay(p.Timestamp, date) {
			return p, true
		}
	}
	return attendance.Punch{}, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
