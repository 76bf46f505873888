package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/domain/employee"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/device"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/team"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
	"github.com/yci-attendance/attendance-backend/internal/pkg/sse"
	"github.com/yci-attendance/attendance-backend/internal/pkg/validator"
)

var errStoreDown = errors.New("store unreachable")

// ===== FAKES =====

type fakeEmployees struct {
	list    []employee.Employee
	listErr error
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range f.list {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployees) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	for _, e := range f.list {
		if e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployees) List(context.Context) ([]employee.Employee, error) {
	return f.list, f.listErr
}

func (f *fakeEmployees) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

type fakeShifts map[string]shift.Shift

func (f fakeShifts) GetByID(_ context.Context, id string) (shift.Shift, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return shift.Shift{}, shift.ErrShiftNotFound
}

func (f fakeShifts) List(context.Context) ([]shift.Shift, error) { return nil, nil }

func (f fakeShifts) Create(_ context.Context, s shift.Shift) (shift.Shift, error) { return s, nil }

type fakeTeams map[string]team.Team

func (f fakeTeams) GetByID(_ context.Context, id string) (team.Team, error) {
	if id == "team-panic" {
		panic("team row corrupted")
	}
	if t, ok := f[id]; ok {
		return t, nil
	}
	return team.Team{}, team.ErrTeamNotFound
}

func (f fakeTeams) List(context.Context) ([]team.Team, error) { return nil, nil }

func (f fakeTeams) Create(_ context.Context, t team.Team) (team.Team, error) { return t, nil }

type fakeDevices map[string]device.Device

func (f fakeDevices) GetByID(_ context.Context, id string) (device.Device, error) {
	if d, ok := f[id]; ok {
		return d, nil
	}
	return device.Device{}, device.ErrDeviceNotFound
}

func (f fakeDevices) GetByIP(_ context.Context, ip string) (device.Device, error) {
	for _, d := range f {
		if d.IPAddress == ip {
			return d, nil
		}
	}
	return device.Device{}, device.ErrDeviceNotFound
}

func (f fakeDevices) List(context.Context) ([]device.Device, error) { return nil, nil }

func (f fakeDevices) Create(_ context.Context, d device.Device) (device.Device, error) { return d, nil }

func (f fakeDevices) UpdateLastConnected(context.Context, string, time.Time) error { return nil }

type fakeAttendance struct {
	mu        sync.Mutex
	punches   map[string][]attendance.Punch // newest first
	failFor   map[string]bool
	checkIns  []attendance.CheckInRow
	checkErr  error
	records   []attendance.PunchRecord
	created   []attendance.Punch
	lastRange attendance.RangeFilter
}

func (f *fakeAttendance) Create(_ context.Context, p attendance.Punch) (attendance.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakeAttendance) ListRecentByEmployee(_ context.Context, employeeID string, limit int) ([]attendance.Punch, error) {
	if f.failFor[employeeID] {
		return nil, errStoreDown
	}
	p := f.punches[employeeID]
	if len(p) > limit {
		p = p[:limit]
	}
	return p, nil
}

func (f *fakeAttendance) ListCheckIns(context.Context, time.Time, time.Time) ([]attendance.CheckInRow, error) {
	return f.checkIns, f.checkErr
}

func (f *fakeAttendance) ListInRange(_ context.Context, filter attendance.RangeFilter) ([]attendance.PunchRecord, error) {
	f.lastRange = filter
	return f.records, nil
}

type fakeReachability map[string]bool

func (f fakeReachability) IsOnline(ip string) bool { return f[ip] }

type recordingPublisher struct {
	mu     sync.Mutex
	events []sse.Event
}

func (p *recordingPublisher) Publish(topic string, e sse.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e.Topic = topic
	p.events = append(p.events, e)
}

// ===== FIXTURES =====

func ref(s string) *string { return &s }

type fixture struct {
	employees  *fakeEmployees
	attendance *fakeAttendance
	publisher  *recordingPublisher
	service    attendance.AttendanceService
}

func newFixture(employees ...employee.Employee) *fixture {
	f := &fixture{
		employees:  &fakeEmployees{list: employees},
		attendance: &fakeAttendance{punches: map[string][]attendance.Punch{}, failFor: map[string]bool{}},
		publisher:  &recordingPublisher{},
	}
	morning := *morningShift()
	morning.ID = "shift-morning"
	shifts := fakeShifts{morning.ID: morning}
	teams := fakeTeams{"team-ops": {ID: "team-ops", Name: "Ops"}}
	devices := fakeDevices{
		"dev-gate":  {ID: "dev-gate", Name: "Gate", IPAddress: "10.0.0.10", Port: device.DefaultPort},
		"dev-floor": {ID: "dev-floor", Name: "Floor", IPAddress: "10.0.0.11", Port: device.DefaultPort},
	}
	f.service = NewAttendanceService(f.attendance, f.employees, shifts, teams, devices,
		fakeReachability{"10.0.0.10": true}, f.publisher, Options{Workers: 4})
	return f
}

func fullEmployee(id string) employee.Employee {
	return employee.Employee{
		ID:       id,
		UserID:   "u-" + id,
		Name:     "Employee " + id,
		ShiftID:  ref("shift-morning"),
		TeamID:   ref("team-ops"),
		DeviceID: ref("dev-gate"),
	}
}

// ===== STATUS RESOLUTION TESTS =====

func TestAttendanceService_GetEmployeeStatus_Late(t *testing.T) {
	f := newFixture(fullEmployee("e1"))
	f.attendance.punches["e1"] = []attendance.Punch{punchAt(today, 8, 15, attendance.StatusPunchedIn)}

	got, err := f.service.GetEmployeeStatus(context.Background(), "e1", today)

	require.NoError(t, err)
	assert.Equal(t, attendance.EmployeeStatusResponse{
		ID:             "e1",
		UserID:         "u-e1",
		Name:           "Employee e1",
		ShiftName:      "Morning",
		ShiftStartTime: "08:00",
		ShiftEndTime:   "17:00",
		Team:           "Ops",
		TeamID:         "team-ops",
		DeviceIP:       "10.0.0.10",
		IsOnline:       true,
		Status:         attendance.StatusPunchedIn,
		LastPunchDate:  "2024-03-05",
		LastPunchTime:  "08:15:00",
		LateByMinutes:  15,
	}, got)
}

func TestAttendanceService_GetEmployeeStatus_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetEmployeeStatus(context.Background(), "missing", today)

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_GetEmployeeStatus_YesterdayOnly(t *testing.T) {
	f := newFixture(fullEmployee("e1"))
	f.attendance.punches["e1"] = []attendance.Punch{punchAt(yesterday, 8, 15, attendance.StatusPunchedIn)}

	got, err := f.service.GetEmployeeStatus(context.Background(), "e1", today)

	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPunchedOut, got.Status)
	assert.Empty(t, got.LastPunchDate)
	assert.Empty(t, got.LastPunchTime)
	assert.Zero(t, got.LateByMinutes)
}

func TestAttendanceService_ListEmployeeStatuses_DegradesPerField(t *testing.T) {
	brokenTeam := fullEmployee("broken-team")
	brokenTeam.TeamID = ref("team-deleted")

	panickyTeam := fullEmployee("panicky-team")
	panickyTeam.TeamID = ref("team-panic")

	noShift := fullEmployee("no-shift")
	noShift.ShiftID = nil

	missingShift := fullEmployee("missing-shift")
	missingShift.ShiftID = ref("shift-deleted")

	offline := fullEmployee("offline")
	offline.DeviceID = ref("dev-floor")

	punchesDown := fullEmployee("punches-down")

	f := newFixture(fullEmployee("healthy"), brokenTeam, panickyTeam, noShift, missingShift, offline, punchesDown)
	for _, e := range f.employees.list {
		f.attendance.punches[e.ID] = []attendance.Punch{punchAt(today, 8, 20, attendance.StatusPunchedIn)}
	}
	f.attendance.failFor["punches-down"] = true

	got, err := f.service.ListEmployeeStatuses(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, got, 7)

	byID := map[string]attendance.EmployeeStatusResponse{}
	for i, s := range got {
		assert.Equal(t, f.employees.list[i].ID, s.ID, "order follows the employee listing")
		byID[s.ID] = s
	}

	healthy := byID["healthy"]
	assert.Equal(t, "Ops", healthy.Team)
	assert.Equal(t, 20, healthy.LateByMinutes)

	for _, id := range []string{"broken-team", "panicky-team"} {
		s := byID[id]
		assert.Empty(t, s.Team, id)
		assert.Empty(t, s.TeamID, id)
		assert.Equal(t, "Morning", s.ShiftName, id)
		assert.Equal(t, "10.0.0.10", s.DeviceIP, id)
		assert.Equal(t, 20, s.LateByMinutes, id)
	}

	for _, id := range []string{"no-shift", "missing-shift"} {
		s := byID[id]
		assert.Empty(t, s.ShiftName, id)
		assert.Empty(t, s.ShiftStartTime, id)
		assert.Equal(t, attendance.StatusPunchedIn, s.Status, id)
		assert.Zero(t, s.LateByMinutes, id)
		assert.Equal(t, "Ops", s.Team, id)
	}

	assert.Equal(t, "10.0.0.11", byID["offline"].DeviceIP)
	assert.False(t, byID["offline"].IsOnline)

	down := byID["punches-down"]
	assert.Equal(t, attendance.StatusPunchedOut, down.Status)
	assert.Zero(t, down.LateByMinutes)
	assert.Equal(t, "Ops", down.Team)
	assert.True(t, down.IsOnline)
}

func TestAttendanceService_ListEmployeeStatuses_ListFails(t *testing.T) {
	f := newFixture()
	f.employees.listErr = errStoreDown

	_, err := f.service.ListEmployeeStatuses(context.Background(), today)

	assert.ErrorIs(t, err, errStoreDown)
}

// ===== LATE COMERS TESTS =====

func TestAttendanceService_ListLateComers(t *testing.T) {
	f := newFixture()
	f.attendance.checkIns = []attendance.CheckInRow{checkIn("a", 8, 10), checkIn("b", 7, 59), checkIn("c", 8, 40)}

	got, err := f.service.ListLateComers(context.Background(), yesterday)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].EmployeeID)
	assert.Equal(t, 40, got[0].LateByMinutes)
}

func TestAttendanceService_ListLateComers_StoreFailure(t *testing.T) {
	f := newFixture()
	f.attendance.checkErr = errStoreDown

	got, err := f.service.ListLateComers(context.Background(), yesterday)

	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ===== INGESTION TESTS =====

func TestAttendanceService_RecordPunch_ByUserIDAndDeviceIP(t *testing.T) {
	f := newFixture(fullEmployee("e1"))

	resp, err := f.service.RecordPunch(context.Background(), attendance.RecordPunchRequest{
		UserID:    "u-e1",
		Timestamp: "2024-03-05 08:15:30",
		Status:    "Punched_In",
		DeviceIP:  "10.0.0.11",
	})

	require.NoError(t, err)
	assert.True(t, validator.IsValidUUID(resp.ID))
	assert.Equal(t, "e1", resp.EmployeeID)
	assert.Equal(t, "Employee e1", resp.Name)
	assert.Equal(t, "2024-03-05", resp.Date)
	assert.Equal(t, "08:15:30", resp.Time)
	require.NotNil(t, resp.DeviceID)
	assert.Equal(t, "dev-floor", *resp.DeviceID)

	require.Len(t, f.attendance.created, 1)
	assert.Equal(t, time.Date(2024, 3, 5, 8, 15, 30, 0, time.Local), f.attendance.created[0].Timestamp)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, sse.TopicAttendance, f.publisher.events[0].Topic)
	assert.Equal(t, "punch", f.publisher.events[0].Event)
}

func TestAttendanceService_RecordPunch_FallsBackToEmployeeDevice(t *testing.T) {
	f := newFixture(fullEmployee("e1"))

	resp, err := f.service.RecordPunch(context.Background(), attendance.RecordPunchRequest{
		EmployeeID: "e1",
		Timestamp:  "2024-03-05T17:00:00",
		Status:     "Punched_Out",
	})

	require.NoError(t, err)
	require.NotNil(t, resp.DeviceID)
	assert.Equal(t, "dev-gate", *resp.DeviceID)
}

func TestAttendanceService_RecordPunch_Errors(t *testing.T) {
	f := newFixture(fullEmployee("e1"))
	ctx := context.Background()

	_, err := f.service.RecordPunch(ctx, attendance.RecordPunchRequest{UserID: "nobody", Timestamp: "2024-03-05 08:00:00", Status: "Punched_In"})
	assert.ErrorIs(t, err, attendance.ErrPunchEmployeeUnknown)

	_, err = f.service.RecordPunch(ctx, attendance.RecordPunchRequest{UserID: "u-e1", Timestamp: "2024-03-05 08:00:00", Status: "Punched_In", DeviceID: "dev-gone"})
	assert.ErrorIs(t, err, attendance.ErrPunchDeviceUnknown)

	_, err = f.service.RecordPunch(ctx, attendance.RecordPunchRequest{UserID: "u-e1", Timestamp: "yesterday", Status: "Lunch"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "timestamp")
	assert.Contains(t, verrs.ToMap(), "status")

	assert.Empty(t, f.attendance.created)
	assert.Empty(t, f.publisher.events)
}

// ===== HISTORY TESTS =====

func TestAttendanceService_ListPunches(t *testing.T) {
	f := newFixture()
	f.attendance.records = []attendance.PunchRecord{{
		Punch:          punchAt(today, 8, 0, attendance.StatusPunchedIn),
		EmployeeUserID: "u-emp-1",
		EmployeeName:   "Employee 1",
		TeamName:       "Ops",
	}}

	got, err := f.service.ListPunches(context.Background(), attendance.PunchFilter{StartDate: "2024-03-01", EndDate: "2024-03-05"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ops", got[0].Team)
	assert.Equal(t, "u-emp-1", got[0].UserID)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), f.attendance.lastRange.Start)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.Local), f.attendance.lastRange.End)
}

func TestAttendanceService_ListPunches_InvalidRange(t *testing.T) {
	f := newFixture()

	_, err := f.service.ListPunches(context.Background(), attendance.PunchFilter{StartDate: "2024-03-05", EndDate: "2024-03-01"})

	assert.ErrorContains(t, err, attendance.ErrInvalidDateRange.Error())
}
