package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/domain/dashboard"
	"github.com/yci-attendance/attendance-backend/internal/domain/employee"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/device"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/team"
	"github.com/yci-attendance/attendance-backend/internal/domain/report"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
	"github.com/yci-attendance/attendance-backend/internal/pkg/sse"
	devicesvc "github.com/yci-attendance/attendance-backend/internal/service/device"
)

var fixedNow = time.Date(2024, 3, 5, 10, 30, 0, 0, time.Local)

type fakeAttendanceService struct {
	statuses    []attendance.EmployeeStatusResponse
	statusErr   error
	lastDate    time.Time
	punchErr    error
	lastPunch   attendance.RecordPunchRequest
	lastFilter  attendance.PunchFilter
	lateComers  []attendance.LateComer
	getStatusFn func(id string) (attendance.EmployeeStatusResponse, error)
}

func (f *fakeAttendanceService) RecordPunch(_ context.Context, req attendance.RecordPunchRequest) (attendance.PunchResponse, error) {
	f.lastPunch = req
	if f.punchErr != nil {
		return attendance.PunchResponse{}, f.punchErr
	}
	return attendance.PunchResponse{ID: "p-1", EmployeeID: "emp-1", Status: attendance.Status(req.Status)}, nil
}

func (f *fakeAttendanceService) ListEmployeeStatuses(_ context.Context, date time.Time) ([]attendance.EmployeeStatusResponse, error) {
	f.lastDate = date
	return f.statuses, f.statusErr
}

func (f *fakeAttendanceService) GetEmployeeStatus(_ context.Context, id string, date time.Time) (attendance.EmployeeStatusResponse, error) {
	f.lastDate = date
	return f.getStatusFn(id)
}

func (f *fakeAttendanceService) ListLateComers(_ context.Context, date time.Time) ([]attendance.LateComer, error) {
	f.lastDate = date
	return f.lateComers, nil
}

func (f *fakeAttendanceService) ListPunches(_ context.Context, filter attendance.PunchFilter) ([]attendance.PunchResponse, error) {
	f.lastFilter = filter
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return []attendance.PunchResponse{}, nil
}

type fakeMasterService struct {
	createTeamErr error
	devices       []device.DeviceResponse
}

func (f *fakeMasterService) CreateTeam(_ context.Context, req team.CreateTeamRequest) (team.TeamResponse, error) {
	if f.createTeamErr != nil {
		return team.TeamResponse{}, f.createTeamErr
	}
	return team.TeamResponse{ID: "team-1", Name: req.Name}, nil
}

func (f *fakeMasterService) ListTeams(context.Context) ([]team.TeamResponse, error) {
	return []team.TeamResponse{{ID: "team-1", Name: "Ops"}}, nil
}

func (f *fakeMasterService) CreateShift(_ context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.ShiftResponse{ID: "shift-1", Name: req.Name}, nil
}

func (f *fakeMasterService) ListShifts(context.Context) ([]shift.ShiftResponse, error) {
	return nil, nil
}

func (f *fakeMasterService) CreateDevice(_ context.Context, req device.CreateDeviceRequest) (device.DeviceResponse, error) {
	return device.DeviceResponse{ID: "dev-1", Name: req.Name, IPAddress: req.IPAddress}, nil
}

func (f *fakeMasterService) ListDevices(context.Context) ([]device.DeviceResponse, error) {
	return f.devices, nil
}

func (f *fakeMasterService) CreateEmployee(_ context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{ID: "emp-1", UserID: req.UserID, Name: req.Name}, nil
}

func (f *fakeMasterService) ListEmployees(context.Context) ([]employee.EmployeeResponse, error) {
	return nil, nil
}

type fakeDashboardService struct {
	lastDate time.Time
}

func (f *fakeDashboardService) GetDashboard(_ context.Context, date time.Time) (*dashboard.DashboardResponse, error) {
	f.lastDate = date
	return &dashboard.DashboardResponse{Date: date.Format(attendance.DateLayout)}, nil
}

func (f *fakeDashboardService) GetStatistics(_ context.Context, date time.Time) (*dashboard.StatisticsResponse, error) {
	f.lastDate = date
	return &dashboard.StatisticsResponse{TotalEmployees: 3, PresentToday: 2}, nil
}

type fakeReportService struct {
	lastType report.ReportType
	lastDate time.Time
}

func (f *fakeReportService) Generate(_ context.Context, reportType report.ReportType, date time.Time) (report.Report, error) {
	f.lastType = reportType
	f.lastDate = date
	return report.Report{
		Type:     reportType,
		Filename: "daily_report_" + date.Format(attendance.DateLayout) + ".csv",
		Header:   []string{"Employee ID", "Name"},
		Rows:     [][]string{{"1001", "Ada"}},
	}, nil
}

type fixture struct {
	attendance *fakeAttendanceService
	master     *fakeMasterService
	dashboard  *fakeDashboardService
	reports    *fakeReportService
	hub        *sse.Hub
	pingErr    error
	router     *chi.Mux
}

func newFixture() *fixture {
	f := &fixture{
		attendance: &fakeAttendanceService{},
		master:     &fakeMasterService{},
		dashboard:  &fakeDashboardService{},
		reports:    &fakeReportService{},
		hub:        sse.NewHub(),
	}

	registry := devicesvc.NewRegistry()
	registry.Register("10.0.0.10", 4370, "Gate")

	f.router = NewRouter(
		RouterConfig{AllowedOrigins: []string{"*"}},
		&healthHandlerImpl{
			ping:    func(context.Context) error { return f.pingErr },
			devices: registry,
			streams: f.hub,
			timeout: time.Second,
			now:     func() time.Time { return fixedNow },
		},
		&attendanceHandlerImpl{attendanceService: f.attendance, now: func() time.Time { return fixedNow }},
		NewMasterHandler(f.master),
		&dashboardHandlerImpl{dashboardService: f.dashboard, now: func() time.Time { return fixedNow }},
		&reportHandlerImpl{reportService: f.reports, now: func() time.Time { return fixedNow }},
		NewStreamHandler(f.hub),
	)
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Date       string `json:"date"`
		TotalItems int    `json:"total_items"`
	} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestEmployeeStatuses_UsesDateQuery(t *testing.T) {
	f := newFixture()
	f.attendance.statuses = []attendance.EmployeeStatusResponse{
		{ID: "emp-1", Name: "Ada", Status: attendance.StatusPunchedIn, LateByMinutes: 15},
	}

	rec := f.do(http.MethodGet, "/api/v1/employees?date=2024-03-01", "")

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)
	require.NotNil(t, env.Meta)
	assert.Equal(t, "2024-03-01", env.Meta.Date)
	assert.Equal(t, 1, env.Meta.TotalItems)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), f.attendance.lastDate)

	var statuses []attendance.EmployeeStatusResponse
	require.NoError(t, json.Unmarshal(env.Data, &statuses))
	assert.Equal(t, 15, statuses[0].LateByMinutes)
}

func TestEmployeeStatuses_DefaultsToToday(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/employees", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), f.attendance.lastDate)
}

func TestEmployeeStatuses_InvalidDate(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/employees?date=05-03-2024", "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "date")
}

func TestEmployeeStatuses_ServiceFailure(t *testing.T) {
	f := newFixture()
	f.attendance.statusErr = errors.New("connection refused")

	rec := f.do(http.MethodGet, "/api/v1/employees", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

const (
	adaID   = "01890a5d-ac96-774b-bcce-b302099a8057"
	ghostID = "01890a5d-ac96-7c4b-9cce-b302099a8058"
)

func TestGetEmployeeStatus(t *testing.T) {
	f := newFixture()
	f.attendance.getStatusFn = func(id string) (attendance.EmployeeStatusResponse, error) {
		if id != adaID {
			return attendance.EmployeeStatusResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.EmployeeStatusResponse{ID: id, Status: attendance.StatusBreakIn}, nil
	}

	rec := f.do(http.MethodGet, "/api/v1/employees/"+adaID+"/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status attendance.EmployeeStatusResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &status))
	assert.Equal(t, attendance.StatusBreakIn, status.Status)

	rec = f.do(http.MethodGet, "/api/v1/employees/"+ghostID+"/status", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetEmployeeStatus_MalformedID(t *testing.T) {
	f := newFixture()
	called := false
	f.attendance.getStatusFn = func(string) (attendance.EmployeeStatusResponse, error) {
		called = true
		return attendance.EmployeeStatusResponse{}, nil
	}

	rec := f.do(http.MethodGet, "/api/v1/employees/emp-1/status", "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Error.Details, "id")
	assert.False(t, called)
}

func TestRecordPunch(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/punches", `{"user_id":"1001","timestamp":"2024-03-05 08:15:30","status":"Punched_In"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "1001", f.attendance.lastPunch.UserID)
	assert.Equal(t, "Punched_In", f.attendance.lastPunch.Status)
}

func TestRecordPunch_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"malformed body", `{"user_id":`, nil, http.StatusBadRequest},
		{"unknown employee", `{"user_id":"404"}`, attendance.ErrPunchEmployeeUnknown, http.StatusNotFound},
		{"unknown device", `{"user_id":"1001"}`, attendance.ErrPunchDeviceUnknown, http.StatusNotFound},
		{"validation", `{}`, (&attendance.RecordPunchRequest{}).Validate(), http.StatusUnprocessableEntity},
		{"malformed employee id", `{"employee_id":"emp-1","timestamp":"2024-03-05 08:15:30","status":"Punched_In"}`, nil, http.StatusUnprocessableEntity},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture()
			f.attendance.punchErr = c.err

			rec := f.do(http.MethodPost, "/api/v1/punches", c.body)

			assert.Equal(t, c.want, rec.Code)
		})
	}
}

func TestListPunches_Filter(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/punches?employee_id="+adaID+"&start_date=2024-03-01&end_date=2024-03-03&limit=50", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.attendance.lastFilter.EmployeeID)
	assert.Equal(t, adaID, *f.attendance.lastFilter.EmployeeID)
	assert.Equal(t, "2024-03-01", f.attendance.lastFilter.StartDate)
	assert.Equal(t, "2024-03-03", f.attendance.lastFilter.EndDate)
	assert.Equal(t, 50, f.attendance.lastFilter.Limit)
}

func TestListPunches_DefaultsToToday(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/punches", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, f.attendance.lastFilter.EmployeeID)
	assert.Equal(t, "2024-03-05", f.attendance.lastFilter.StartDate)
	assert.Equal(t, "2024-03-05", f.attendance.lastFilter.EndDate)
}

func TestListPunches_InvalidInput(t *testing.T) {
	f := newFixture()

	assert.Equal(t, http.StatusUnprocessableEntity, f.do(http.MethodGet, "/api/v1/punches?limit=many", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, f.do(http.MethodGet, "/api/v1/punches?start_date=2024-03-05&end_date=2024-03-01", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, f.do(http.MethodGet, "/api/v1/punches?employee_id=emp-1", "").Code)
}

func TestLateComers_DefaultsToYesterday(t *testing.T) {
	f := newFixture()
	f.attendance.lateComers = []attendance.LateComer{{EmployeeID: "emp-1", LateByMinutes: 42}}

	rec := f.do(http.MethodGet, "/api/v1/late-comers", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local), f.attendance.lastDate)
	env := decode(t, rec)
	assert.Equal(t, "2024-03-04", env.Meta.Date)
	assert.Equal(t, 1, env.Meta.TotalItems)
}

func TestDashboardStatistics(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/dashboard/statistics?date=2024-03-02", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local), f.dashboard.lastDate)
	var stats dashboard.StatisticsResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &stats))
	assert.Equal(t, int64(3), stats.TotalEmployees)

	rec = f.do(http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), f.dashboard.lastDate)
}

func TestReports_CSVAttachment(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/reports/daily?date=2024-03-04", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.ReportTypeDaily, f.reports.lastType)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, `attachment; filename="daily_report_2024-03-04.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Employee ID,Name\n1001,Ada\n", rec.Body.String())
}

func TestReports_Aliases(t *testing.T) {
	cases := map[string]report.ReportType{
		"/api/v1/export-daily":   report.ReportTypeDaily,
		"/api/v1/export-weekly":  report.ReportTypeWeekly,
		"/api/v1/export-monthly": report.ReportTypeMonthly,
	}
	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			f := newFixture()

			rec := f.do(http.MethodGet, path, "")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, want, f.reports.lastType)
			assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), f.reports.lastDate)
		})
	}
}

func TestReports_UnknownType(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/reports/yearly", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decode(t, rec).Error.Code)
}

func TestMasterData(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/teams", `{"name":"Ops"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	f.master.createTeamErr = team.ErrTeamNameExists
	rec = f.do(http.MethodPost, "/api/v1/teams", `{"name":"Ops"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/shifts", `{"name":"Morning","start_time":"8am","end_time":"17:00"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/devices", `{"name":"Gate","ip_address":"10.0.0.10"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/employees", `{"user_id":"1001","name":"Ada"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	for _, path := range []string{"/api/v1/teams", "/api/v1/shifts", "/api/v1/devices", "/api/v1/employees/roster"} {
		assert.Equal(t, http.StatusOK, f.do(http.MethodGet, path, "").Code, path)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &health))
	assert.Equal(t, "ok", health.Status)
	require.Len(t, health.Devices, 1)
	assert.Equal(t, "10.0.0.10", health.Devices[0].IP)
	assert.True(t, health.Devices[0].Connected)
	assert.Equal(t, 0, health.StreamSubscribers)

	_, unsubscribe := f.hub.Subscribe(sse.TopicAttendance)
	defer unsubscribe()
	rec = f.do(http.MethodGet, "/api/v1/health", "")
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &health))
	assert.Equal(t, 1, health.StreamSubscribers)

	f.pingErr = errors.New("database is closed")
	rec = f.do(http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", decode(t, rec).Error.Code)
}

// syncRecorder lets the test read the body while the stream handler is still writing.
type syncRecorder struct {
	mu  sync.Mutex
	rec *httptest.ResponseRecorder
}

func (s *syncRecorder) Header() http.Header { return s.rec.Header() }

func (s *syncRecorder) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Write(b)
}

func (s *syncRecorder) WriteHeader(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.WriteHeader(code)
}

func (s *syncRecorder) Flush() {}

func (s *syncRecorder) Body() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Body.String()
}

func TestStream_DeliversPunchEvents(t *testing.T) {
	hub := sse.NewHub()
	handler := NewStreamHandler(hub)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stream", nil).WithContext(ctx)
	rec := &syncRecorder{rec: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.Stream(rec, req)
	}()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(sse.TopicAttendance) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Publish(sse.TopicAttendance, sse.Event{Event: "punch", Data: map[string]string{"employee_id": "emp-1"}})

	require.Eventually(t, func() bool {
		return strings.Contains(rec.Body(), "event: punch")
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	body := rec.Body()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, "event: punch\ndata: {\"employee_id\":\"emp-1\"}\n\n")
	assert.Equal(t, 0, hub.SubscriberCount(sse.TopicAttendance))
}
