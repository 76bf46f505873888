package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/domain/employee"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/device"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/team"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
	"github.com/yci-attendance/attendance-backend/internal/pkg/sse"
	"github.com/yci-attendance/attendance-backend/internal/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// Reachability answers whether the terminal at ip is currently online.
type Reachability interface {
	IsOnline(ip string) bool
}

type EventPublisher interface {
	Publish(topic string, event sse.Event)
}

type Options struct {
	RecentWindow    int
	LateComersLimit int
	Workers         int
	LookupTimeout   time.Duration
}

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	shiftRepo      shift.ShiftRepository
	teamRepo       team.TeamRepository
	deviceRepo     device.DeviceRepository
	devices        Reachability
	publisher      EventPublisher
	opts           Options
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	teamRepo team.TeamRepository,
	deviceRepo device.DeviceRepository,
	devices Reachability,
	publisher EventPublisher,
	opts Options,
) attendance.AttendanceService {
	if opts.RecentWindow <= 0 {
		opts.RecentWindow = 10
	}
	if opts.LateComersLimit <= 0 {
		opts.LateComersLimit = DefaultLateComersLimit
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		shiftRepo:      shiftRepo,
		teamRepo:       teamRepo,
		deviceRepo:     deviceRepo,
		devices:        devices,
		publisher:      publisher,
		opts:           opts,
	}
}

// RecordPunch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordPunch(ctx context.Context, req attendance.RecordPunchRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}

	emp, err := s.findPunchEmployee(ctx, req)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	deviceID, err := s.findPunchDevice(ctx, req, emp)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to generate punch id: %w", err)
	}

	punch, err := s.attendanceRepo.Create(ctx, attendance.Punch{
		ID:         id.String(),
		EmployeeID: emp.ID,
		Timestamp:  req.ParsedTimestamp,
		Status:     attendance.Status(req.Status),
		DeviceID:   deviceID,
	})
	if err != nil {
		return attendance.PunchResponse{}, fmt.Errorf("failed to record punch: %w", err)
	}

	resp := attendance.NewPunchResponse(punch)
	resp.UserID = emp.UserID
	resp.Name = emp.Name

	slog.Info("Punch recorded", "employee_id", emp.ID, "status", punch.Status, "timestamp", resp.Timestamp)
	if s.publisher != nil {
		s.publisher.Publish(sse.TopicAttendance, sse.Event{Event: "punch", Data: resp})
	}

	return resp, nil
}

func (s *AttendanceServiceImpl) findPunchEmployee(ctx context.Context, req attendance.RecordPunchRequest) (employee.Employee, error) {
	var (
		emp employee.Employee
		err error
	)
	if req.EmployeeID != "" {
		emp, err = s.employeeRepo.GetByID(ctx, req.EmployeeID)
	} else {
		emp, err = s.employeeRepo.GetByUserID(ctx, req.UserID)
	}
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, attendance.ErrPunchEmployeeUnknown
		}
		return employee.Employee{}, fmt.Errorf("failed to get punch employee: %w", err)
	}
	return emp, nil
}

// findPunchDevice resolves the reporting terminal, falling back to the employee's own device.
func (s *AttendanceServiceImpl) findPunchDevice(ctx context.Context, req attendance.RecordPunchRequest, emp employee.Employee) (*string, error) {
	var (
		dev device.Device
		err error
	)
	switch {
	case req.DeviceID != "":
		dev, err = s.deviceRepo.GetByID(ctx, req.DeviceID)
	case req.DeviceIP != "":
		dev, err = s.deviceRepo.GetByIP(ctx, req.DeviceIP)
	default:
		return emp.DeviceID, nil
	}
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return nil, attendance.ErrPunchDeviceUnknown
		}
		return nil, fmt.Errorf("failed to get punch device: %w", err)
	}
	return &dev.ID, nil
}

// ListEmployeeStatuses implements attendance.AttendanceService.
// Only the employee listing itself can fail the call; every per-employee lookup degrades.
func (s *AttendanceServiceImpl) ListEmployeeStatuses(ctx context.Context, date time.Time) ([]attendance.EmployeeStatusResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	result := make([]attendance.EmployeeStatusResponse, len(employees))

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, emp := range employees {
		g.Go(func() error {
			result[i] = s.resolveEmployee(ctx, emp, date)
			return nil
		})
	}
	_ = g.Wait()

	return result, nil
}

// GetEmployeeStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEmployeeStatus(ctx context.Context, employeeID string, date time.Time) (attendance.EmployeeStatusResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.EmployeeStatusResponse{}, err
		}
		return attendance.EmployeeStatusResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return s.resolveEmployee(ctx, emp, date), nil
}

// resolveEmployee looks up each association independently and feeds the resolver.
func (s *AttendanceServiceImpl) resolveEmployee(ctx context.Context, emp employee.Employee, date time.Time) attendance.EmployeeStatusResponse {
	if s.opts.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.LookupTimeout)
		defer cancel()
	}

	shiftField := lookupRef(emp.ShiftID, func(id string) (shift.Shift, error) {
		return s.shiftRepo.GetByID(ctx, id)
	})
	teamField := lookupRef(emp.TeamID, func(id string) (team.Team, error) {
		return s.teamRepo.GetByID(ctx, id)
	})
	deviceField := lookupRef(emp.DeviceID, func(id string) (device.Device, error) {
		return s.deviceRepo.GetByID(ctx, id)
	})
	punchesField := Lookup(func() ([]attendance.Punch, error) {
		return s.attendanceRepo.ListRecentByEmployee(ctx, emp.ID, s.opts.RecentWindow)
	})

	logDegraded(emp.ID, "shift", shiftField.Err())
	logDegraded(emp.ID, "team", teamField.Err())
	logDegraded(emp.ID, "device", deviceField.Err())
	logDegraded(emp.ID, "attendance", punchesField.Err())

	resp := attendance.EmployeeStatusResponse{
		ID:     emp.ID,
		UserID: emp.UserID,
		Name:   emp.Name,
	}

	sh := shiftField.Or(nil)
	if sh != nil {
		resp.ShiftName = sh.Name
		resp.ShiftStartTime = sh.StartTime.HHMM()
		resp.ShiftEndTime = sh.EndTime.HHMM()
	}

	if tm := teamField.Or(nil); tm != nil {
		resp.Team = tm.Name
		resp.TeamID = tm.ID
	}

	if dev := deviceField.Or(nil); dev != nil {
		resp.DeviceIP = dev.IPAddress
		if s.devices != nil {
			resp.IsOnline = s.devices.IsOnline(dev.IPAddress)
		}
	}

	res := Resolve(ResolveInput{
		TargetDate: date,
		Shift:      sh,
		Punches:    punchesField.Or(nil),
	})
	resp.Status = res.Status
	resp.LastPunchDate = res.LastPunchDate
	resp.LastPunchTime = res.LastPunchTime
	resp.LateByMinutes = res.LateByMinutes

	return resp
}

// lookupRef resolves an optional reference. An unset reference is not an error.
func lookupRef[T any](ref *string, get func(id string) (T, error)) Field[*T] {
	if ref == nil || *ref == "" {
		return Ok[*T](nil)
	}
	return Lookup(func() (*T, error) {
		v, err := get(*ref)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
}

func logDegraded(employeeID, field string, err error) {
	if err == nil {
		return
	}
	slog.Warn("Association lookup failed, using default", "employee_id", employeeID, "field", field, "error", err)
}

// ListLateComers implements attendance.AttendanceService.
// A failed query degrades to an empty ranking.
func (s *AttendanceServiceImpl) ListLateComers(ctx context.Context, date time.Time) ([]attendance.LateComer, error) {
	start, end := utils.DayRange(date)

	rows, err := s.attendanceRepo.ListCheckIns(ctx, start, end)
	if err != nil {
		slog.Error("Failed to load check-ins for late comers", "date", start.Format(attendance.DateLayout), "error", err)
		return []attendance.LateComer{}, nil
	}

	return RankLateComers(rows, s.opts.LateComersLimit), nil
}

// ListPunches implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListPunches(ctx context.Context, filter attendance.PunchFilter) ([]attendance.PunchResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListInRange(ctx, attendance.RangeFilter{
		EmployeeID: filter.EmployeeID,
		Start:      filter.Start,
		End:        filter.End,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}

	result := make([]attendance.PunchResponse, 0, len(records))
	for _, r := range records {
		result = append(result, attendance.NewPunchRecordResponse(r))
	}
	return result, nil
}
