package master

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yci-attendance/attendance-backend/internal/domain/employee"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/device"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/team"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
)

type MasterService interface {
	// Team operations
	CreateTeam(ctx context.Context, req team.CreateTeamRequest) (team.TeamResponse, error)
	ListTeams(ctx context.Context) ([]team.TeamResponse, error)

	// Shift operations
	CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error)
	ListShifts(ctx context.Context) ([]shift.ShiftResponse, error)

	// Device operations
	CreateDevice(ctx context.Context, req device.CreateDeviceRequest) (device.DeviceResponse, error)
	ListDevices(ctx context.Context) ([]device.DeviceResponse, error)

	// Employee operations
	CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error)
}

// DeviceRegistry is the in-memory reachability tracker new devices are enrolled in.
type DeviceRegistry interface {
	RegisterDevice(d device.Device)
	IsOnline(ip string) bool
}

type masterServiceImpl struct {
	teamRepo     team.TeamRepository
	shiftRepo    shift.ShiftRepository
	deviceRepo   device.DeviceRepository
	employeeRepo employee.EmployeeRepository
	registry     DeviceRegistry
}

func NewMasterService(
	teamRepo team.TeamRepository,
	shiftRepo shift.ShiftRepository,
	deviceRepo device.DeviceRepository,
	employeeRepo employee.EmployeeRepository,
	registry DeviceRegistry,
) MasterService {
	return &masterServiceImpl{
		teamRepo:     teamRepo,
		shiftRepo:    shiftRepo,
		deviceRepo:   deviceRepo,
		employeeRepo: employeeRepo,
		registry:     registry,
	}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// ==================== TEAM OPERATIONS ====================

func (s *masterServiceImpl) CreateTeam(ctx context.Context, req team.CreateTeamRequest) (team.TeamResponse, error) {
	if err := req.Validate(); err != nil {
		return team.TeamResponse{}, err
	}

	id, err := newID()
	if err != nil {
		return team.TeamResponse{}, err
	}

	created, err := s.teamRepo.Create(ctx, team.Team{ID: id, Name: req.Name, Description: req.Description})
	if err != nil {
		if errors.Is(err, team.ErrTeamNameExists) {
			return team.TeamResponse{}, err
		}
		return team.TeamResponse{}, fmt.Errorf("failed to create team: %w", err)
	}

	return team.NewTeamResponse(created), nil
}

func (s *masterServiceImpl) ListTeams(ctx context.Context) ([]team.TeamResponse, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	result := make([]team.TeamResponse, 0, len(teams))
	for _, t := range teams {
		result = append(result, team.NewTeamResponse(t))
	}
	return result, nil
}

// ==================== SHIFT OPERATIONS ====================

func (s *masterServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	id, err := newID()
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	entity := shift.Shift{ID: id, Name: req.Name}
	// Validate already checked the clock formats
	entity.StartTime, _ = shift.ParseTimeOfDay(req.StartTime)
	entity.EndTime, _ = shift.ParseTimeOfDay(req.EndTime)
	if req.BreakStart != nil {
		start, _ := shift.ParseTimeOfDay(*req.BreakStart)
		end, _ := shift.ParseTimeOfDay(*req.BreakEnd)
		entity.BreakStart, entity.BreakEnd = &start, &end
	}

	created, err := s.shiftRepo.Create(ctx, entity)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNameExists) {
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return shift.NewShiftResponse(created), nil
}

func (s *masterServiceImpl) ListShifts(ctx context.Context) ([]shift.ShiftResponse, error) {
	shifts, err := s.shiftRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	result := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		result = append(result, shift.NewShiftResponse(sh))
	}
	return result, nil
}

// ==================== DEVICE OPERATIONS ====================

func (s *masterServiceImpl) CreateDevice(ctx context.Context, req device.CreateDeviceRequest) (device.DeviceResponse, error) {
	if err := req.Validate(); err != nil {
		return device.DeviceResponse{}, err
	}

	id, err := newID()
	if err != nil {
		return device.DeviceResponse{}, err
	}

	created, err := s.deviceRepo.Create(ctx, device.Device{
		ID:        id,
		Name:      req.Name,
		IPAddress: req.IPAddress,
		Port:      req.Port,
		IsActive:  true,
	})
	if err != nil {
		if errors.Is(err, device.ErrDeviceIPExists) {
			return device.DeviceResponse{}, err
		}
		return device.DeviceResponse{}, fmt.Errorf("failed to create device: %w", err)
	}

	s.registry.RegisterDevice(created)
	return device.NewDeviceResponse(created, s.registry.IsOnline(created.IPAddress)), nil
}

func (s *masterServiceImpl) ListDevices(ctx context.Context) ([]device.DeviceResponse, error) {
	devices, err := s.deviceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	result := make([]device.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		result = append(result, device.NewDeviceResponse(d, s.registry.IsOnline(d.IPAddress)))
	}
	return result, nil
}

// ==================== EMPLOYEE OPERATIONS ====================

func (s *masterServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.checkReferences(ctx, req); err != nil {
		return employee.EmployeeResponse{}, err
	}

	id, err := newID()
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		ID:       id,
		UserID:   req.UserID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		ShiftID:  req.ShiftID,
		TeamID:   req.TeamID,
		DeviceID: req.DeviceID,
	})
	if err != nil {
		if errors.Is(err, employee.ErrUserIDExists) || errors.Is(err, employee.ErrEmailExists) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return employee.NewEmployeeResponse(created), nil
}

// checkReferences rejects assignments to records that do not exist
func (s *masterServiceImpl) checkReferences(ctx context.Context, req employee.CreateEmployeeRequest) error {
	if req.ShiftID != nil {
		if _, err := s.shiftRepo.GetByID(ctx, *req.ShiftID); err != nil {
			return err
		}
	}
	if req.TeamID != nil {
		if _, err := s.teamRepo.GetByID(ctx, *req.TeamID); err != nil {
			return err
		}
	}
	if req.DeviceID != nil {
		if _, err := s.deviceRepo.GetByID(ctx, *req.DeviceID); err != nil {
			return err
		}
	}
	return nil
}

func (s *masterServiceImpl) ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	result := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		result = append(result, employee.NewEmployeeResponse(e))
	}
	return result, nil
}
