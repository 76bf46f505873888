package http

import (
	"encoding/json"
	"net/http"

	"github.com/yci-attendance/attendance-backend/internal/domain/employee"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/device"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/team"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
	"github.com/yci-attendance/attendance-backend/internal/handler/http/response"
	"github.com/yci-attendance/attendance-backend/internal/service/master"
)

type MasterHandler interface {
	// Team handlers
	CreateTeam(w http.ResponseWriter, r *http.Request)
	ListTeams(w http.ResponseWriter, r *http.Request)

	// Shift handlers
	CreateShift(w http.ResponseWriter, r *http.Request)
	ListShifts(w http.ResponseWriter, r *http.Request)

	// Device handlers
	CreateDevice(w http.ResponseWriter, r *http.Request)
	ListDevices(w http.ResponseWriter, r *http.Request)

	// Employee handlers
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService master.MasterService
}

func NewMasterHandler(masterService master.MasterService) MasterHandler {
	return &masterHandlerImpl{
		masterService: masterService,
	}
}

// ==================== TEAM HANDLERS ====================

func (h *masterHandlerImpl) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req team.CreateTeamRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.masterService.CreateTeam(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Team created successfully", result)
}

func (h *masterHandlerImpl) ListTeams(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListTeams(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ==================== SHIFT HANDLERS ====================

func (h *masterHandlerImpl) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.masterService.CreateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created successfully", result)
}

func (h *masterHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListShifts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ==================== DEVICE HANDLERS ====================

func (h *masterHandlerImpl) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var req device.CreateDeviceRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.masterService.CreateDevice(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Device registered successfully", result)
}

func (h *masterHandlerImpl) ListDevices(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListDevices(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ==================== EMPLOYEE HANDLERS ====================

func (h *masterHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.masterService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

func (h *masterHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListEmployees(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
