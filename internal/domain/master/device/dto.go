package device

import (
	"time"

	"github.com/yci-attendance/attendance-backend/internal/pkg/validator"
)

type CreateDeviceRequest struct {
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
	Port      int    `json:"port"`
}

func (r *CreateDeviceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsValidIP(r.IPAddress) {
		errs = append(errs, validator.ValidationError{Field: "ip_address", Message: "ip_address must be a valid IP address"})
	}
	if r.Port == 0 {
		r.Port = DefaultPort
	}
	if !validator.IsValidPort(r.Port) {
		errs = append(errs, validator.ValidationError{Field: "port", Message: "port must be between 1 and 65535"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeviceResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	IPAddress     string  `json:"ip_address"`
	Port          int     `json:"port"`
	IsActive      bool    `json:"is_active"`
	IsOnline      bool    `json:"is_online"`
	LastConnected *string `json:"last_connected,omitempty"`
}

func NewDeviceResponse(d Device, online bool) DeviceResponse {
	resp := DeviceResponse{
		ID:        d.ID,
		Name:      d.Name,
		IPAddress: d.IPAddress,
		Port:      d.Port,
		IsActive:  d.IsActive,
		IsOnline:  online,
	}
	if d.LastConnected != nil {
		v := d.LastConnected.Format(time.DateTime)
		resp.LastConnected = &v
	}
	return resp
}
