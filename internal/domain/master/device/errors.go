package device

import "errors"

var (
	ErrDeviceNotFound  = errors.New("device not found")
	ErrDeviceIPExists  = errors.New("device with this IP address already exists")
	ErrDeviceOffline   = errors.New("device is not reachable")
	ErrInvalidDeviceIP = errors.New("invalid device IP address")
)
