package device

import (
	"context"
	"time"
)

type DeviceRepository interface {
	GetByID(ctx context.Context, id string) (Device, error)
	GetByIP(ctx context.Context, ip string) (Device, error)
	List(ctx context.Context) ([]Device, error)
	Create(ctx context.Context, newDevice Device) (Device, error)

	// UpdateLastConnected records the last successful reachability probe.
	UpdateLastConnected(ctx context.Context, id string, at time.Time) error
}
