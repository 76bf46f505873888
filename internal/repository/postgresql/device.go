package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/device"
	"github.com/yci-attendance/attendance-backend/internal/pkg/database"
)

type deviceRepositoryImpl struct {
	db *database.DB
}

func NewDeviceRepository(db *database.DB) device.DeviceRepository {
	return &deviceRepositoryImpl{db: db}
}

const deviceColumns = `id, name, ip_address, port, is_active, last_connected, created_at, updated_at`

func scanDevice(row pgx.Row) (device.Device, error) {
	var d device.Device
	if err := row.Scan(&d.ID, &d.Name, &d.IPAddress, &d.Port, &d.IsActive, &d.LastConnected, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return device.Device{}, err
	}
	d.LastConnected = asLocalPtr(d.LastConnected)
	d.CreatedAt, d.UpdatedAt = asLocal(d.CreatedAt), asLocal(d.UpdatedAt)
	return d, nil
}

func (r *deviceRepositoryImpl) getOne(ctx context.Context, where string, arg string) (device.Device, error) {
	d, err := scanDevice(r.db.QueryRow(ctx, `SELECT `+deviceColumns+` FROM devices WHERE `+where+` = $1`, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.Device{}, device.ErrDeviceNotFound
		}
		return device.Device{}, fmt.Errorf("failed to get device by %s %s: %w", where, arg, err)
	}
	return d, nil
}

// GetByID implements device.DeviceRepository.
func (r *deviceRepositoryImpl) GetByID(ctx context.Context, id string) (device.Device, error) {
	return r.getOne(ctx, "id", id)
}

// GetByIP implements device.DeviceRepository.
func (r *deviceRepositoryImpl) GetByIP(ctx context.Context, ip string) (device.Device, error) {
	return r.getOne(ctx, "ip_address", ip)
}

// List implements device.DeviceRepository.
func (r *deviceRepositoryImpl) List(ctx context.Context) ([]device.Device, error) {
	rows, err := r.db.Query(ctx, `SELECT `+deviceColumns+` FROM devices ORDER BY ip_address`)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	devices := make([]device.Device, 0)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// Create implements device.DeviceRepository.
func (r *deviceRepositoryImpl) Create(ctx context.Context, newDevice device.Device) (device.Device, error) {
	query := `
		INSERT INTO devices (id, name, ip_address, port, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, newDevice.ID, newDevice.Name, newDevice.IPAddress, newDevice.Port, newDevice.IsActive).
		Scan(&newDevice.CreatedAt, &newDevice.UpdatedAt)
	if err != nil {
		return device.Device{}, constraintError(err, map[string]error{"devices_ip_address_key": device.ErrDeviceIPExists})
	}
	newDevice.CreatedAt, newDevice.UpdatedAt = asLocal(newDevice.CreatedAt), asLocal(newDevice.UpdatedAt)
	return newDevice, nil
}

// UpdateLastConnected implements device.DeviceRepository.
func (r *deviceRepositoryImpl) UpdateLastConnected(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE devices SET last_connected = $1, updated_at = NOW() WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last_connected for device %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}
	return nil
}
