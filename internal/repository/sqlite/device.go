package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/master/device"
	"github.com/yci-attendance/attendance-backend/internal/pkg/database"
)

type deviceRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewDeviceRepository(db *database.SQLiteDB) device.DeviceRepository {
	return &deviceRepositoryImpl{db: db}
}

const deviceColumns = `id, name, ip_address, port, is_active, last_connected, created_at, updated_at`

func scanDevice(row rowScanner) (device.Device, error) {
	var (
		d                    device.Device
		lastConnected        sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&d.ID, &d.Name, &d.IPAddress, &d.Port, &d.IsActive, &lastConnected, &createdAt, &updatedAt); err != nil {
		return device.Device{}, err
	}

	var err error
	if d.LastConnected, err = parseNullTime(lastConnected); err != nil {
		return device.Device{}, err
	}
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return device.Device{}, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return device.Device{}, err
	}
	return d, nil
}

func (r *deviceRepositoryImpl) getOne(ctx context.Context, where string, arg string) (device.Device, error) {
	d, err := scanDevice(r.db.QueryRowContext(ctx, `SELECT `+deviceColumns+` FROM devices WHERE `+where+` = ?`, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	rows, err := r.db.QueryContext(ctx, `SELECT `+deviceColumns+` FROM devices ORDER BY ip_address`)
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
	now := time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devices (`+deviceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		newDevice.ID, newDevice.Name, newDevice.IPAddress, newDevice.Port, newDevice.IsActive,
		nullTime(newDevice.LastConnected), formatTime(now), formatTime(now),
	)
	if err != nil {
		return device.Device{}, constraintError(err, map[string]error{"devices.ip_address": device.ErrDeviceIPExists})
	}
	newDevice.CreatedAt, newDevice.UpdatedAt = now, now
	return newDevice, nil
}

// UpdateLastConnected implements device.DeviceRepository.
func (r *deviceRepositoryImpl) UpdateLastConnected(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE devices SET last_connected = ?, updated_at = ? WHERE id = ?`,
		formatTime(at), formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update last_connected for device %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return device.ErrDeviceNotFound
	}
	return nil
}
