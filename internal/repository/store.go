// Package repository selects the storage backend named by STORE_DRIVER.
package repository

import (
	"context"

	"github.com/yci-attendance/attendance-backend/internal/config"
	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
	"github.com/yci-attendance/attendance-backend/internal/domain/employee"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/device"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/team"
	"github.com/yci-attendance/attendance-backend/internal/domain/shift"
	"github.com/yci-attendance/attendance-backend/internal/pkg/database"
	"github.com/yci-attendance/attendance-backend/internal/repository/postgresql"
	"github.com/yci-attendance/attendance-backend/internal/repository/sqlite"
)

// Store bundles the repositories of one backend.
type Store struct {
	Teams      team.TeamRepository
	Shifts     shift.ShiftRepository
	Devices    device.DeviceRepository
	Employees  employee.EmployeeRepository
	Attendance attendance.AttendanceRepository

	Ping  func(ctx context.Context) error
	Close func()
}

// Open connects to the configured backend and applies its schema.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.Database.Driver == config.StoreDriverSQLite {
		return openSQLite(ctx, cfg.SQLite.Path)
	}
	return openPostgres(ctx, cfg.DatabaseURL())
}

func openSQLite(ctx context.Context, path string) (*Store, error) {
	db, err := database.NewSQLiteDB(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		Teams:      sqlite.NewTeamRepository(db),
		Shifts:     sqlite.NewShiftRepository(db),
		Devices:    sqlite.NewDeviceRepository(db),
		Employees:  sqlite.NewEmployeeRepository(db),
		Attendance: sqlite.NewAttendanceRepository(db),
		Ping:       db.PingContext,
		Close:      func() { db.Close() },
	}, nil
}

func openPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		Teams:      postgresql.NewTeamRepository(db),
		Shifts:     postgresql.NewShiftRepository(db),
		Devices:    postgresql.NewDeviceRepository(db),
		Employees:  postgresql.NewEmployeeRepository(db),
		Attendance: postgresql.NewAttendanceRepository(db),
		Ping:       db.Ping,
		Close:      db.Close,
	}, nil
}
