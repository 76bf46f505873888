package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/master/device"
	"golang.org/x/sync/errgroup"
)

// Prober checks whether a terminal accepts connections.
type Prober interface {
	Probe(ctx context.Context, ip string, port int) error
}

// TCPProber dials the terminal port.
type TCPProber struct {
	Timeout time.Duration
}

func (p TCPProber) Probe(ctx context.Context, ip string, port int) error {
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		return err
	}
	return conn.Close()
}

// Monitor refreshes the registry from probes and persists successful contacts.
type Monitor struct {
	registry   *Registry
	deviceRepo device.DeviceRepository
	prober     Prober
	workers    int
	now        func() time.Time
}

func NewMonitor(registry *Registry, deviceRepo device.DeviceRepository, prober Prober) *Monitor {
	return &Monitor{
		registry:   registry,
		deviceRepo: deviceRepo,
		prober:     prober,
		workers:    8,
		now:        time.Now,
	}
}

// Sync registers every active device from the store.
func (m *Monitor) Sync(ctx context.Context) error {
	devices, err := m.deviceRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}
	for _, d := range devices {
		if d.IsActive {
			m.registry.RegisterDevice(d)
		}
	}
	return nil
}

// Check probes every registered terminal. A failed probe marks the terminal offline;
// only persistence failures are returned, and one of them never cuts short the other checks.
func (m *Monitor) Check(ctx context.Context) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(m.workers)

	for _, info := range m.registry.List() {
		g.Go(func() error {
			if err := m.check(ctx, info); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (m *Monitor) check(ctx context.Context, info Info) error {
	probeErr := m.prober.Probe(ctx, info.IP, info.Port)
	now := m.now()
	connected := probeErr == nil

	if m.registry.SetStatus(info.IP, connected, now) {
		if connected {
			slog.Info("Device back online", "ip", info.IP, "name", info.Name)
		} else {
			slog.Warn("Device offline", "ip", info.IP, "name", info.Name, "error", probeErr)
		}
	}

	if !connected || info.DeviceID == "" {
		return nil
	}
	if err := m.deviceRepo.UpdateLastConnected(ctx, info.DeviceID, now); err != nil {
		return fmt.Errorf("failed to persist last_connected for %s: %w", info.IP, err)
	}
	return nil
}
