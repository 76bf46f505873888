package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/attendance"
)

// RawPunch is an attendance log entry as read from a terminal.
type RawPunch struct {
	UserID    string
	Timestamp time.Time
	Status    attendance.Status
}

// Client reads attendance logs from a terminal.
type Client interface {
	FetchPunches(ctx context.Context, info Info, since time.Time) ([]RawPunch, error)
}

// NopClient never returns punches. Punches then arrive only through the HTTP ingestion endpoint.
type NopClient struct{}

func (NopClient) FetchPunches(context.Context, Info, time.Time) ([]RawPunch, error) {
	return nil, nil
}

// Poller pulls new punches from reachable terminals and records them.
type Poller struct {
	registry *Registry
	client   Client
	recorder attendance.AttendanceService

	mu      sync.Mutex
	cursors map[string]time.Time
}

func NewPoller(registry *Registry, client Client, recorder attendance.AttendanceService) *Poller {
	return &Poller{
		registry: registry,
		client:   client,
		recorder: recorder,
		cursors:  make(map[string]time.Time),
	}
}

// Poll fetches punches newer than the last seen one from every online terminal.
// A failing terminal does not stop the others.
func (p *Poller) Poll(ctx context.Context) error {
	var errs []error
	for _, info := range p.registry.List() {
		if !info.Connected {
			continue
		}
		if err := p.pollDevice(ctx, info); err != nil {
			errs = append(errs, fmt.Errorf("device %s: %w", info.IP, err))
		}
	}
	return errors.Join(errs...)
}

func (p *Poller) pollDevice(ctx context.Context, info Info) error {
	since := p.cursor(info.IP)

	punches, err := p.client.FetchPunches(ctx, info, since)
	if err != nil {
		return err
	}

	recorded := 0
	for _, raw := range punches {
		if !raw.Timestamp.After(since) {
			continue
		}
		_, err := p.recorder.RecordPunch(ctx, attendance.RecordPunchRequest{
			UserID:    raw.UserID,
			Timestamp: raw.Timestamp.Local().Format(time.DateTime),
			Status:    string(raw.Status),
			// terminals known only from the devices file have no stored row to link
			DeviceID: info.DeviceID,
		})
		switch {
		case errors.Is(err, attendance.ErrPunchEmployeeUnknown):
			slog.Warn("Skipping punch for unknown enrolment", "ip", info.IP, "user_id", raw.UserID)
		case err != nil:
			return fmt.Errorf("failed to record punch: %w", err)
		default:
			recorded++
		}
		p.advance(info.IP, raw.Timestamp)
	}

	if recorded > 0 {
		slog.Info("Device punches recorded", "ip", info.IP, "count", recorded)
	}
	return nil
}

func (p *Poller) cursor(ip string) time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursors[ip]
}

func (p *Poller) advance(ip string, ts time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ts.After(p.cursors[ip]) {
		p.cursors[ip] = ts
	}
}
