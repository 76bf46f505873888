package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/handler/http/response"
	devicesvc "github.com/yci-attendance/attendance-backend/internal/service/device"
)

type HealthHandler interface {
	Health(w http.ResponseWriter, r *http.Request)
}

// DeviceLister exposes the current terminal connection states.
type DeviceLister interface {
	List() []devicesvc.Info
}

// SubscriberCounter reports how many dashboards hold an open event stream.
type SubscriberCounter interface {
	TotalSubscribers() int
}

type HealthResponse struct {
	Status            string         `json:"status"`
	Timestamp         string         `json:"timestamp"`
	Database          string         `json:"database"`
	Devices           []DeviceHealth `json:"devices"`
	StreamSubscribers int            `json:"stream_subscribers"`
}

type DeviceHealth struct {
	IP            string `json:"ip"`
	Name          string `json:"name,omitempty"`
	Connected     bool   `json:"connected"`
	LastConnected string `json:"last_connected,omitempty"`
}

type healthHandlerImpl struct {
	ping    func(ctx context.Context) error
	devices DeviceLister
	streams SubscriberCounter
	timeout time.Duration
	now     func() time.Time
}

// NewHealthHandler reports database reachability through ping, terminal state through devices
// and open dashboard streams through streams.
func NewHealthHandler(ping func(ctx context.Context) error, devices DeviceLister, streams SubscriberCounter) HealthHandler {
	return &healthHandlerImpl{
		ping:    ping,
		devices: devices,
		streams: streams,
		timeout: 2 * time.Second,
		now:     time.Now,
	}
}

// Health implements HealthHandler. An unreachable database answers 503; offline
// terminals are reported but do not fail the check.
func (h *healthHandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: h.now().Format(time.RFC3339),
		Database:  "ok",
		Devices:   []DeviceHealth{},
	}

	if h.devices != nil {
		for _, d := range h.devices.List() {
			dh := DeviceHealth{IP: d.IP, Name: d.Name, Connected: d.Connected}
			if !d.LastConnected.IsZero() {
				dh.LastConnected = d.LastConnected.Format(time.DateTime)
			}
			resp.Devices = append(resp.Devices, dh)
		}
	}

	if h.streams != nil {
		resp.StreamSubscribers = h.streams.TotalSubscribers()
	}

	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			slog.Error("Health check database ping failed", "error", err)
			resp.Status = "degraded"
			resp.Database = "unreachable"
			response.ServiceUnavailable(w, "Database unreachable", resp)
			return
		}
	}

	response.Success(w, resp)
}
