package device

import (
	"sort"
	"sync"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/master/device"
)

// Info is the in-memory connection state of one terminal.
type Info struct {
	IP            string
	Port          int
	DeviceID      string // empty when the terminal is not in the devices table
	Name          string
	Connected     bool
	LastConnected time.Time
}

// Registry tracks terminal reachability keyed by IP address. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Info
	now     func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]*Info),
		now:     time.Now,
	}
}

// Register adds a terminal. Newly registered terminals count as connected until the
// first probe says otherwise. Registering a known IP only fills in missing details.
func (r *Registry) Register(ip string, port int, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if port == 0 {
		port = device.DefaultPort
	}
	if info, ok := r.devices[ip]; ok {
		if info.Name == "" {
			info.Name = name
		}
		return
	}
	r.devices[ip] = &Info{
		IP:            ip,
		Port:          port,
		Name:          name,
		Connected:     true,
		LastConnected: r.now(),
	}
}

// RegisterDevice registers a stored device and links the entry to its id.
func (r *Registry) RegisterDevice(d device.Device) {
	r.Register(d.IPAddress, d.Port, d.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	info := r.devices[d.IPAddress]
	info.DeviceID = d.ID
	info.Port = d.Port
	if info.Port == 0 {
		info.Port = device.DefaultPort
	}
}

// IsOnline reports false for unknown terminals.
func (r *Registry) IsOnline(ip string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.devices[ip]
	return ok && info.Connected
}

func (r *Registry) Info(ip string) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.devices[ip]
	if !ok {
		return Info{}, false
	}
	return *info, true
}

// List returns a snapshot of all terminals ordered by IP.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Info, 0, len(r.devices))
	for _, info := range r.devices {
		result = append(result, *info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].IP < result[j].IP })
	return result
}

// SetStatus records a probe result and reports whether the state changed.
func (r *Registry) SetStatus(ip string, connected bool, at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.devices[ip]
	if !ok {
		return false
	}
	changed := info.Connected != connected
	info.Connected = connected
	if connected {
		info.LastConnected = at
	}
	return changed
}
