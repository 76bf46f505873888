package cron

import (
	"context"
	"time"
)

type DeviceMonitor interface {
	Check(ctx context.Context) error
}

type DevicePoller interface {
	Poll(ctx context.Context) error
}

// DeviceJobs keeps terminal reachability fresh and pulls punches from reachable terminals.
type DeviceJobs struct {
	monitor         DeviceMonitor
	poller          DevicePoller
	monitorInterval time.Duration
	pollInterval    time.Duration
}

func NewDeviceJobs(monitor DeviceMonitor, poller DevicePoller, monitorInterval, pollInterval time.Duration) *DeviceJobs {
	return &DeviceJobs{
		monitor:         monitor,
		poller:          poller,
		monitorInterval: monitorInterval,
		pollInterval:    pollInterval,
	}
}

func (j *DeviceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("monitor_devices", j.monitorInterval, j.monitor.Check)
	scheduler.AddJob("poll_device_punches", j.pollInterval, j.poller.Poll)
}
