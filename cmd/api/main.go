package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/config"
	appHTTP "github.com/yci-attendance/attendance-backend/internal/handler/http"
	"github.com/yci-attendance/attendance-backend/internal/pkg/cron"
	"github.com/yci-attendance/attendance-backend/internal/pkg/logger"
	"github.com/yci-attendance/attendance-backend/internal/pkg/sse"
	"github.com/yci-attendance/attendance-backend/internal/repository"
	attendanceService "github.com/yci-attendance/attendance-backend/internal/service/attendance"
	dashboardService "github.com/yci-attendance/attendance-backend/internal/service/dashboard"
	deviceService "github.com/yci-attendance/attendance-backend/internal/service/device"
	"github.com/yci-attendance/attendance-backend/internal/service/master"
	reportService "github.com/yci-attendance/attendance-backend/internal/service/report"
)

func main() {
	once := flag.Bool("once", false, "check and poll every terminal once, then exit without serving HTTP")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel, cfg.App.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := repository.Open(ctx, cfg)
	if err != nil {
		slog.Error("Error connecting to database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	registry := deviceService.NewRegistry()
	if cfg.Device.File != "" {
		fileDevices, err := deviceService.LoadFile(cfg.Device.File)
		if err != nil {
			slog.Error("Failed to load devices file", "path", cfg.Device.File, "error", err)
			os.Exit(1)
		}
		for _, d := range fileDevices {
			registry.Register(d.IP, d.Port, d.Name)
		}
	}

	monitor := deviceService.NewMonitor(registry, st.Devices, deviceService.TCPProber{Timeout: cfg.Device.DialTimeout})
	if err := monitor.Sync(ctx); err != nil {
		slog.Warn("Failed to sync stored devices into registry", "error", err)
	}

	hub := sse.NewHub()

	attendanceSvc := attendanceService.NewAttendanceService(
		st.Attendance,
		st.Employees,
		st.Shifts,
		st.Teams,
		st.Devices,
		registry,
		hub,
		attendanceService.Options{
			RecentWindow:    cfg.Attendance.RecentWindow,
			LateComersLimit: cfg.Attendance.LateComersLimit,
			Workers:         cfg.Attendance.StatusWorkers,
			LookupTimeout:   cfg.Attendance.LookupTimeout,
		},
	)
	masterSvc := master.NewMasterService(st.Teams, st.Shifts, st.Devices, st.Employees, registry)
	dashboardSvc := dashboardService.NewDashboardService(attendanceSvc)
	reportSvc := reportService.NewReportService(attendanceSvc)

	poller := deviceService.NewPoller(registry, deviceService.NopClient{}, attendanceSvc)

	scheduler := cron.NewScheduler()
	cron.NewDeviceJobs(monitor, poller, cfg.Device.MonitorInterval, cfg.Device.PollInterval).RegisterJobs(scheduler)

	if *once {
		if err := scheduler.RunOnce(ctx); err != nil {
			slog.Error("Device jobs failed", "error", err)
			st.Close()
			os.Exit(1)
		}
		slog.Info("Device jobs completed")
		return
	}

	scheduler.Start(ctx)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         log,
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		appHTTP.NewHealthHandler(st.Ping, registry, hub),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewMasterHandler(masterSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewStreamHandler(hub),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// open SSE streams end when the process is signalled
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
