// Command healthcheck verifies the database, the biometric terminals and the API server,
// printing one PASS/FAIL line per component. It exits non-zero when any check fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/config"
	"github.com/yci-attendance/attendance-backend/internal/repository"
	deviceService "github.com/yci-attendance/attendance-backend/internal/service/device"
)

type check struct {
	name string
	run  func(ctx context.Context) (string, error)
}

type result struct {
	name    string
	ok      bool
	message string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	apiURL := flag.String("api", fmt.Sprintf("http://localhost:%d", cfg.App.Port), "base URL of the API server")
	timeout := flag.Duration("timeout", 5*time.Second, "timeout per check")
	flag.Parse()

	ctx := context.Background()

	var st *repository.Store
	checks := []check{
		{name: "Database", run: func(ctx context.Context) (string, error) {
			st, err = repository.Open(ctx, cfg)
			if err != nil {
				return "", err
			}
			return cfg.Database.Driver + " reachable", st.Ping(ctx)
		}},
		{name: "Biometric Devices", run: func(ctx context.Context) (string, error) {
			return checkDevices(ctx, cfg, st, deviceService.TCPProber{Timeout: cfg.Device.DialTimeout})
		}},
		{name: "Backend Server", run: func(ctx context.Context) (string, error) {
			return checkAPI(ctx, http.DefaultClient, *apiURL)
		}},
	}

	ok := run(ctx, os.Stdout, *timeout, checks)
	if st != nil {
		st.Close()
	}
	if !ok {
		os.Exit(1)
	}
}

// run executes checks in order and prints a summary. It reports whether every check passed.
func run(ctx context.Context, w io.Writer, timeout time.Duration, checks []check) bool {
	results := make([]result, 0, len(checks))
	for _, c := range checks {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		msg, err := c.run(cctx)
		cancel()

		res := result{name: c.name, ok: err == nil, message: msg}
		if err != nil {
			res.message = err.Error()
		}
		results = append(results, res)
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, " SYSTEM HEALTH SUMMARY ")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	healthy := true
	for _, r := range results {
		status := "PASS"
		if !r.ok {
			status = "FAIL"
			healthy = false
		}
		fmt.Fprintf(w, "%-25s %-6s %s\n", r.name, status, r.message)
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	if healthy {
		fmt.Fprintln(w, "OVERALL SYSTEM STATUS: HEALTHY")
	} else {
		fmt.Fprintln(w, "OVERALL SYSTEM STATUS: ISSUES DETECTED")
	}
	return healthy
}

// checkDevices probes every terminal from the devices file and the devices table.
func checkDevices(ctx context.Context, cfg *config.Config, st *repository.Store, prober deviceService.Prober) (string, error) {
	registry := deviceService.NewRegistry()
	if cfg.Device.File != "" {
		fileDevices, err := deviceService.LoadFile(cfg.Device.File)
		if err != nil {
			return "", err
		}
		for _, d := range fileDevices {
			registry.Register(d.IP, d.Port, d.Name)
		}
	}

	var monitor *deviceService.Monitor
	if st != nil {
		monitor = deviceService.NewMonitor(registry, st.Devices, prober)
		if err := monitor.Sync(ctx); err != nil {
			return "", err
		}
	} else {
		monitor = deviceService.NewMonitor(registry, nil, prober)
	}

	if err := monitor.Check(ctx); err != nil {
		return "", err
	}
	return summarizeDevices(registry.List())
}

func summarizeDevices(devices []deviceService.Info) (string, error) {
	if len(devices) == 0 {
		return "no devices configured", nil
	}

	var offline []string
	for _, d := range devices {
		if !d.Connected {
			offline = append(offline, d.IP)
		}
	}
	if len(offline) > 0 {
		return "", fmt.Errorf("%d/%d unreachable: %s", len(offline), len(devices), strings.Join(offline, ", "))
	}
	return fmt.Sprintf("%d/%d reachable", len(devices), len(devices)), nil
}

func checkAPI(ctx context.Context, client *http.Client, baseURL string) (string, error) {
	url := strings.TrimRight(baseURL, "/") + "/api/v1/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned %d", url, resp.StatusCode)
	}
	return url + " ok", nil
}
