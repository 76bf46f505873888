package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// MaxLateComersLimit bounds the late-comers ranking size.
const MaxLateComersLimit = 10

type Config struct {
	Database   DatabaseConfig
	SQLite     SQLiteConfig
	App        AppConfig
	Device     DeviceConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type SQLiteConfig struct {
	Path string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// DeviceConfig holds biometric terminal registry and polling configuration
type DeviceConfig struct {
	File            string
	MonitorInterval time.Duration
	PollInterval    time.Duration
	DialTimeout     time.Duration
}

// AttendanceConfig holds tuning for status resolution
type AttendanceConfig struct {
	RecentWindow    int
	LateComersLimit int
	StatusWorkers   int
	LookupTimeout   time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.SQLite = SQLiteConfig{
		Path: getEnv("SQLITE_PATH", "attendance.db"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "5001"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	// Device configuration
	monitorInterval, err := getEnvDuration("DEVICE_MONITOR_INTERVAL", "30s")
	if err != nil {
		return nil, err
	}
	pollInterval, err := getEnvDuration("DEVICE_POLL_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}
	dialTimeout, err := getEnvDuration("DEVICE_DIAL_TIMEOUT", "3s")
	if err != nil {
		return nil, err
	}

	config.Device = DeviceConfig{
		File:            getEnv("DEVICES_FILE", ""),
		MonitorInterval: monitorInterval,
		PollInterval:    pollInterval,
		DialTimeout:     dialTimeout,
	}

	// Attendance configuration
	recentWindow, err := getEnvInt("ATTENDANCE_RECENT_WINDOW", 10)
	if err != nil {
		return nil, err
	}
	lateComersLimit, err := getEnvInt("LATE_COMERS_LIMIT", MaxLateComersLimit)
	if err != nil {
		return nil, err
	}
	statusWorkers, err := getEnvInt("STATUS_WORKERS", 8)
	if err != nil {
		return nil, err
	}

	lookupTimeout, err := getEnvDuration("ATTENDANCE_LOOKUP_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	config.Attendance = AttendanceConfig{
		RecentWindow:    recentWindow,
		LateComersLimit: lateComersLimit,
		StatusWorkers:   statusWorkers,
		LookupTimeout:   lookupTimeout,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Database.Driver)
	}

	if c.Attendance.RecentWindow <= 0 {
		return fmt.Errorf("ATTENDANCE_RECENT_WINDOW must be positive")
	}
	if c.Attendance.LateComersLimit <= 0 || c.Attendance.LateComersLimit > MaxLateComersLimit {
		return fmt.Errorf("LATE_COMERS_LIMIT must be between 1 and %d", MaxLateComersLimit)
	}
	if c.Attendance.StatusWorkers <= 0 {
		return fmt.Errorf("STATUS_WORKERS must be positive")
	}
	if c.Device.MonitorInterval <= 0 || c.Device.PollInterval <= 0 {
		return fmt.Errorf("device intervals must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
