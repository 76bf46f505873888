package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(
	cfg RouterConfig,
	healthHandler HealthHandler,
	attendanceHandler AttendanceHandler,
	masterHandler MasterHandler,
	dashboardHandler DashboardHandler,
	reportHandler ReportHandler,
	streamHandler StreamHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: false,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", attendanceHandler.ListEmployeeStatuses)
			r.Post("/", masterHandler.CreateEmployee)
			r.Get("/roster", masterHandler.ListEmployees)
			r.Get("/{id}/status", attendanceHandler.GetEmployeeStatus)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", masterHandler.ListTeams)
			r.Post("/", masterHandler.CreateTeam)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", masterHandler.ListShifts)
			r.Post("/", masterHandler.CreateShift)
		})

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", masterHandler.ListDevices)
			r.Post("/", masterHandler.CreateDevice)
		})

		r.Route("/punches", func(r chi.Router) {
			r.Get("/", attendanceHandler.ListPunches)
			r.Post("/", attendanceHandler.RecordPunch)
		})

		r.Get("/late-comers", attendanceHandler.ListLateComers)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", dashboardHandler.GetDashboard)
			r.Get("/statistics", dashboardHandler.GetStatistics)
		})

		r.Get("/reports/{type}", reportHandler.Export)
		r.Get("/export-daily", reportHandler.ExportDaily)
		r.Get("/export-weekly", reportHandler.ExportWeekly)
		r.Get("/export-monthly", reportHandler.ExportMonthly)

		r.Get("/stream", streamHandler.Stream)
	})

	return r
}
