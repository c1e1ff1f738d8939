package http

import (
	"log/slog"
	"net/http"

	"github.com/biopulse/attendance-backend-go/internal/domain/user"
	"github.com/biopulse/attendance-backend-go/internal/handler/http/middleware"
	"github.com/biopulse/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the HTTP-level settings of the router.
type RouterConfig struct {
	AllowedOrigins []string
	// UploadsDir is served under /uploads when set.
	UploadsDir string
	Logger     *slog.Logger
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Employee   EmployeeHandler
	Schedule   ScheduleHandler
	Settings   SettingsHandler
	Report     ReportHandler
	Realtime   RealtimeHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// Kiosk: no back-office account, the verification method is the credential
		r.Route("/kiosk", func(r chi.Router) {
			r.Get("/verification-requirements", h.Settings.Requirements)
			r.Get("/company", h.Settings.GetCompany)
			r.Get("/employees", h.Employee.ListForKiosk)
			r.Get("/employees/{employeeID}/today", h.Attendance.Today)
			r.Post("/clock-in", h.Attendance.ClockIn)
			r.Post("/clock-out", h.Attendance.ClockOut)
		})

		// The stream authenticates with its own short-lived query token
		r.Get("/realtime/stream", h.Realtime.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", h.Auth.Me)
			r.Get("/realtime/token", h.Realtime.Token)

			r.With(middleware.AdminOnly).Post("/users", h.Auth.CreateUser)

			r.With(middleware.RequirePermission(user.PermissionDailyCodeView)).
				Get("/verification/daily-code", h.Settings.DailyCode)

			r.Route("/employees", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeViewAll))
					r.Get("/", h.Employee.ListEmployees)
					r.Get("/{id}", h.Employee.GetEmployee)
					r.Get("/{id}/schedule", h.Schedule.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Patch("/{id}", h.Employee.UpdateEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
					r.Post("/{id}/avatar", h.Employee.UploadAvatar)
					r.Put("/{id}/fingerprint", h.Employee.RegisterFingerprint)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionScheduleManage))
					r.Put("/{id}/schedule", h.Schedule.Upsert)
					r.Delete("/{id}/schedule", h.Schedule.Delete)
					r.Post("/{id}/schedule/holidays", h.Schedule.AddHoliday)
					r.Delete("/{id}/schedule/holidays/{date}", h.Schedule.RemoveHoliday)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/{id}", h.Attendance.Get)
				r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).Post("/leave", h.Attendance.RecordLeave)
				r.With(middleware.AdminOnly).Post("/sweep", h.Attendance.Sweep)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSettingsView))
					r.Get("/company", h.Settings.GetCompany)
					r.Get("/verification", h.Settings.GetVerification)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/company", h.Settings.UpdateCompany)
					r.Post("/company/logo", h.Settings.UploadLogo)
					r.Put("/verification", h.Settings.UpdateVerification)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/daily", h.Report.DailyStats)
				r.Get("/attendance", h.Report.AttendanceReport)
				r.Get("/attendance/export", h.Report.Export)
			})
		})
	})
	return r
}
