package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/config"
	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
	"github.com/biopulse/attendance-backend-go/internal/domain/schedule"
	"github.com/biopulse/attendance-backend-go/internal/domain/settings"
	"github.com/biopulse/attendance-backend-go/internal/domain/user"
	appHTTP "github.com/biopulse/attendance-backend-go/internal/handler/http"
	"github.com/biopulse/attendance-backend-go/internal/pkg/cron"
	"github.com/biopulse/attendance-backend-go/internal/pkg/database"
	"github.com/biopulse/attendance-backend-go/internal/pkg/jwt"
	"github.com/biopulse/attendance-backend-go/internal/pkg/sse"
	"github.com/biopulse/attendance-backend-go/internal/pkg/storage"
	"github.com/biopulse/attendance-backend-go/internal/repository/postgresql"
	"github.com/biopulse/attendance-backend-go/internal/repository/sqlite"
	attendanceService "github.com/biopulse/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/biopulse/attendance-backend-go/internal/service/auth"
	employeeService "github.com/biopulse/attendance-backend-go/internal/service/employee"
	"github.com/biopulse/attendance-backend-go/internal/service/file"
	reportService "github.com/biopulse/attendance-backend-go/internal/service/report"
	scheduleService "github.com/biopulse/attendance-backend-go/internal/service/schedule"
	settingsService "github.com/biopulse/attendance-backend-go/internal/service/settings"
	verificationService "github.com/biopulse/attendance-backend-go/internal/service/verification"
	"github.com/go-chi/httplog/v3"
)

const (
	appName    = "biopulse-attendance"
	appVersion = "v1.0.0"
)

// repositories is the storage layer of whichever driver is configured.
type repositories struct {
	attendance attendance.AttendanceRepository
	employee   employee.EmployeeRepository
	schedule   schedule.ScheduleRepository
	settings   settings.SettingsRepository
	user       user.UserRepository
	transactor database.Transactor
	// start launches background work owned by the driver, if any.
	start func(ctx context.Context)
	close func()
}

func openPostgres(ctx context.Context, cfg *config.Config, hub *sse.Hub) (*repositories, error) {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := postgresql.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	// Row triggers NOTIFY every change, so all instances see writes from each other.
	listener := postgresql.NewChangeListener(db, hub)
	return &repositories{
		attendance: postgresql.NewAttendanceRepository(db),
		employee:   postgresql.NewEmployeeRepository(db),
		schedule:   postgresql.NewScheduleRepository(db),
		settings:   postgresql.NewSettingsRepository(db),
		user:       postgresql.NewUserRepository(db),
		transactor: postgresql.NewTransactor(db),
		start:      func(ctx context.Context) { go listener.Run(ctx) },
		close:      db.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, hub *sse.Hub) (*repositories, error) {
	db, err := database.NewSQLiteDB(ctx, cfg.Database.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := sqlite.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &repositories{
		attendance: sqlite.NewAttendanceRepository(db, hub),
		employee:   sqlite.NewEmployeeRepository(db, hub),
		schedule:   sqlite.NewScheduleRepository(db, hub),
		settings:   sqlite.NewSettingsRepository(db, hub),
		user:       sqlite.NewUserRepository(db),
		transactor: sqlite.NewTransactor(db, hub),
		start:      func(context.Context) {},
		close:      func() { closeSQLite(db) },
	}, nil
}

func closeSQLite(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("Failed to close sqlite database", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()
	hub := sse.NewHub()

	var repos *repositories
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		repos, err = openPostgres(ctx, cfg, hub)
	case config.DriverSQLite:
		repos, err = openSQLite(ctx, cfg, hub)
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return err
	}
	defer repos.close()
	repos.start(ctx)
	slog.Info("Database ready", "driver", cfg.Database.Driver)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("initialize local storage: %w", err)
		}
	default:
		return fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
	fileService := file.NewFileService(fileStorage)

	fallbacks, err := config.LoadFallbackSchedules(cfg.Attendance.SchedulesFile)
	if err != nil {
		return fmt.Errorf("load fallback schedules: %w", err)
	}

	accessExpiration, err := time.ParseDuration(cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("invalid JWT access expiration: %w", err)
	}
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, accessExpiration)

	scheduleSvc, err := scheduleService.NewScheduleService(repos.transactor, repos.schedule, repos.employee, repos.settings, fallbacks)
	if err != nil {
		return err
	}
	verifier := verificationService.NewMockVerifier(cfg.Attendance.SelfiePassRate, cfg.Attendance.FingerprintPassRate)
	verificationSvc := verificationService.NewVerificationService(repos.settings, verifier, fileService, loc)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.attendance,
		repos.employee,
		scheduleSvc,
		verificationSvc,
		attendanceService.NewClassifier(cfg.Attendance.LateThresholdMinutes),
		loc,
	)
	deductions := attendanceService.NewDeductionCalculator(
		cfg.Attendance.AbsencePenalty,
		cfg.Attendance.LatePenalty,
		cfg.Attendance.Currency,
	)
	reportSvc := reportService.NewReportService(repos.attendance, repos.employee, scheduleSvc, deductions, loc)
	employeeSvc := employeeService.NewEmployeeService(repos.transactor, repos.employee, repos.schedule, fileService)
	settingsSvc := settingsService.NewSettingsService(repos.settings, fileService)
	authSvc := serviceAuth.NewAuthService(repos.user, JWTService)

	if err := authSvc.BootstrapAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	scheduler := cron.NewScheduler(loc)
	if cfg.Attendance.SweepEnabled {
		jobs := cron.NewAttendanceJobs(attendanceSvc, loc)
		if err := jobs.RegisterJobs(scheduler, cfg.Attendance.SweepCron); err != nil {
			return err
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins(),
		UploadsDir:     uploadsDir(cfg),
		Logger:         logger,
	}, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Schedule:   appHTTP.NewScheduleHandler(scheduleSvc),
		Settings:   appHTTP.NewSettingsHandler(settingsSvc, verificationSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Realtime:   appHTTP.NewRealtimeHandler(hub, authSvc, JWTService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	// Open SSE streams end when their request contexts are cancelled by Shutdown's deadline.
	return server.Shutdown(shutdownCtx)
}

// uploadsDir is served under /uploads only when the public URL points back at this server.
func uploadsDir(cfg *config.Config) string {
	if cfg.Storage.Type == "local" && strings.HasSuffix(strings.TrimRight(cfg.Storage.BaseURL, "/"), "/uploads") {
		return cfg.Storage.BasePath
	}
	return ""
}
