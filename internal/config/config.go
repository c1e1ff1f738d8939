package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Storage    StorageConfig
	Attendance AttendanceConfig
	Bootstrap  BootstrapConfig
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
	Timezone    string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

// AttendanceConfig holds the tunables of the attendance engine.
type AttendanceConfig struct {
	LateThresholdMinutes int
	LatePenalty          decimal.Decimal
	AbsencePenalty       decimal.Decimal
	Currency             string
	SweepEnabled         bool
	SweepCron            string
	SchedulesFile        string
	SelfiePassRate       float64
	FingerprintPassRate  float64
}

// BootstrapConfig seeds the first admin account on an empty users table.
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:     getEnv("DB_DRIVER", DriverPostgres),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       dbPort,
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "biopulse_attendance"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "attendance.db"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		Timezone:    getEnv("APP_TIMEZONE", "Asia/Kolkata"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	attendanceConfig, err := loadAttendanceConfig()
	if err != nil {
		return nil, err
	}
	config.Attendance = attendanceConfig

	config.Bootstrap = BootstrapConfig{
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadAttendanceConfig() (AttendanceConfig, error) {
	threshold, err := strconv.Atoi(getEnv("ATTENDANCE_LATE_THRESHOLD_MINUTES", "15"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_LATE_THRESHOLD_MINUTES: %w", err)
	}

	latePenalty, err := decimal.NewFromString(getEnv("ATTENDANCE_LATE_PENALTY", "250"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_LATE_PENALTY: %w", err)
	}

	absencePenalty, err := decimal.NewFromString(getEnv("ATTENDANCE_ABSENCE_PENALTY", "500"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_ABSENCE_PENALTY: %w", err)
	}

	sweepEnabled, err := strconv.ParseBool(getEnv("ATTENDANCE_ABSENCE_SWEEP_ENABLED", "true"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_ABSENCE_SWEEP_ENABLED: %w", err)
	}

	selfieRate, err := strconv.ParseFloat(getEnv("VERIFICATION_SELFIE_PASS_RATE", "0.9"), 64)
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid VERIFICATION_SELFIE_PASS_RATE: %w", err)
	}

	fingerprintRate, err := strconv.ParseFloat(getEnv("VERIFICATION_FINGERPRINT_PASS_RATE", "0.8"), 64)
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid VERIFICATION_FINGERPRINT_PASS_RATE: %w", err)
	}

	return AttendanceConfig{
		LateThresholdMinutes: threshold,
		LatePenalty:          latePenalty,
		AbsencePenalty:       absencePenalty,
		Currency:             getEnv("ATTENDANCE_CURRENCY", "INR"),
		SweepEnabled:         sweepEnabled,
		SweepCron:            getEnv("ATTENDANCE_ABSENCE_SWEEP_CRON", "5 0 * * *"),
		SchedulesFile:        getEnv("ATTENDANCE_SCHEDULES_FILE", ""),
		SelfiePassRate:       selfieRate,
		FingerprintPassRate:  fingerprintRate,
	}, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Attendance.LateThresholdMinutes < 0 {
		return fmt.Errorf("ATTENDANCE_LATE_THRESHOLD_MINUTES must not be negative")
	}
	if c.Attendance.LatePenalty.IsNegative() || c.Attendance.AbsencePenalty.IsNegative() {
		return fmt.Errorf("attendance penalties must not be negative")
	}
	if !inUnitRange(c.Attendance.SelfiePassRate) || !inUnitRange(c.Attendance.FingerprintPassRate) {
		return fmt.Errorf("verification pass rates must be between 0 and 1")
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

// Location returns the tenant timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AllowedOrigins splits FRONTEND_URL on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.App.FrontendURL, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
