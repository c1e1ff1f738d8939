package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 15, cfg.Attendance.LateThresholdMinutes)
	assert.True(t, cfg.Attendance.LatePenalty.Equal(decimal.NewFromInt(250)))
	assert.True(t, cfg.Attendance.AbsencePenalty.Equal(decimal.NewFromInt(500)))
	assert.True(t, cfg.Attendance.SweepEnabled)
	assert.Equal(t, "5 0 * * *", cfg.Attendance.SweepCron)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{"port", "APP_PORT", "eighty"},
		{"threshold", "ATTENDANCE_LATE_THRESHOLD_MINUTES", "x"},
		{"penalty", "ATTENDANCE_LATE_PENALTY", "lots"},
		{"pass rate", "VERIFICATION_SELFIE_PASS_RATE", "1.5"},
		{"timezone", "APP_TIMEZONE", "Mars/Olympus"},
		{"driver", "DB_DRIVER", "oracle"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(c.key, c.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_SQLiteDoesNotNeedDBPassword(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_DRIVER", DriverSQLite)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "attendance.db", cfg.Database.SQLitePath)
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{App: AppConfig{FrontendURL: "http://a.test, http://b.test,,"}}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}

func TestLoadFallbackSchedules_Embedded(t *testing.T) {
	schedules, err := LoadFallbackSchedules("")
	require.NoError(t, err)
	require.Len(t, schedules, 3)
	assert.Equal(t, "09:00", schedules[1].ExpectedClockIn)
}

func TestParseFallbackSchedules_Rejects(t *testing.T) {
	_, err := ParseFallbackSchedules([]byte("schedules: []"))
	assert.Error(t, err)

	_, err = ParseFallbackSchedules([]byte("schedules:\n  - name: x\n"))
	assert.Error(t, err)

	schedules, err := ParseFallbackSchedules([]byte("schedules:\n  - name: x\n    expected_clock_in: \"07:30\"\n    holidays: [\"2025-01-26\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-26"}, schedules[0].Holidays)
}
