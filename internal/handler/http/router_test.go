package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/config"
	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
	"github.com/biopulse/attendance-backend-go/internal/domain/user"
	"github.com/biopulse/attendance-backend-go/internal/pkg/dailycode"
	"github.com/biopulse/attendance-backend-go/internal/pkg/database"
	"github.com/biopulse/attendance-backend-go/internal/pkg/jwt"
	"github.com/biopulse/attendance-backend-go/internal/pkg/sse"
	"github.com/biopulse/attendance-backend-go/internal/pkg/storage"
	"github.com/biopulse/attendance-backend-go/internal/repository/sqlite"
	attendanceService "github.com/biopulse/attendance-backend-go/internal/service/attendance"
	authService "github.com/biopulse/attendance-backend-go/internal/service/auth"
	employeeService "github.com/biopulse/attendance-backend-go/internal/service/employee"
	fileService "github.com/biopulse/attendance-backend-go/internal/service/file"
	reportService "github.com/biopulse/attendance-backend-go/internal/service/report"
	scheduleService "github.com/biopulse/attendance-backend-go/internal/service/schedule"
	settingsService "github.com/biopulse/attendance-backend-go/internal/service/settings"
	verificationService "github.com/biopulse/attendance-backend-go/internal/service/verification"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type routerTestEnv struct {
	router    *chi.Mux
	jwt       jwt.Service
	employees *employeeService.EmployeeServiceImpl
	auth      *authService.AuthServiceImpl
}

func newRouterTestEnv(t *testing.T) *routerTestEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(ctx, db))
	t.Cleanup(func() { db.Close() })

	hub := sse.NewHub()
	attendanceRepo := sqlite.NewAttendanceRepository(db, hub)
	employeeRepo := sqlite.NewEmployeeRepository(db, hub)
	scheduleRepo := sqlite.NewScheduleRepository(db, hub)
	settingsRepo := sqlite.NewSettingsRepository(db, hub)
	userRepo := sqlite.NewUserRepository(db)

	uploads := t.TempDir()
	store, err := storage.NewLocalStorage(uploads, "http://localhost/uploads")
	require.NoError(t, err)
	files := fileService.NewFileService(store)

	fallbacks, err := config.LoadFallbackSchedules("")
	require.NoError(t, err)
	schedules, err := scheduleService.NewScheduleService(sqlite.NewTransactor(db, hub), scheduleRepo, employeeRepo, settingsRepo, fallbacks)
	require.NoError(t, err)

	jwtSvc := jwt.NewJWTService(handlerTestSecret, time.Hour)
	verifier := verificationService.NewVerificationService(settingsRepo, verificationService.NewMockVerifier(1, 1), files, time.UTC)
	deductions := attendanceService.NewDeductionCalculator(
		attendanceService.DefaultAbsencePenalty, attendanceService.DefaultLatePenalty, "INR")

	env := &routerTestEnv{
		jwt:       jwtSvc,
		employees: employeeService.NewEmployeeService(sqlite.NewTransactor(db, hub), employeeRepo, scheduleRepo, files),
		auth:      authService.NewAuthService(userRepo, jwtSvc),
	}
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, schedules, verifier,
		attendanceService.NewClassifier(attendanceService.DefaultLateThresholdMinutes), time.UTC)

	env.router = NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}, UploadsDir: uploads}, jwtSvc, Handlers{
		Auth:       NewAuthHandler(env.auth),
		Attendance: NewAttendanceHandler(attendanceSvc),
		Employee:   NewEmployeeHandler(env.employees),
		Schedule:   NewScheduleHandler(schedules),
		Settings:   NewSettingsHandler(settingsService.NewSettingsService(settingsRepo, files), verifier),
		Report:     NewReportHandler(reportService.NewReportService(attendanceRepo, employeeRepo, schedules, deductions, time.UTC)),
		Realtime:   NewRealtimeHandler(hub, env.auth, jwtSvc),
	})
	return env
}

func (env *routerTestEnv) token(t *testing.T, role user.Role) string {
	t.Helper()
	created, err := env.auth.CreateUser(context.Background(), user.CreateUserRequest{
		Email:    string(role) + "@example.com",
		Password: "correct horse battery",
		Role:     role,
	})
	require.NoError(t, err)
	token, _, err := env.jwt.GenerateAccessToken(created.ID, created.Email, created.Role)
	require.NoError(t, err)
	return token
}

func (env *routerTestEnv) createEmployee(t *testing.T, name string) employee.EmployeeResponse {
	t.Helper()
	emp, err := env.employees.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		Name:       name,
		Position:   "Nurse",
		Department: "Ward 3",
		Email:      strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		JoinDate:   "2024-01-01",
	})
	require.NoError(t, err)
	return emp
}

func (env *routerTestEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func todaysCode() string {
	return dailycode.Generate(time.Now().UTC())
}

func TestKiosk_ClockFlow(t *testing.T) {
	env := newRouterTestEnv(t)
	emp := env.createEmployee(t, "Meera Nair")

	w := env.do(http.MethodGet, "/api/v1/kiosk/verification-requirements", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reqs struct {
		Methods []string `json:"methods"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &reqs))
	assert.Equal(t, []string{"code"}, reqs.Methods)

	clock := map[string]string{"employee_id": emp.ID, "method": "code", "code": todaysCode()}

	w = env.do(http.MethodPost, "/api/v1/kiosk/clock-in", "", clock)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rec struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &rec))
	assert.Equal(t, "clock-in via code", rec.Note)

	w = env.do(http.MethodPost, "/api/v1/kiosk/clock-in", "", clock)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPost, "/api/v1/kiosk/clock-out", "", clock)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/v1/kiosk/employees/"+emp.ID+"/today", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var today struct {
		CanClockIn  bool `json:"can_clock_in"`
		CanClockOut bool `json:"can_clock_out"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &today))
	assert.False(t, today.CanClockIn)
	assert.False(t, today.CanClockOut)
}

func TestKiosk_ClockInRejections(t *testing.T) {
	env := newRouterTestEnv(t)
	emp := env.createEmployee(t, "Meera Nair")

	wrong := "000000"
	if todaysCode() == wrong {
		wrong = "000001"
	}

	w := env.do(http.MethodPost, "/api/v1/kiosk/clock-in", "", map[string]string{
		"employee_id": emp.ID, "method": "code", "code": wrong,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/v1/kiosk/clock-in", "", map[string]string{
		"employee_id": emp.ID, "method": "code", "code": " " + todaysCode() + " ",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "the code must match exactly")

	w = env.do(http.MethodPost, "/api/v1/kiosk/clock-in", "", map[string]string{
		"employee_id": emp.ID, "method": "fingerprint", "fingerprint_sample": "abc",
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "fingerprint is not enabled by default")

	w = env.do(http.MethodPost, "/api/v1/kiosk/clock-in", "", map[string]string{"method": "code"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(http.MethodPost, "/api/v1/kiosk/clock-out", "", map[string]string{
		"employee_id": emp.ID, "method": "code", "code": todaysCode(),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_Authorization(t *testing.T) {
	env := newRouterTestEnv(t)
	admin := env.token(t, user.RoleAdmin)
	manager := env.token(t, user.RoleManager)

	w := env.do(http.MethodGet, "/api/v1/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sseToken, _, err := env.jwt.GenerateSSEToken("someone")
	require.NoError(t, err)
	w = env.do(http.MethodGet, "/api/v1/employees", sseToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "stream tokens are not access tokens")

	body := map[string]string{
		"name": "Ravi Kumar", "position": "Porter", "department": "Logistics",
		"email": "ravi@example.com", "join_date": "2024-02-01",
	}
	w = env.do(http.MethodPost, "/api/v1/employees", manager, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/v1/employees", admin, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/api/v1/employees", admin, body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodGet, "/api/v1/employees", manager, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/verification/daily-code", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var code struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &code))
	assert.Equal(t, todaysCode(), code.Code)

	w = env.do(http.MethodPut, "/api/v1/settings/verification", manager, map[string]bool{"require_selfie": true})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	env := newRouterTestEnv(t)
	_, err := env.auth.CreateUser(context.Background(), user.CreateUserRequest{
		Email: "hr@example.com", Password: "correct horse battery", Role: user.RoleHR,
	})
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "hr@example.com", "password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "HR@example.com", "password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)

	w = env.do(http.MethodGet, "/api/v1/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"hr"`)
}

func TestSettings_VerificationMustKeepOneMethod(t *testing.T) {
	env := newRouterTestEnv(t)
	admin := env.token(t, user.RoleAdmin)

	w := env.do(http.MethodPut, "/api/v1/settings/verification", admin, map[string]bool{"require_code": false})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "methods")

	w = env.do(http.MethodPut, "/api/v1/settings/verification", admin, map[string]bool{"require_code": false, "require_selfie": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/v1/kiosk/verification-requirements", "", nil)
	assert.Contains(t, w.Body.String(), `"methods":["selfie"]`)
}

func TestReports_ExportCSV(t *testing.T) {
	env := newRouterTestEnv(t)
	manager := env.token(t, user.RoleManager)
	env.createEmployee(t, "Meera Nair")

	today := time.Now().UTC().Format("2006-01-02")
	w := env.do(http.MethodGet, "/api/v1/reports/attendance/export?format=csv&start_date="+today+"&end_date="+today, manager, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance_"+today+"_"+today+".csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Employee ID,"))

	w = env.do(http.MethodGet, "/api/v1/reports/attendance/export?format=pdf&start_date="+today+"&end_date="+today, manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/v1/reports/daily", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"absent":1`)
}

func TestRealtime_StreamDeliversChanges(t *testing.T) {
	env := newRouterTestEnv(t)
	admin := env.token(t, user.RoleAdmin)

	w := env.do(http.MethodGet, "/api/v1/realtime/token", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sseToken struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &sseToken))

	w = env.do(http.MethodGet, "/api/v1/realtime/stream?token="+sseToken.Token+"&tables=payroll", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	server := httptest.NewServer(env.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		server.URL+"/api/v1/realtime/stream?tables=employees&token="+sseToken.Token, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		return strings.TrimSpace(line)
	}
	require.Equal(t, "event: connected", readEvent())

	// The subscription exists once the connected event is out.
	emp := env.createEmployee(t, "Meera Nair")

	for {
		line := readEvent()
		if line == "event: employees" {
			data := strings.TrimPrefix(readEvent(), "data: ")
			assert.Contains(t, data, `"type":"INSERT"`)
			assert.Contains(t, data, emp.ID)
			return
		}
	}
}
