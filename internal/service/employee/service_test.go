package employee

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
	"github.com/biopulse/attendance-backend-go/internal/domain/schedule"
	"github.com/biopulse/attendance-backend-go/internal/pkg/database"
	"github.com/biopulse/attendance-backend-go/internal/pkg/sse"
	"github.com/biopulse/attendance-backend-go/internal/pkg/storage"
	"github.com/biopulse/attendance-backend-go/internal/repository/sqlite"
	"github.com/biopulse/attendance-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type employeeTestEnv struct {
	svc       *EmployeeServiceImpl
	schedules schedule.ScheduleRepository
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(ctx, db))
	t.Cleanup(func() { db.Close() })
	return db
}

func newEmployeeTestEnv(t *testing.T) employeeTestEnv {
	t.Helper()
	db := newTestDB(t)
	hub := sse.NewHub()

	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	schedules := sqlite.NewScheduleRepository(db, hub)
	return employeeTestEnv{
		svc: NewEmployeeService(
			sqlite.NewTransactor(db, hub),
			sqlite.NewEmployeeRepository(db, hub),
			schedules,
			file.NewFileService(store),
		),
		schedules: schedules,
	}
}

func strPtr(s string) *string { return &s }

func validCreateRequest(email string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		Name:       "  Kavya Iyer ",
		Position:   "Pharmacist",
		Department: "Pharmacy",
		Email:      email,
		JoinDate:   "2024-02-01",
	}
}

func TestCreateEmployee(t *testing.T) {
	env := newEmployeeTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.CreateEmployee(ctx, validCreateRequest("Kavya@Example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Kavya Iyer", resp.Name)
	assert.Equal(t, "kavya@example.com", resp.Email)
	assert.Equal(t, "2024-02-01", resp.JoinDate)
	assert.False(t, resp.HasFingerprint)

	_, err = env.schedules.GetByEmployeeID(ctx, resp.ID)
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)

	_, err = env.svc.CreateEmployee(ctx, validCreateRequest("kavya@example.com"))
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestCreateEmployee_WithSchedule(t *testing.T) {
	env := newEmployeeTestEnv(t)
	ctx := context.Background()

	req := validCreateRequest("kavya@example.com")
	req.ExpectedClockIn = strPtr("08:45:00")

	resp, err := env.svc.CreateEmployee(ctx, req)
	require.NoError(t, err)

	sched, err := env.schedules.GetByEmployeeID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "08:45", sched.ExpectedClockIn)
	assert.Empty(t, sched.Holidays)
}

func TestCreateEmployee_Validation(t *testing.T) {
	env := newEmployeeTestEnv(t)

	req := validCreateRequest("not-an-email")
	req.JoinDate = "01/02/2024"
	_, err := env.svc.CreateEmployee(context.Background(), req)
	assert.Error(t, err)
}

func TestUpdateEmployee(t *testing.T) {
	env := newEmployeeTestEnv(t)
	ctx := context.Background()

	a, err := env.svc.CreateEmployee(ctx, validCreateRequest("a@example.com"))
	require.NoError(t, err)
	_, err = env.svc.CreateEmployee(ctx, validCreateRequest("b@example.com"))
	require.NoError(t, err)

	updated, err := env.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: a.ID, Department: strPtr("Oncology")})
	require.NoError(t, err)
	assert.Equal(t, "Oncology", updated.Department)
	assert.Equal(t, "Pharmacist", updated.Position)

	_, err = env.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: a.ID, Email: strPtr("B@example.com")})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	_, err = env.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: a.ID})
	assert.Error(t, err)
}

func TestDeleteEmployee_Tombstone(t *testing.T) {
	env := newEmployeeTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateEmployee(ctx, validCreateRequest("kavya@example.com"))
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteEmployee(ctx, created.ID))
	assert.ErrorIs(t, env.svc.DeleteEmployee(ctx, created.ID), employee.ErrEmployeeDeleted)

	got, err := env.svc.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.DeletedAt)

	_, err = env.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: created.ID, Name: strPtr("X")})
	assert.ErrorIs(t, err, employee.ErrEmployeeDeleted)

	kiosk, err := env.svc.ListForKiosk(ctx)
	require.NoError(t, err)
	assert.Empty(t, kiosk)

	// The address is free again once its holder is removed.
	_, err = env.svc.CreateEmployee(ctx, validCreateRequest("kavya@example.com"))
	assert.NoError(t, err)

	list, err := env.svc.ListEmployees(ctx, employee.EmployeeFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.TotalCount)

	list, err = env.svc.ListEmployees(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.TotalCount)
}

func TestRegisterFingerprint(t *testing.T) {
	env := newEmployeeTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateEmployee(ctx, validCreateRequest("kavya@example.com"))
	require.NoError(t, err)

	resp, err := env.svc.RegisterFingerprint(ctx, employee.RegisterFingerprintRequest{EmployeeID: created.ID, Reference: "sensor-7/template-42"})
	require.NoError(t, err)
	assert.True(t, resp.HasFingerprint)

	kiosk, err := env.svc.ListForKiosk(ctx)
	require.NoError(t, err)
	require.Len(t, kiosk, 1)
	assert.True(t, kiosk[0].HasFingerprint)

	resp, err = env.svc.RegisterFingerprint(ctx, employee.RegisterFingerprintRequest{EmployeeID: created.ID})
	require.NoError(t, err)
	assert.False(t, resp.HasFingerprint)
}

type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadAvatar(t *testing.T) {
	env := newEmployeeTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateEmployee(ctx, validCreateRequest("kavya@example.com"))
	require.NoError(t, err)

	data := pngBytes(t, 800, 600)
	resp, err := env.svc.UploadAvatar(ctx, employee.UploadAvatarRequest{
		EmployeeID: created.ID,
		File:       memoryFile{bytes.NewReader(data)},
		FileHeader: &multipart.FileHeader{Filename: "me.png", Size: int64(len(data))},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ImageURL)
	assert.True(t, strings.HasPrefix(*resp.ImageURL, "http://localhost:8080/uploads/avatars/"+created.ID+"/"))
	assert.True(t, strings.HasSuffix(*resp.ImageURL, ".jpg"))

	_, err = env.svc.UploadAvatar(ctx, employee.UploadAvatarRequest{
		EmployeeID: created.ID,
		File:       memoryFile{bytes.NewReader([]byte("gif"))},
		FileHeader: &multipart.FileHeader{Filename: "me.gif", Size: 3},
	})
	assert.Error(t, err)
}
