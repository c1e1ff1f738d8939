package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
	"github.com/biopulse/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestEmployee(t *testing.T, setup *TestDatabaseSetup, email string) employee.Employee {
	t.Helper()
	emp, err := postgresql.NewEmployeeRepository(setup.DB).Create(context.Background(), employee.Employee{
		Name:       "Asha Rao",
		Position:   "Engineer",
		Department: "Platform",
		Email:      email,
		JoinDate:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return emp
}

func strPtr(s string) *string { return &s }

func TestAttendanceRepository_ClockLifecycle(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()
	emp := createTestEmployee(t, setup, "asha@example.com")

	timeIn := time.Date(2025, 4, 10, 3, 50, 0, 0, time.UTC)
	rec, err := repo.ClockIn(ctx, attendance.AttendanceRecord{
		EmployeeID: emp.ID, Date: "2025-04-10", TimeIn: &timeIn, Status: attendance.StatusLate, Note: strPtr("clock-in via code"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-04-10", rec.Date)
	assert.Equal(t, attendance.StatusLate, rec.Status)

	_, err = repo.ClockIn(ctx, attendance.AttendanceRecord{
		EmployeeID: emp.ID, Date: "2025-04-10", TimeIn: &timeIn, Status: attendance.StatusPresent,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	timeOut := timeIn.Add(8 * time.Hour)
	out, err := repo.ClockOut(ctx, emp.ID, "2025-04-10", attendance.AttendanceRecord{TimeOut: &timeOut, Note: strPtr("clock-out via selfie")})
	require.NoError(t, err)
	require.NotNil(t, out.TimeOut)
	assert.False(t, out.TimeOut.Before(*out.TimeIn))
	assert.Equal(t, "clock-in via code; clock-out via selfie", *out.Note)

	_, err = repo.ClockOut(ctx, emp.ID, "2025-04-10", attendance.AttendanceRecord{TimeOut: &timeOut})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)

	_, err = repo.ClockOut(ctx, emp.ID, "2025-04-11", attendance.AttendanceRecord{TimeOut: &timeOut})
	assert.ErrorIs(t, err, attendance.ErrNoClockInFound)
}

func TestAttendanceRepository_ConcurrentClockInSingleWinner(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	emp := createTestEmployee(t, setup, "race@example.com")

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			now := time.Now().UTC()
			_, err := repo.ClockIn(context.Background(), attendance.AttendanceRecord{
				EmployeeID: emp.ID, Date: "2025-04-10", TimeIn: &now, Status: attendance.StatusPresent,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
		conflicts++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, conflicts)
}

func TestAttendanceRepository_LeaveRowIsClaimedByClockIn(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()
	emp := createTestEmployee(t, setup, "leave@example.com")

	inserted, err := repo.InsertIfAbsent(ctx, attendance.AttendanceRecord{
		EmployeeID: emp.ID, Date: "2025-04-10", Status: attendance.StatusLeave, Note: strPtr("sick leave"),
	})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertIfAbsent(ctx, attendance.AttendanceRecord{EmployeeID: emp.ID, Date: "2025-04-10", Status: attendance.StatusAbsent})
	require.NoError(t, err)
	assert.False(t, inserted)

	now := time.Date(2025, 4, 10, 4, 0, 0, 0, time.UTC)
	rec, err := repo.ClockIn(ctx, attendance.AttendanceRecord{
		EmployeeID: emp.ID, Date: "2025-04-10", TimeIn: &now, Status: attendance.StatusPresent, Note: strPtr("clock-in via code"),
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, "sick leave; clock-in via code", *rec.Note)

	count, err := repo.CountByStatus(ctx, "2025-04-10", attendance.StatusPresent)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAttendanceRepository_CountByStatusSkipsDeletedEmployees(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	employees := postgresql.NewEmployeeRepository(setup.DB)
	ctx := context.Background()

	kept := createTestEmployee(t, setup, "kept@example.com")
	gone := createTestEmployee(t, setup, "gone@example.com")
	for _, id := range []string{kept.ID, gone.ID} {
		now := time.Now().UTC()
		_, err := repo.ClockIn(ctx, attendance.AttendanceRecord{
			EmployeeID: id, Date: "2025-04-12", TimeIn: &now, Status: attendance.StatusPresent,
		})
		require.NoError(t, err)
	}
	require.NoError(t, employees.SoftDelete(ctx, gone.ID))

	count, err := repo.CountByStatus(ctx, "2025-04-12", attendance.StatusPresent)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
