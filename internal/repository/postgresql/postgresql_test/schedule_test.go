package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/schedule"
	"github.com/biopulse/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A full holiday list makes the change notification too large for pg_notify;
// the write must still succeed.
func TestScheduleRepository_UpsertFullHolidayList(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewScheduleRepository(setup.DB)
	ctx := context.Background()
	emp := createTestEmployee(t, setup, "holidays@example.com")

	holidays := make([]string, 0, schedule.MaxHolidays)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < schedule.MaxHolidays; i++ {
		holidays = append(holidays, start.AddDate(0, 0, i).Format(time.DateOnly))
	}

	_, err := repo.Upsert(ctx, schedule.Schedule{EmployeeID: emp.ID, ExpectedClockIn: "09:00", Holidays: holidays})
	require.NoError(t, err)

	saved, err := repo.Upsert(ctx, schedule.Schedule{EmployeeID: emp.ID, ExpectedClockIn: "08:30", Holidays: holidays})
	require.NoError(t, err)
	assert.Equal(t, "08:30", saved.ExpectedClockIn)
	assert.Len(t, saved.Holidays, schedule.MaxHolidays)
}

func TestScheduleRepository_LockInsideTransaction(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewScheduleRepository(setup.DB)
	emp := createTestEmployee(t, setup, "lock@example.com")

	err := postgresql.NewTransactor(setup.DB).WithinTransaction(context.Background(), func(ctx context.Context) error {
		return repo.Lock(ctx, emp.ID)
	})
	assert.NoError(t, err)
}
