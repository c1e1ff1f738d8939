package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/biopulse/attendance-backend-go/internal/domain/schedule"
	"github.com/biopulse/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}

// GetByEmployeeID implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetByEmployeeID(ctx context.Context, employeeID string) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, expected_clock_in, holidays, created_at, updated_at
		FROM employee_schedules
		WHERE employee_id::text = $1
	`

	var s schedule.Schedule
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&s.EmployeeID, &s.ExpectedClockIn, &s.Holidays, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule for employee %s: %w", employeeID, err)
	}
	s.Holidays = schedule.NormalizeHolidays(s.Holidays)

	return s, nil
}

// Upsert implements schedule.ScheduleRepository.
func (r *scheduleRepository) Upsert(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	holidays := schedule.NormalizeHolidays(append([]string{}, s.Holidays...))

	query := `
		INSERT INTO employee_schedules (employee_id, expected_clock_in, holidays)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id) DO UPDATE
		SET expected_clock_in = EXCLUDED.expected_clock_in,
			holidays = EXCLUDED.holidays,
			updated_at = NOW()
		RETURNING employee_id, expected_clock_in, holidays, created_at, updated_at
	`

	var saved schedule.Schedule
	err := q.QueryRow(ctx, query, s.EmployeeID, s.ExpectedClockIn, holidays).Scan(
		&saved.EmployeeID, &saved.ExpectedClockIn, &saved.Holidays, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to save schedule for employee %s: %w", s.EmployeeID, err)
	}

	return saved, nil
}

// Delete implements schedule.ScheduleRepository.
func (r *scheduleRepository) Delete(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employee_schedules WHERE employee_id::text = $1`, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule for employee %s: %w", employeeID, err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}
	return nil
}

// Lock implements schedule.ScheduleRepository.
// The employee row is locked rather than the schedule row, which may not exist yet.
func (r *scheduleRepository) Lock(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT 1 FROM employees WHERE id::text = $1 FOR UPDATE`, employeeID); err != nil {
		return fmt.Errorf("failed to lock schedule for employee %s: %w", employeeID, err)
	}
	return nil
}
