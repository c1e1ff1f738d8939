package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/schedule"
	"github.com/biopulse/attendance-backend-go/internal/pkg/sse"
)

type scheduleRepository struct {
	db        *sql.DB
	publisher sse.Publisher
}

func NewScheduleRepository(db *sql.DB, publisher sse.Publisher) schedule.ScheduleRepository {
	return &scheduleRepository{db: db, publisher: publisher}
}

func scanSchedule(row rowScanner) (schedule.Schedule, error) {
	var (
		s                    schedule.Schedule
		holidays             string
		createdAt, updatedAt string
	)
	if err := row.Scan(&s.EmployeeID, &s.ExpectedClockIn, &holidays, &createdAt, &updatedAt); err != nil {
		return schedule.Schedule{}, err
	}
	if err := json.Unmarshal([]byte(holidays), &s.Holidays); err != nil {
		return schedule.Schedule{}, fmt.Errorf("decode holidays: %w", err)
	}
	s.Holidays = schedule.NormalizeHolidays(s.Holidays)

	var err error
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return schedule.Schedule{}, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return schedule.Schedule{}, err
	}
	return s, nil
}

func schedulePayload(s schedule.Schedule) map[string]any {
	return map[string]any{
		"employee_id":       s.EmployeeID,
		"expected_clock_in": s.ExpectedClockIn,
		"holidays":          s.Holidays,
		"created_at":        s.CreatedAt,
		"updated_at":        s.UpdatedAt,
	}
}

// GetByEmployeeID implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetByEmployeeID(ctx context.Context, employeeID string) (schedule.Schedule, error) {
	q := getQuerier(ctx, r.db)

	s, err := scanSchedule(q.QueryRowContext(ctx, `
		SELECT employee_id, expected_clock_in, holidays, created_at, updated_at
		FROM employee_schedules
		WHERE employee_id = ?
	`, employeeID))
	if err != nil {
		if isNoRows(err) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule for employee %s: %w", employeeID, err)
	}

	return s, nil
}

// Upsert implements schedule.ScheduleRepository.
func (r *scheduleRepository) Upsert(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	q := getQuerier(ctx, r.db)

	holidays := schedule.NormalizeHolidays(append([]string{}, s.Holidays...))
	encoded, err := json.Marshal(holidays)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("encode holidays: %w", err)
	}
	now := formatTime(time.Now())

	saved, err := scanSchedule(q.QueryRowContext(ctx, `
		INSERT INTO employee_schedules (employee_id, expected_clock_in, holidays, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (employee_id) DO UPDATE
		SET expected_clock_in = excluded.expected_clock_in,
			holidays = excluded.holidays,
			updated_at = excluded.updated_at
		RETURNING employee_id, expected_clock_in, holidays, created_at, updated_at
	`, s.EmployeeID, s.ExpectedClockIn, string(encoded), now, now))
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to save schedule for employee %s: %w", s.EmployeeID, err)
	}

	op := sse.OpInsert
	if !saved.CreatedAt.Equal(saved.UpdatedAt) {
		op = sse.OpUpdate
	}
	publish(ctx, r.publisher, sse.NewEvent(sse.TableEmployeeSchedules, op, schedulePayload(saved), nil))

	return saved, nil
}

// Delete implements schedule.ScheduleRepository.
func (r *scheduleRepository) Delete(ctx context.Context, employeeID string) error {
	q := getQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `DELETE FROM employee_schedules WHERE employee_id = ?`, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule for employee %s: %w", employeeID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return schedule.ErrScheduleNotFound
	}

	publish(ctx, r.publisher, sse.NewEvent(sse.TableEmployeeSchedules, sse.OpDelete, nil, map[string]any{"employee_id": employeeID}))
	return nil
}

// Lock implements schedule.ScheduleRepository.
// A no-op write takes SQLite's reserved lock, so the rest of the transaction runs alone.
func (r *scheduleRepository) Lock(ctx context.Context, employeeID string) error {
	q := getQuerier(ctx, r.db)

	if _, err := q.ExecContext(ctx, `UPDATE employees SET updated_at = updated_at WHERE id = ?`, employeeID); err != nil {
		return fmt.Errorf("failed to lock schedule for employee %s: %w", employeeID, err)
	}
	return nil
}
