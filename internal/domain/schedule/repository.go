package schedule

import "context"

type ScheduleRepository interface {
	// GetByEmployeeID returns ErrScheduleNotFound when the employee has no stored schedule.
	GetByEmployeeID(ctx context.Context, employeeID string) (Schedule, error)
	Upsert(ctx context.Context, s Schedule) (Schedule, error)
	Delete(ctx context.Context, employeeID string) error

	// Lock blocks other schedule edits for employeeID until the caller's transaction ends.
	Lock(ctx context.Context, employeeID string) error
}
