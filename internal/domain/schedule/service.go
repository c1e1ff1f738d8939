package schedule

import "context"

// Resolver yields the schedule in force for an employee.
type Resolver interface {
	// Resolve returns the stored schedule, or a deterministic fallback when none exists.
	Resolve(ctx context.Context, employeeID string) (Schedule, error)
}

type ScheduleService interface {
	Resolver

	GetSchedule(ctx context.Context, employeeID string) (ScheduleResponse, error)
	UpsertSchedule(ctx context.Context, req UpsertScheduleRequest) (ScheduleResponse, error)
	AddHoliday(ctx context.Context, req HolidayRequest) (ScheduleResponse, error)
	RemoveHoliday(ctx context.Context, req HolidayRequest) (ScheduleResponse, error)
	// DeleteSchedule reverts the employee to the fallback schedule.
	DeleteSchedule(ctx context.Context, employeeID string) error
}
