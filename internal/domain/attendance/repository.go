package attendance

import (
	"context"
)

// AttendanceRepository persists one record per (employee, date). The clock
// operations are single conditional writes so concurrent requests for the same
// key cannot both succeed.
type AttendanceRepository interface {
	// ClockIn inserts rec, or fills an existing row for the same key that has no
	// clock-in yet. Returns ErrAlreadyClockedIn when a clock-in is already stored.
	ClockIn(ctx context.Context, rec AttendanceRecord) (AttendanceRecord, error)

	// ClockOut sets the clock-out of a clocked-in, not yet clocked-out row and
	// appends note. Returns ErrNoClockInFound or ErrAlreadyClockedOut otherwise.
	ClockOut(ctx context.Context, employeeID string, date string, rec AttendanceRecord) (AttendanceRecord, error)

	// InsertIfAbsent creates rec unless a row for its key exists. Reports whether it inserted.
	InsertIfAbsent(ctx context.Context, rec AttendanceRecord) (bool, error)

	// GetByEmployeeAndDate returns nil, nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*AttendanceRecord, error)

	GetByID(ctx context.Context, id string) (AttendanceRecord, error)

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceRecord, int64, error)

	// ListByDateRange returns every record in [from, to], optionally for one employee.
	ListByDateRange(ctx context.Context, from, to string, employeeID *string) ([]AttendanceRecord, error)

	// CountByStatus counts records of status on date, for employees that are not deleted.
	CountByStatus(ctx context.Context, date string, status Status) (int64, error)
}
