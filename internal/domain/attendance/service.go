package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn verifies the employee and opens today's record
	ClockIn(ctx context.Context, req ClockRequest) (AttendanceResponse, error)

	// ClockOut verifies the employee and closes today's record
	ClockOut(ctx context.Context, req ClockRequest) (AttendanceResponse, error)

	// GetToday reports the employee's record for the current local date
	GetToday(ctx context.Context, employeeID string) (TodayResponse, error)

	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// RecordLeave creates a leave record for a day that has none
	RecordLeave(ctx context.Context, req RecordLeaveRequest) (AttendanceResponse, error)

	// SweepDay inserts absent or holiday rows for active employees with no record on date
	SweepDay(ctx context.Context, date string) (SweepResult, error)
}
