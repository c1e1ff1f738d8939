package attendance

import "errors"

// Attendance domain errors
var (
	// Clock state conflicts
	ErrAlreadyClockedIn  = errors.New("already clocked in today")
	ErrNoClockInFound    = errors.New("no clock-in found for today")
	ErrAlreadyClockedOut = errors.New("already clocked out today")

	// Validation
	ErrInvalidClockTime     = errors.New("time must be HH:MM or HH:MM:SS")
	ErrInvalidStatus        = errors.New("invalid attendance status")
	ErrDateRangeTooLong     = errors.New("date range is too long")
	ErrFutureDateNotAllowed = errors.New("date cannot be in the future")
	ErrDayNotOver           = errors.New("the day is not over yet")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrRecordExists       = errors.New("an attendance record already exists for this date")
	ErrBackendUnavailable = errors.New("attendance store unavailable")
)
