package schedule

import "errors"

var (
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrHolidayExists      = errors.New("holiday already on schedule")
	ErrHolidayNotFound    = errors.New("holiday not on schedule")
	ErrTooManyHolidays    = errors.New("schedule already has the maximum number of holidays")
	ErrEmployeeIDRequired = errors.New("employee ID is required")
	ErrEmptyCatalogue     = errors.New("fallback schedule catalogue is empty")
)
