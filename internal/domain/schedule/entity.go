package schedule

import (
	"slices"
	"time"
)

// Schedule is an employee's expected start of day plus dated holidays.
type Schedule struct {
	EmployeeID      string
	ExpectedClockIn string   // HH:MM
	Holidays        []string // YYYY-MM-DD, sorted, unique
	// Fallback is set when the schedule was derived rather than stored.
	Fallback     bool
	FallbackName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsHoliday reports whether date (YYYY-MM-DD) is one of the schedule's holidays.
func (s Schedule) IsHoliday(date string) bool {
	_, found := slices.BinarySearch(s.Holidays, date)
	return found
}

// NormalizeHolidays sorts and de-duplicates holiday dates in place.
func NormalizeHolidays(dates []string) []string {
	slices.Sort(dates)
	return slices.Compact(dates)
}
