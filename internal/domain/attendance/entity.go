package attendance

import (
	"time"
)

// Status is the classification of one employee-day.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
	StatusHoliday Status = "holiday"
)

var AllStatuses = []Status{StatusPresent, StatusLate, StatusAbsent, StatusLeave, StatusHoliday}

func (s Status) Valid() bool {
	for _, status := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// DateLayout is the layout of AttendanceRecord.Date, a tenant-local calendar date.
const DateLayout = "2006-01-02"

// AttendanceRecord is the single row kept per employee per local date.
// TimeOut is only ever set after TimeIn, and never earlier than it.
type AttendanceRecord struct {
	ID         string
	EmployeeID string
	Date       string
	TimeIn     *time.Time
	TimeOut    *time.Time
	Status     Status
	Note       *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName       *string
	EmployeeDepartment *string
}

func (r AttendanceRecord) ClockedIn() bool {
	return r.TimeIn != nil
}

func (r AttendanceRecord) ClockedOut() bool {
	return r.TimeOut != nil
}
