package schedule

import (
	"github.com/biopulse/attendance-backend-go/internal/pkg/validator"
)

// MaxHolidays bounds the holiday list of a single schedule.
const MaxHolidays = 366

type UpsertScheduleRequest struct {
	EmployeeID      string   `json:"-"`
	ExpectedClockIn *string  `json:"expected_clock_in,omitempty" validate:"omitempty,clocktime"`
	Holidays        []string `json:"holidays" validate:"omitempty,max=366,dive,isodate"`
}

func (r *UpsertScheduleRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, fieldErrs...)
	}
	return errs.Err()
}

type HolidayRequest struct {
	EmployeeID string `json:"-"`
	Date       string `json:"date"`
}

func (r *HolidayRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	return errs.Err()
}

type ScheduleResponse struct {
	EmployeeID      string   `json:"employee_id"`
	ExpectedClockIn string   `json:"expected_clock_in"`
	Holidays        []string `json:"holidays"`
	IsFallback      bool     `json:"is_fallback"`
	FallbackName    *string  `json:"fallback_name,omitempty"`
	UpdatedAt       *string  `json:"updated_at,omitempty"`
}
