package attendance

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/biopulse/attendance-backend-go/internal/domain/verification"
	"github.com/biopulse/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

// ClockRequest is shared by clock-in and clock-out.
type ClockRequest struct {
	EmployeeID        string                `json:"employee_id"`
	Method            verification.Method   `json:"method"`
	Code              string                `json:"code,omitempty"`
	FingerprintSample string                `json:"fingerprint_sample,omitempty"`
	File              multipart.File        `json:"-"`
	FileHeader        *multipart.FileHeader `json:"-"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if !r.Method.Valid() {
		errs.Add("method", verification.ErrInvalidMethod.Error())
	}

	switch r.Method {
	case verification.MethodCode:
		// Compared verbatim with the daily code; no normalization.
		if r.Code == "" {
			errs.Add("code", "code is required")
		}
	case verification.MethodSelfie:
		if r.FileHeader == nil {
			errs.Add("photo", "selfie photo is required")
		} else {
			ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
			if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
				errs.Add("photo", "invalid file type: only jpg, jpeg, png allowed")
			} else if r.FileHeader.Size > 10<<20 {
				errs.Add("photo", "selfie photo size must not exceed 10MB")
			}
		}
	case verification.MethodFingerprint:
		if validator.IsEmpty(r.FingerprintSample) {
			errs.Add("fingerprint_sample", "fingerprint_sample is required")
		}
	}

	return errs.Err()
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Department   *string `json:"department,omitempty"`
	Date         string  `json:"date"`
	TimeIn       *string `json:"time_in,omitempty"`
	TimeOut      *string `json:"time_out,omitempty"`
	Status       Status  `json:"status"`
	Note         *string `json:"note,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// TodayResponse tells the kiosk which action is next for an employee.
type TodayResponse struct {
	Date        string              `json:"date"`
	Record      *AttendanceResponse `json:"record,omitempty"`
	CanClockIn  bool                `json:"can_clock_in"`
	CanClockOut bool                `json:"can_clock_out"`
}

// ========================================
// QUERY DTOs
// ========================================

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, time_in, time_out, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.Status != nil && !Status(*f.Status).Valid() {
		errs.Add("status", "status must be one of: present, late, absent, leave, holiday")
	}

	for field, value := range map[string]*string{"date": f.Date, "start_date": f.StartDate, "end_date": f.EndDate} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs.Add(field, field+" must be in YYYY-MM-DD format")
			}
		}
	}

	if f.StartDate != nil && f.EndDate != nil && *f.StartDate != "" && *f.EndDate != "" && *f.StartDate > *f.EndDate {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	// Sort validation
	if f.SortBy != "" {
		validSortFields := []string{"date", "employee_name", "time_in", "time_out", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs.Add("sort_by", "sort_by must be one of: date, employee_name, time_in, time_out, status")
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs.Add("sort_order", "sort_order must be one of: asc, desc")
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	return errs.Err()
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// RecordLeaveRequest marks an employee-day as leave before anyone clocks.
type RecordLeaveRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Note       *string `json:"note,omitempty"`
}

func (r *RecordLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if r.Note != nil && len(*r.Note) > 500 {
		errs.Add("note", "note must be at most 500 characters")
	}
	return errs.Err()
}

// SweepResult summarizes an end-of-day absence sweep.
type SweepResult struct {
	Date    string `json:"date"`
	Absent  int    `json:"absent"`
	Holiday int    `json:"holiday"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}
