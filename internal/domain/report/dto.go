package report

import (
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxRangeDays bounds a single report request.
const MaxRangeDays = 92

// ========================================
// DAILY STATS
// ========================================

type DailyStatsRequest struct {
	// Date defaults to today in the tenant timezone.
	Date string `json:"date"`
}

func (r *DailyStatsRequest) Validate() error {
	if r.Date == "" {
		return nil
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	return nil
}

type DailyStats struct {
	Date           string `json:"date"`
	TotalEmployees int64  `json:"total_employees"`
	Present        int64  `json:"present"`
	Late           int64  `json:"late"`
	Absent         int64  `json:"absent"`
	Leave          int64  `json:"leave"`
	Holiday        int64  `json:"holiday"`
}

// ========================================
// ATTENDANCE REPORT
// ========================================

type AttendanceReportRequest struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (r *AttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if len(errs) > 0 {
		return errs
	}

	if end.Before(start) {
		errs.Add("end_date", ErrInvalidDateRange.Error())
	} else if int(end.Sub(start)/(24*time.Hour))+1 > MaxRangeDays {
		errs.Add("end_date", ErrDateRangeTooLong.Error())
	}

	return errs.Err()
}

type ReportRow struct {
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	Department   string            `json:"department"`
	Date         string            `json:"date"`
	TimeIn       *string           `json:"time_in,omitempty"`
	TimeOut      *string           `json:"time_out,omitempty"`
	Status       attendance.Status `json:"status"`
	Deduction    decimal.Decimal   `json:"deduction"`
	// Synthesized marks days with no stored record.
	Synthesized bool    `json:"synthesized"`
	Note        *string `json:"note,omitempty"`
}

type EmployeeSummary struct {
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	Department     string          `json:"department"`
	Present        int             `json:"present"`
	Late           int             `json:"late"`
	Absent         int             `json:"absent"`
	Leave          int             `json:"leave"`
	Holiday        int             `json:"holiday"`
	TotalDeduction decimal.Decimal `json:"total_deduction"`
}

type AttendanceReport struct {
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	GeneratedAt    string            `json:"generated_at"`
	Currency       string            `json:"currency"`
	Employees      []EmployeeSummary `json:"employees"`
	Rows           []ReportRow       `json:"rows"`
	TotalDeduction decimal.Decimal   `json:"total_deduction"`
}

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) Valid() bool {
	return f == FormatCSV || f == FormatXLSX
}

func (f ExportFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}
