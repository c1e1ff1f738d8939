package report

import "errors"

var (
	ErrInvalidDateRange       = errors.New("end date must not be before start date")
	ErrDateRangeTooLong       = errors.New("date range must not exceed 92 days")
	ErrUnsupportedFormat      = errors.New("format must be one of: csv, xlsx")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
