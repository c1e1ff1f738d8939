package report

import (
	"context"
	"io"
)

// ReportService defines the interface for report generation
type ReportService interface {
	// DailyStats counts the day's statuses; absent covers employees with no record yet
	DailyStats(ctx context.Context, req DailyStatsRequest) (DailyStats, error)

	// AttendanceReport lists every employee-day in the range with its deduction
	AttendanceReport(ctx context.Context, req AttendanceReportRequest) (AttendanceReport, error)

	// Export writes the attendance report to w in the requested format
	Export(ctx context.Context, req AttendanceReportRequest, format ExportFormat, w io.Writer) error
}
