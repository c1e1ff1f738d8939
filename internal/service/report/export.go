package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/biopulse/attendance-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

var rowHeader = []string{
	"Employee ID", "Employee", "Department", "Date", "Status",
	"Time In", "Time Out", "Deduction", "Synthesized", "Note",
}

var summaryHeader = []string{
	"Employee ID", "Employee", "Department",
	"Present", "Late", "Absent", "Leave", "Holiday", "Total Deduction",
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.AttendanceReportRequest, format report.ExportFormat, w io.Writer) error {
	if !format.Valid() {
		return report.ErrUnsupportedFormat
	}

	result, err := s.AttendanceReport(ctx, req)
	if err != nil {
		return err
	}

	switch format {
	case report.FormatXLSX:
		err = writeXLSX(result, w)
	default:
		err = writeCSV(result, w)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
	}
	return nil
}

func rowValues(row report.ReportRow) []string {
	return []string{
		row.EmployeeID,
		row.EmployeeName,
		row.Department,
		row.Date,
		string(row.Status),
		deref(row.TimeIn),
		deref(row.TimeOut),
		row.Deduction.StringFixed(2),
		fmt.Sprint(row.Synthesized),
		deref(row.Note),
	}
}

func writeCSV(result report.AttendanceReport, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rowHeader); err != nil {
		return err
	}
	for _, row := range result.Rows {
		if err := cw.Write(rowValues(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(result report.AttendanceReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	const rowsSheet, summarySheet = "Attendance", "Summary"
	if err := f.SetSheetName("Sheet1", rowsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	if err := writeHeader(f, rowsSheet, rowHeader, headerStyle); err != nil {
		return err
	}
	for i, row := range result.Rows {
		values := rowValues(row)
		cells := make([]any, len(values))
		for j, v := range values {
			cells[j] = v
		}
		// Deduction stays numeric so totals can be summed in the sheet.
		cells[7] = row.Deduction.InexactFloat64()
		if err := f.SetSheetRow(rowsSheet, cellName(1, i+2), &cells); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(rowsSheet, "A", "C", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(rowsSheet, "J", "J", 40); err != nil {
		return err
	}

	if err := writeHeader(f, summarySheet, summaryHeader, headerStyle); err != nil {
		return err
	}
	for i, emp := range result.Employees {
		cells := []any{
			emp.EmployeeID, emp.EmployeeName, emp.Department,
			emp.Present, emp.Late, emp.Absent, emp.Leave, emp.Holiday,
			emp.TotalDeduction.InexactFloat64(),
		}
		if err := f.SetSheetRow(summarySheet, cellName(1, i+2), &cells); err != nil {
			return err
		}
	}
	totalRow := len(result.Employees) + 2
	totals := []any{"Total (" + result.Currency + ")", "", "", "", "", "", "", "", result.TotalDeduction.InexactFloat64()}
	if err := f.SetSheetRow(summarySheet, cellName(1, totalRow), &totals); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "C", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "I", "I", 18); err != nil {
		return err
	}

	return f.Write(w)
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", cellName(len(header), 1), style)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
