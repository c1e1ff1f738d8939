package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/biopulse/attendance-backend-go/internal/domain/report"
	"github.com/biopulse/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	DailyStats(w http.ResponseWriter, r *http.Request)
	AttendanceReport(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func reportRequestFromQuery(r *http.Request) report.AttendanceReportRequest {
	query := r.URL.Query()
	req := report.AttendanceReportRequest{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
	if employeeID := query.Get("employee_id"); employeeID != "" {
		req.EmployeeID = &employeeID
	}
	return req
}

// DailyStats handles GET /reports/daily?date=YYYY-MM-DD
func (h *reportHandlerImpl) DailyStats(w http.ResponseWriter, r *http.Request) {
	req := report.DailyStatsRequest{Date: r.URL.Query().Get("date")}

	result, err := h.reportService.DailyStats(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AttendanceReport handles GET /reports/attendance?start_date=&end_date=&employee_id=
func (h *reportHandlerImpl) AttendanceReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.AttendanceReport(r.Context(), reportRequestFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export handles GET /reports/attendance/export?format=csv|xlsx
// The file is built in memory first so a failure still yields a JSON error.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := reportRequestFromQuery(r)
	format := report.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = report.FormatCSV
	}

	var buf bytes.Buffer
	if err := h.reportService.Export(r.Context(), req, format, &buf); err != nil {
		slog.Error("Report export failed", "format", format, "error", err)
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.%s", req.StartDate, req.EndDate, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write report export", "error", err)
	}
}
