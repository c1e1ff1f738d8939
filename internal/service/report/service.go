package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
	"github.com/biopulse/attendance-backend-go/internal/domain/report"
	"github.com/biopulse/attendance-backend-go/internal/domain/schedule"
	attendanceservice "github.com/biopulse/attendance-backend-go/internal/service/attendance"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	resolver       schedule.Resolver
	deductions     attendanceservice.DeductionCalculator
	loc            *time.Location
	now            func() time.Time
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	resolver schedule.Resolver,
	deductions attendanceservice.DeductionCalculator,
	loc *time.Location,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		resolver:       resolver,
		deductions:     deductions,
		loc:            loc,
		now:            time.Now,
	}
}

func (s *ReportServiceImpl) today() string {
	return s.now().In(s.loc).Format(attendance.DateLayout)
}

// DailyStats implements report.ReportService.
func (s *ReportServiceImpl) DailyStats(ctx context.Context, req report.DailyStatsRequest) (report.DailyStats, error) {
	if err := req.Validate(); err != nil {
		return report.DailyStats{}, err
	}
	if req.Date == "" {
		req.Date = s.today()
	}

	stats := report.DailyStats{Date: req.Date}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.employeeRepo.CountActive(gCtx)
		if err != nil {
			return fmt.Errorf("count employees: %w", err)
		}
		stats.TotalEmployees = total
		return nil
	})

	counters := map[attendance.Status]*int64{
		attendance.StatusPresent: &stats.Present,
		attendance.StatusLate:    &stats.Late,
		attendance.StatusLeave:   &stats.Leave,
		attendance.StatusHoliday: &stats.Holiday,
	}
	for status, dst := range counters {
		g.Go(func() error {
			n, err := s.attendanceRepo.CountByStatus(gCtx, req.Date, status)
			if err != nil {
				return fmt.Errorf("count %s: %w", status, err)
			}
			*dst = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report.DailyStats{}, fmt.Errorf("%w: %w", attendance.ErrBackendUnavailable, err)
	}

	// Anyone without a present, late, leave or holiday row counts as absent,
	// whether or not the sweep has written their absent row yet.
	stats.Absent = max(0, stats.TotalEmployees-(stats.Present+stats.Late+stats.Leave+stats.Holiday))
	return stats, nil
}

// AttendanceReport implements report.ReportService.
// Days without a record are filled in as holiday or absent, except today, which is
// not over yet, and days before the employee joined.
func (s *ReportServiceImpl) AttendanceReport(ctx context.Context, req report.AttendanceReportRequest) (report.AttendanceReport, error) {
	if err := req.Validate(); err != nil {
		return report.AttendanceReport{}, err
	}
	today := s.today()
	if req.EndDate > today {
		return report.AttendanceReport{}, attendance.ErrFutureDateNotAllowed
	}

	employees, err := s.reportEmployees(ctx, req.EmployeeID)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	records, err := s.attendanceRepo.ListByDateRange(ctx, req.StartDate, req.EndDate, req.EmployeeID)
	if err != nil {
		return report.AttendanceReport{}, fmt.Errorf("%w: %w", attendance.ErrBackendUnavailable, err)
	}
	byKey := make(map[string]attendance.AttendanceRecord, len(records))
	for _, rec := range records {
		byKey[rec.EmployeeID+"|"+rec.Date] = rec
	}

	dates := dateRange(req.StartDate, req.EndDate)
	result := report.AttendanceReport{
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		GeneratedAt:    s.now().In(s.loc).Format(time.RFC3339),
		Currency:       s.deductions.Currency(),
		Employees:      make([]report.EmployeeSummary, 0, len(employees)),
		Rows:           make([]report.ReportRow, 0, len(employees)*len(dates)),
		TotalDeduction: decimal.Zero,
	}

	for _, emp := range employees {
		sched, err := s.resolver.Resolve(ctx, emp.ID)
		if err != nil {
			return report.AttendanceReport{}, fmt.Errorf("%w: %w", attendance.ErrBackendUnavailable, err)
		}

		sum := summary{
			EmployeeID:     emp.ID,
			EmployeeName:   emp.Name,
			Department:     emp.Department,
			TotalDeduction: decimal.Zero,
		}
		joined := emp.JoinDate.Format(attendance.DateLayout)

		for _, date := range dates {
			row := report.ReportRow{
				EmployeeID:   emp.ID,
				EmployeeName: emp.Name,
				Department:   emp.Department,
				Date:         date,
			}
			isHoliday := sched.IsHoliday(date)

			if rec, ok := byKey[emp.ID+"|"+date]; ok {
				row.Status = rec.Status
				row.TimeIn = s.clock(rec.TimeIn)
				row.TimeOut = s.clock(rec.TimeOut)
				row.Note = rec.Note
				isHoliday = isHoliday || rec.Status == attendance.StatusHoliday
			} else {
				if date < joined || date >= today {
					continue
				}
				row.Synthesized = true
				row.Status = attendance.StatusAbsent
				if isHoliday {
					row.Status = attendance.StatusHoliday
				}
			}

			row.Deduction = s.deductions.Deduction(row.Status, isHoliday)
			sum.add(row)
			result.Rows = append(result.Rows, row)
		}

		result.TotalDeduction = result.TotalDeduction.Add(sum.TotalDeduction)
		result.Employees = append(result.Employees, report.EmployeeSummary(sum))
	}

	return result, nil
}

// reportEmployees lists active employees by name, or the single requested one
// (removed employees included, so their history stays reportable).
func (s *ReportServiceImpl) reportEmployees(ctx context.Context, employeeID *string) ([]employee.Employee, error) {
	if employeeID != nil {
		emp, err := s.employeeRepo.GetByID(ctx, *employeeID)
		if err != nil {
			return nil, err
		}
		return []employee.Employee{emp}, nil
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", attendance.ErrBackendUnavailable, err)
	}
	sort.SliceStable(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })
	return employees, nil
}

func (s *ReportServiceImpl) clock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(s.loc).Format(time.TimeOnly)
	return &formatted
}

type summary report.EmployeeSummary

func (sum *summary) add(row report.ReportRow) {
	switch row.Status {
	case attendance.StatusPresent:
		sum.Present++
	case attendance.StatusLate:
		sum.Late++
	case attendance.StatusAbsent:
		sum.Absent++
	case attendance.StatusLeave:
		sum.Leave++
	case attendance.StatusHoliday:
		sum.Holiday++
	}
	sum.TotalDeduction = sum.TotalDeduction.Add(row.Deduction)
}

// dateRange lists every YYYY-MM-DD from start to end inclusive. Inputs are pre-validated.
func dateRange(start, end string) []string {
	from, _ := time.Parse(attendance.DateLayout, start)
	to, _ := time.Parse(attendance.DateLayout, end)

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(attendance.DateLayout))
	}
	return dates
}

var _ report.ReportService = (*ReportServiceImpl)(nil)
