package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/pkg/validator"
)

// SweepDay closes out date: every active employee who had joined by then and has no
// record gets an absent row, or a holiday row when the schedule says so. Existing
// rows are never touched, so running it twice is harmless.
func (a *AttendanceServiceImpl) SweepDay(ctx context.Context, date string) (attendance.SweepResult, error) {
	day, ok := validator.IsValidDate(date)
	if !ok {
		return attendance.SweepResult{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	today := a.recorder.Today()
	if date > today {
		return attendance.SweepResult{}, attendance.ErrFutureDateNotAllowed
	}
	// Absence is decided once the local day has ended.
	if date == today {
		return attendance.SweepResult{}, attendance.ErrDayNotOver
	}

	employees, err := a.employeeRepo.ListActive(ctx)
	if err != nil {
		return attendance.SweepResult{}, backendError(err)
	}

	result := attendance.SweepResult{Date: date}
	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if emp.JoinDate.After(day) {
			result.Skipped++
			continue
		}

		sched, err := a.resolver.Resolve(ctx, emp.ID)
		if err != nil {
			slog.WarnContext(ctx, "absence sweep: schedule unavailable", "employee_id", emp.ID, "error", err)
			result.Failed++
			continue
		}

		status := attendance.StatusAbsent
		note := "marked absent by end-of-day sweep"
		if sched.IsHoliday(date) {
			status = attendance.StatusHoliday
			note = "holiday"
		}

		inserted, err := a.attendanceRepo.InsertIfAbsent(ctx, attendance.AttendanceRecord{
			EmployeeID: emp.ID,
			Date:       date,
			Status:     status,
			Note:       &note,
		})
		switch {
		case err != nil:
			slog.WarnContext(ctx, "absence sweep: insert failed", "employee_id", emp.ID, "error", err)
			result.Failed++
		case !inserted:
			result.Skipped++
		case status == attendance.StatusHoliday:
			result.Holiday++
		default:
			result.Absent++
		}
	}

	if result.Failed > 0 {
		return result, fmt.Errorf("%w: %d of %d employees not swept", attendance.ErrBackendUnavailable, result.Failed, len(employees))
	}
	return result, nil
}
