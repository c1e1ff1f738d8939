package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
)

// AbsenceSweeper closes out a finished day for every active employee.
type AbsenceSweeper interface {
	SweepDay(ctx context.Context, date string) (attendance.SweepResult, error)
}

type AttendanceJobs struct {
	sweeper AbsenceSweeper
	loc     *time.Location
	now     func() time.Time
}

func NewAttendanceJobs(sweeper AbsenceSweeper, loc *time.Location) *AttendanceJobs {
	return &AttendanceJobs{
		sweeper: sweeper,
		loc:     loc,
		now:     time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, spec string) error {
	return scheduler.AddJob("mark_absent_employees", spec, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees records yesterday (tenant-local) as absent or holiday for
// every active employee who has no record for it.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	yesterday := j.now().In(j.loc).AddDate(0, 0, -1).Format(attendance.DateLayout)

	slog.Info("Cron: Starting mark absent employees job", "date", yesterday)

	result, err := j.sweeper.SweepDay(ctx, yesterday)
	if err != nil {
		return err
	}

	slog.Info("Cron: Marked absent employees",
		"date", yesterday,
		"absent", result.Absent,
		"holiday", result.Holiday,
		"skipped", result.Skipped,
		"failed", result.Failed)
	return nil
}
