package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/domain/schedule"
	"github.com/biopulse/attendance-backend-go/internal/domain/verification"
)

// Recorder moves an employee-day through NoRecord -> ClockedIn -> Complete. Every
// transition is a single conditional write on (employee_id, date).
type Recorder struct {
	repo       attendance.AttendanceRepository
	resolver   schedule.Resolver
	classifier Classifier
	loc        *time.Location
	now        func() time.Time
}

func NewRecorder(repo attendance.AttendanceRepository, resolver schedule.Resolver, classifier Classifier, loc *time.Location) *Recorder {
	return &Recorder{
		repo:       repo,
		resolver:   resolver,
		classifier: classifier,
		loc:        loc,
		now:        time.Now,
	}
}

// ClockIn opens today's record with a status classified against the employee's schedule.
func (r *Recorder) ClockIn(ctx context.Context, employeeID string, method verification.Method) (attendance.AttendanceRecord, error) {
	now := r.now()
	local := now.In(r.loc)
	date := local.Format(attendance.DateLayout)

	sched, err := r.resolver.Resolve(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceRecord{}, backendError(err)
	}

	status, err := r.classifier.Classify(local.Format("15:04:05"), sched.ExpectedClockIn, sched.IsHoliday(date), true)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	note := "clock-in via " + string(method)
	rec, err := r.repo.ClockIn(ctx, attendance.AttendanceRecord{
		EmployeeID: employeeID,
		Date:       date,
		TimeIn:     &now,
		Status:     status,
		Note:       &note,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			return attendance.AttendanceRecord{}, err
		}
		return attendance.AttendanceRecord{}, backendError(err)
	}
	return rec, nil
}

// ClockOut closes today's record. Only the local date of now is considered.
func (r *Recorder) ClockOut(ctx context.Context, employeeID string, method verification.Method) (attendance.AttendanceRecord, error) {
	now := r.now()
	date := now.In(r.loc).Format(attendance.DateLayout)

	note := "clock-out via " + string(method)
	rec, err := r.repo.ClockOut(ctx, employeeID, date, attendance.AttendanceRecord{
		TimeOut: &now,
		Note:    &note,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrNoClockInFound) || errors.Is(err, attendance.ErrAlreadyClockedOut) {
			return attendance.AttendanceRecord{}, err
		}
		return attendance.AttendanceRecord{}, backendError(err)
	}
	return rec, nil
}

// Today returns the local date a clock action taken now would apply to.
func (r *Recorder) Today() string {
	return r.now().In(r.loc).Format(attendance.DateLayout)
}

func backendError(err error) error {
	if errors.Is(err, attendance.ErrBackendUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", attendance.ErrBackendUnavailable, err)
}
