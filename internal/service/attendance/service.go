package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
	"github.com/biopulse/attendance-backend-go/internal/domain/schedule"
	"github.com/biopulse/attendance-backend-go/internal/domain/verification"
)

// maxSelfieBytes mirrors the request validation limit.
const maxSelfieBytes = 10 << 20

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	resolver       schedule.Resolver
	verifier       verification.VerificationService
	recorder       *Recorder
	loc            *time.Location
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	resolver schedule.Resolver,
	verifier verification.VerificationService,
	classifier Classifier,
	loc *time.Location,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		resolver:       resolver,
		verifier:       verifier,
		recorder:       NewRecorder(attendanceRepo, resolver, classifier, loc),
		loc:            loc,
	}
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockRequest) (attendance.AttendanceResponse, error) {
	emp, err := a.verify(ctx, &req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.recorder.ClockIn(ctx, emp.ID, req.Method)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.mapAttendanceToResponse(withEmployee(rec, emp)), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockRequest) (attendance.AttendanceResponse, error) {
	emp, err := a.verify(ctx, &req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.recorder.ClockOut(ctx, emp.ID, req.Method)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.mapAttendanceToResponse(withEmployee(rec, emp)), nil
}

// verify runs every check that must pass before anything is written.
func (a *AttendanceServiceImpl) verify(ctx context.Context, req *attendance.ClockRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	emp, err := a.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return employee.Employee{}, err
	}

	evidence := verification.Evidence{
		Code:              req.Code,
		FingerprintSample: req.FingerprintSample,
	}
	if req.Method == verification.MethodSelfie && req.File != nil {
		image, err := io.ReadAll(io.LimitReader(req.File, maxSelfieBytes))
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to read selfie: %w", err)
		}
		evidence.Selfie = image
		evidence.SelfieFilename = req.FileHeader.Filename
	}

	if err := a.verifier.Verify(ctx, emp, req.Method, evidence); err != nil {
		return employee.Employee{}, err
	}
	return emp, nil
}

func (a *AttendanceServiceImpl) activeEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := a.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, backendError(err)
	}
	if !emp.Active() {
		return employee.Employee{}, employee.ErrEmployeeDeleted
	}
	return emp, nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context, employeeID string) (attendance.TodayResponse, error) {
	emp, err := a.activeEmployee(ctx, employeeID)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	date := a.recorder.Today()
	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.TodayResponse{}, backendError(err)
	}

	resp := attendance.TodayResponse{Date: date, CanClockIn: true}
	if rec != nil {
		mapped := a.mapAttendanceToResponse(withEmployee(*rec, emp))
		resp.Record = &mapped
		resp.CanClockIn = !rec.ClockedIn()
		resp.CanClockOut = rec.ClockedIn() && !rec.ClockedOut()
	}
	return resp, nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, backendError(err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, a.mapAttendanceToResponse(rec))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: responses,
	}, nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	rec, err := a.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, backendError(err)
	}
	return a.mapAttendanceToResponse(rec), nil
}

// RecordLeave implements attendance.AttendanceService.
// A later clock-in on the same day claims the row and replaces the status.
func (a *AttendanceServiceImpl) RecordLeave(ctx context.Context, req attendance.RecordLeaveRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	inserted, err := a.attendanceRepo.InsertIfAbsent(ctx, attendance.AttendanceRecord{
		EmployeeID: emp.ID,
		Date:       req.Date,
		Status:     attendance.StatusLeave,
		Note:       req.Note,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, backendError(err)
	}
	if !inserted {
		return attendance.AttendanceResponse{}, attendance.ErrRecordExists
	}

	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, backendError(err)
	}
	if rec == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}
	return a.mapAttendanceToResponse(withEmployee(*rec, emp)), nil
}

func withEmployee(rec attendance.AttendanceRecord, emp employee.Employee) attendance.AttendanceRecord {
	rec.EmployeeName = &emp.Name
	rec.EmployeeDepartment = &emp.Department
	return rec
}

// mapAttendanceToResponse renders timestamps in the tenant timezone.
func (a *AttendanceServiceImpl) mapAttendanceToResponse(rec attendance.AttendanceRecord) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		Department:   rec.EmployeeDepartment,
		Date:         rec.Date,
		TimeIn:       a.formatTime(rec.TimeIn),
		TimeOut:      a.formatTime(rec.TimeOut),
		Status:       rec.Status,
		Note:         rec.Note,
		CreatedAt:    rec.CreatedAt.In(a.loc).Format(time.RFC3339),
		UpdatedAt:    rec.UpdatedAt.In(a.loc).Format(time.RFC3339),
	}
}

func (a *AttendanceServiceImpl) formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(a.loc).Format(time.RFC3339)
	return &formatted
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
