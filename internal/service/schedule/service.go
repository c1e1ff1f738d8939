package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/config"
	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
	"github.com/biopulse/attendance-backend-go/internal/domain/schedule"
	"github.com/biopulse/attendance-backend-go/internal/domain/settings"
	"github.com/biopulse/attendance-backend-go/internal/pkg/database"
)

type ScheduleServiceImpl struct {
	transactor   database.Transactor
	scheduleRepo schedule.ScheduleRepository
	employeeRepo employee.EmployeeRepository
	settingsRepo settings.SettingsRepository
	catalogue    []schedule.Schedule
}

// NewScheduleService validates the fallback catalogue once so Resolve never has to.
func NewScheduleService(
	transactor database.Transactor,
	scheduleRepo schedule.ScheduleRepository,
	employeeRepo employee.EmployeeRepository,
	settingsRepo settings.SettingsRepository,
	fallbacks []config.FallbackSchedule,
) (*ScheduleServiceImpl, error) {
	if len(fallbacks) == 0 {
		return nil, schedule.ErrEmptyCatalogue
	}

	catalogue := make([]schedule.Schedule, 0, len(fallbacks))
	for _, fb := range fallbacks {
		clockIn, err := attendance.ParseClockTime(fb.ExpectedClockIn)
		if err != nil {
			return nil, fmt.Errorf("fallback schedule %q: %w", fb.Name, err)
		}
		catalogue = append(catalogue, schedule.Schedule{
			ExpectedClockIn: clockIn.String(),
			Holidays:        schedule.NormalizeHolidays(slices.Clone(fb.Holidays)),
			Fallback:        true,
			FallbackName:    fb.Name,
		})
	}

	return &ScheduleServiceImpl{
		transactor:   transactor,
		scheduleRepo: scheduleRepo,
		employeeRepo: employeeRepo,
		settingsRepo: settingsRepo,
		catalogue:    catalogue,
	}, nil
}

// Resolve implements schedule.Resolver.
func (s *ScheduleServiceImpl) Resolve(ctx context.Context, employeeID string) (schedule.Schedule, error) {
	stored, err := s.scheduleRepo.GetByEmployeeID(ctx, employeeID)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, schedule.ErrScheduleNotFound) {
		return schedule.Schedule{}, fmt.Errorf("failed to resolve schedule: %w", err)
	}
	return s.fallback(employeeID), nil
}

// fallback picks a catalogue entry from the last byte of the id. Empty ids map to entry 0.
func (s *ScheduleServiceImpl) fallback(employeeID string) schedule.Schedule {
	idx := 0
	if n := len(employeeID); n > 0 {
		idx = int(employeeID[n-1]) % len(s.catalogue)
	}

	fb := s.catalogue[idx]
	fb.EmployeeID = employeeID
	fb.Holidays = slices.Clone(fb.Holidays)
	return fb
}

// GetSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) GetSchedule(ctx context.Context, employeeID string) (schedule.ScheduleResponse, error) {
	if employeeID == "" {
		return schedule.ScheduleResponse{}, schedule.ErrEmployeeIDRequired
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	resolved, err := s.Resolve(ctx, employeeID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return mapScheduleToResponse(resolved), nil
}

// UpsertSchedule implements schedule.ScheduleService.
// Omitted fields keep the stored values; a new schedule without an expected time
// takes the configured default.
func (s *ScheduleServiceImpl) UpsertSchedule(ctx context.Context, req schedule.UpsertScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if err := s.requireActiveEmployee(ctx, req.EmployeeID); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	var saved schedule.Schedule
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.scheduleRepo.Lock(ctx, req.EmployeeID); err != nil {
			return err
		}

		next := schedule.Schedule{EmployeeID: req.EmployeeID, Holidays: []string{}}
		current, err := s.scheduleRepo.GetByEmployeeID(ctx, req.EmployeeID)
		switch {
		case err == nil:
			next.ExpectedClockIn = current.ExpectedClockIn
			next.Holidays = current.Holidays
		case errors.Is(err, schedule.ErrScheduleNotFound):
			next.ExpectedClockIn = s.defaultClockIn(ctx)
		default:
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		if req.ExpectedClockIn != nil {
			clockIn, err := attendance.ParseClockTime(*req.ExpectedClockIn)
			if err != nil {
				return err
			}
			next.ExpectedClockIn = clockIn.String()
		}
		if req.Holidays != nil {
			next.Holidays = schedule.NormalizeHolidays(slices.Clone(req.Holidays))
		}

		saved, err = s.scheduleRepo.Upsert(ctx, next)
		if err != nil {
			return fmt.Errorf("failed to save schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return mapScheduleToResponse(saved), nil
}

// AddHoliday implements schedule.ScheduleService.
// An employee on a fallback schedule gets the fallback stored with the extra date.
func (s *ScheduleServiceImpl) AddHoliday(ctx context.Context, req schedule.HolidayRequest) (schedule.ScheduleResponse, error) {
	return s.editHolidays(ctx, req, func(current []string) ([]string, error) {
		if slices.Contains(current, req.Date) {
			return nil, schedule.ErrHolidayExists
		}
		if len(current) >= schedule.MaxHolidays {
			return nil, schedule.ErrTooManyHolidays
		}
		return append(current, req.Date), nil
	})
}

// RemoveHoliday implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) RemoveHoliday(ctx context.Context, req schedule.HolidayRequest) (schedule.ScheduleResponse, error) {
	return s.editHolidays(ctx, req, func(current []string) ([]string, error) {
		idx := slices.Index(current, req.Date)
		if idx < 0 {
			return nil, schedule.ErrHolidayNotFound
		}
		return slices.Delete(current, idx, idx+1), nil
	})
}

func (s *ScheduleServiceImpl) editHolidays(ctx context.Context, req schedule.HolidayRequest, edit func([]string) ([]string, error)) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if err := s.requireActiveEmployee(ctx, req.EmployeeID); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	// Concurrent edits must not overwrite each other's dates.
	var saved schedule.Schedule
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.scheduleRepo.Lock(ctx, req.EmployeeID); err != nil {
			return err
		}

		current, err := s.Resolve(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		holidays, err := edit(slices.Clone(current.Holidays))
		if err != nil {
			return err
		}

		saved, err = s.scheduleRepo.Upsert(ctx, schedule.Schedule{
			EmployeeID:      req.EmployeeID,
			ExpectedClockIn: current.ExpectedClockIn,
			Holidays:        schedule.NormalizeHolidays(holidays),
		})
		if err != nil {
			return fmt.Errorf("failed to save schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return mapScheduleToResponse(saved), nil
}

// DeleteSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) DeleteSchedule(ctx context.Context, employeeID string) error {
	if employeeID == "" {
		return schedule.ErrEmployeeIDRequired
	}
	return s.scheduleRepo.Delete(ctx, employeeID)
}

func (s *ScheduleServiceImpl) requireActiveEmployee(ctx context.Context, employeeID string) error {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if !emp.Active() {
		return employee.ErrEmployeeDeleted
	}
	return nil
}

func (s *ScheduleServiceImpl) defaultClockIn(ctx context.Context) string {
	stored, err := s.settingsRepo.GetVerification(ctx)
	if err != nil {
		if !errors.Is(err, settings.ErrSettingsNotFound) {
			slog.WarnContext(ctx, "failed to read default clock-in time", "error", err)
		}
		return settings.DefaultClockInTime
	}
	if stored.DefaultClockInTime == nil {
		return settings.DefaultClockInTime
	}
	clockIn, err := attendance.ParseClockTime(*stored.DefaultClockInTime)
	if err != nil {
		slog.WarnContext(ctx, "stored default clock-in time is malformed", "value", *stored.DefaultClockInTime)
		return settings.DefaultClockInTime
	}
	return clockIn.String()
}

func mapScheduleToResponse(s schedule.Schedule) schedule.ScheduleResponse {
	resp := schedule.ScheduleResponse{
		EmployeeID:      s.EmployeeID,
		ExpectedClockIn: s.ExpectedClockIn,
		Holidays:        s.Holidays,
		IsFallback:      s.Fallback,
	}
	if resp.Holidays == nil {
		resp.Holidays = []string{}
	}
	if s.Fallback {
		name := s.FallbackName
		resp.FallbackName = &name
	} else {
		updated := s.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &updated
	}
	return resp
}

var _ schedule.ScheduleService = (*ScheduleServiceImpl)(nil)
