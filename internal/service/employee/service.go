package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
	"github.com/biopulse/attendance-backend-go/internal/domain/schedule"
	"github.com/biopulse/attendance-backend-go/internal/pkg/database"
	"github.com/biopulse/attendance-backend-go/internal/pkg/validator"
	"github.com/biopulse/attendance-backend-go/internal/service/file"
)

type EmployeeServiceImpl struct {
	transactor   database.Transactor
	employeeRepo employee.EmployeeRepository
	scheduleRepo schedule.ScheduleRepository
	fileService  file.FileService
}

func NewEmployeeService(
	transactor database.Transactor,
	employeeRepo employee.EmployeeRepository,
	scheduleRepo schedule.ScheduleRepository,
	fileService file.FileService,
) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		transactor:   transactor,
		employeeRepo: employeeRepo,
		scheduleRepo: scheduleRepo,
		fileService:  fileService,
	}
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
// The employee and an optional schedule are written in one transaction.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	joinDate, _ := validator.IsValidDate(req.JoinDate)
	newEmployee := employee.Employee{
		Name:        req.Name,
		Position:    req.Position,
		Department:  req.Department,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		JoinDate:    joinDate,
	}
	if req.DateOfBirth != nil {
		dob, _ := validator.IsValidDate(*req.DateOfBirth)
		newEmployee.DateOfBirth = &dob
	}

	var clockIn string
	if req.ExpectedClockIn != nil {
		parsed, err := attendance.ParseClockTime(*req.ExpectedClockIn)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		clockIn = parsed.String()
	}

	exists, err := s.employeeRepo.ExistsByEmail(ctx, req.Email, nil)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	}

	var created employee.Employee
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.employeeRepo.Create(txCtx, newEmployee)
		if err != nil {
			return err
		}

		if clockIn == "" {
			return nil
		}
		_, err = s.scheduleRepo.Upsert(txCtx, schedule.Schedule{
			EmployeeID:      created.ID,
			ExpectedClockIn: clockIn,
			Holidays:        []string{},
		})
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.InfoContext(ctx, "employee created", "employee_id", created.ID, "with_schedule", clockIn != "")
	return mapEmployeeToResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.IsEmpty() {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{Field: "body", Message: "no fields to update"}}
	}

	if _, err := s.activeEmployee(ctx, req.ID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Email != nil {
		exists, err := s.employeeRepo.ExistsByEmail(ctx, *req.Email, &req.ID)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrEmailExists
		}
	}

	if err := s.employeeRepo.Update(ctx, req.ID, req); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := s.activeEmployee(ctx, id); err != nil {
		return err
	}
	if err := s.employeeRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "employee removed", "employee_id", id)
	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Employees:  responses,
	}, nil
}

// ListForKiosk implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListForKiosk(ctx context.Context) ([]employee.KioskEmployeeResponse, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.KioskEmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.KioskEmployeeResponse{
			ID:             emp.ID,
			Name:           emp.Name,
			Position:       emp.Position,
			Department:     emp.Department,
			ImageURL:       emp.ImageURL,
			HasFingerprint: emp.HasFingerprint(),
		})
	}
	return responses, nil
}

// UploadAvatar implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UploadAvatar(ctx context.Context, req employee.UploadAvatarRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if _, err := s.activeEmployee(ctx, req.EmployeeID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	key, err := s.fileService.UploadAvatar(ctx, req.EmployeeID, req.File, req.FileHeader.Filename)
	if err != nil {
		if errors.Is(err, file.ErrInvalidFileType) {
			return employee.EmployeeResponse{}, employee.ErrInvalidImage
		}
		return employee.EmployeeResponse{}, err
	}

	url, err := s.fileService.GetFileURL(ctx, key)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to resolve avatar url: %w", err)
	}

	if err := s.employeeRepo.UpdateImage(ctx, req.EmployeeID, url); err != nil {
		// Don't leave an orphaned file behind.
		if delErr := s.fileService.DeleteFile(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to remove orphaned avatar", "key", key, "error", delErr)
		}
		return employee.EmployeeResponse{}, err
	}

	return s.GetEmployee(ctx, req.EmployeeID)
}

// RegisterFingerprint implements employee.EmployeeService.
func (s *EmployeeServiceImpl) RegisterFingerprint(ctx context.Context, req employee.RegisterFingerprintRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if _, err := s.activeEmployee(ctx, req.EmployeeID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var reference *string
	if req.Reference != "" {
		reference = &req.Reference
	}
	if err := s.employeeRepo.UpdateFingerprint(ctx, req.EmployeeID, reference); err != nil {
		return employee.EmployeeResponse{}, err
	}

	return s.GetEmployee(ctx, req.EmployeeID)
}

func (s *EmployeeServiceImpl) activeEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if !emp.Active() {
		return employee.Employee{}, employee.ErrEmployeeDeleted
	}
	return emp, nil
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	resp := employee.EmployeeResponse{
		ID:             emp.ID,
		Name:           emp.Name,
		Position:       emp.Position,
		Department:     emp.Department,
		Email:          emp.Email,
		PhoneNumber:    emp.PhoneNumber,
		JoinDate:       emp.JoinDate.Format(time.DateOnly),
		ImageURL:       emp.ImageURL,
		HasFingerprint: emp.HasFingerprint(),
		CreatedAt:      emp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      emp.UpdatedAt.Format(time.RFC3339),
	}
	if emp.DateOfBirth != nil {
		dob := emp.DateOfBirth.Format(time.DateOnly)
		resp.DateOfBirth = &dob
	}
	if emp.DeletedAt != nil {
		deleted := emp.DeletedAt.Format(time.RFC3339)
		resp.DeletedAt = &deleted
	}
	return resp
}

var _ employee.EmployeeService = (*EmployeeServiceImpl)(nil)
