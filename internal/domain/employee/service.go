package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee applies the non-nil fields of req
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee tombstones an employee; attendance history is kept
	DeleteEmployee(ctx context.Context, id string) error

	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// ListForKiosk returns the active employees a kiosk may offer for clocking
	ListForKiosk(ctx context.Context) ([]KioskEmployeeResponse, error)

	UploadAvatar(ctx context.Context, req UploadAvatarRequest) (EmployeeResponse, error)

	// RegisterFingerprint stores (or clears, with an empty reference) the enrolled template reference
	RegisterFingerprint(ctx context.Context, req RegisterFingerprintRequest) (EmployeeResponse, error)
}
