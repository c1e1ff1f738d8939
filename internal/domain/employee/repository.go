package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	// GetByID returns deleted employees too; callers decide via Active.
	GetByID(ctx context.Context, id string) (Employee, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) error
	UpdateImage(ctx context.Context, id string, imageURL string) error
	UpdateFingerprint(ctx context.Context, id string, fingerprint *string) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	// ListActive returns every non-deleted employee ordered by name.
	ListActive(ctx context.Context) ([]Employee, error)
	CountActive(ctx context.Context) (int64, error)
}
