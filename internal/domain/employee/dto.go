package employee

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Position    string  `json:"position" validate:"required,max=100"`
	Department  string  `json:"department" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone"`
	JoinDate    string  `json:"join_date" validate:"required,isodate"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,isodate"`

	// ExpectedClockIn, when set, stores a schedule together with the employee.
	ExpectedClockIn *string `json:"expected_clock_in,omitempty" validate:"omitempty,clocktime"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if r.DateOfBirth != nil {
		if dob, _ := validator.IsValidDate(*r.DateOfBirth); dob.After(time.Now()) {
			errs.Add("date_of_birth", "date_of_birth cannot be in the future")
		}
	}
	return errs.Err()
}

type UpdateEmployeeRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Position    *string `json:"position,omitempty" validate:"omitempty,min=1,max=100"`
	Department  *string `json:"department,omitempty" validate:"omitempty,min=1,max=100"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,phone"`
	JoinDate    *string `json:"join_date,omitempty" validate:"omitempty,isodate"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,isodate"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}

	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if err := validator.Struct(r); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, fieldErrs...)
		} else {
			return err
		}
	}
	return errs.Err()
}

// IsEmpty reports whether the request changes nothing.
func (r *UpdateEmployeeRequest) IsEmpty() bool {
	return r.Name == nil && r.Position == nil && r.Department == nil && r.Email == nil &&
		r.PhoneNumber == nil && r.JoinDate == nil && r.DateOfBirth == nil
}

type EmployeeFilter struct {
	Search         *string `json:"search,omitempty"`
	Department     *string `json:"department,omitempty"`
	IncludeDeleted bool    `json:"include_deleted"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // name, join_date, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.SortBy == "" {
		f.SortBy = "name"
	} else if !validator.IsInSlice(f.SortBy, []string{"name", "join_date", "created_at"}) {
		errs.Add("sort_by", "sort_by must be one of: name, join_date, created_at")
	}

	if f.SortOrder == "" {
		f.SortOrder = "asc"
	} else if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs.Add("sort_order", "sort_order must be one of: asc, desc")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Position       string  `json:"position"`
	Department     string  `json:"department"`
	Email          string  `json:"email"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	JoinDate       string  `json:"join_date"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"`
	ImageURL       *string `json:"image_url,omitempty"`
	HasFingerprint bool    `json:"has_fingerprint"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
	DeletedAt      *string `json:"deleted_at,omitempty"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

// KioskEmployeeResponse is the public view used by the clock-in screen.
type KioskEmployeeResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Position       string  `json:"position"`
	Department     string  `json:"department"`
	ImageURL       *string `json:"image_url,omitempty"`
	HasFingerprint bool    `json:"has_fingerprint"`
}

type UploadAvatarRequest struct {
	EmployeeID string
	File       multipart.File
	FileHeader *multipart.FileHeader
}

func (r *UploadAvatarRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if r.FileHeader == nil {
		errs.Add("file", "image file is required")
	} else {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if !validator.IsInSlice(ext, []string{".jpg", ".jpeg", ".png"}) {
			errs.Add("file", "invalid file type: only jpg, jpeg, png allowed")
		} else if r.FileHeader.Size > 5<<20 {
			errs.Add("file", "image size must not exceed 5MB")
		}
	}

	return errs.Err()
}

type RegisterFingerprintRequest struct {
	EmployeeID string `json:"-"`
	Reference  string `json:"reference"`
}

func (r *RegisterFingerprintRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if len(r.Reference) > 512 {
		errs.Add("reference", "reference must be at most 512 characters")
	}
	return errs.Err()
}
