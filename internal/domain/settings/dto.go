package settings

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/biopulse/attendance-backend-go/internal/pkg/validator"
)

type UpdateCompanySettingsRequest struct {
	CompanyName *string `json:"company_name,omitempty"`
	BrandColor  *string `json:"brand_color,omitempty"`
}

func (r *UpdateCompanySettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.CompanyName == nil && r.BrandColor == nil {
		return ErrNothingToUpdate
	}
	if r.CompanyName != nil {
		name := strings.TrimSpace(*r.CompanyName)
		r.CompanyName = &name
		if name == "" {
			errs.Add("company_name", "company_name cannot be empty")
		} else if len(name) > 100 {
			errs.Add("company_name", "company_name must be at most 100 characters")
		}
	}
	if r.BrandColor != nil && !validator.IsValidHexColor(*r.BrandColor) {
		errs.Add("brand_color", "brand_color must be a hex colour like #1a2b3c")
	}

	return errs.Err()
}

type UploadLogoRequest struct {
	File       multipart.File
	FileHeader *multipart.FileHeader
}

func (r *UploadLogoRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.FileHeader == nil {
		errs.Add("file", "logo file is required")
	} else {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if !validator.IsInSlice(ext, []string{".jpg", ".jpeg", ".png"}) {
			errs.Add("file", "invalid file type: only jpg, jpeg, png allowed")
		} else if r.FileHeader.Size > 2<<20 {
			errs.Add("file", "logo size must not exceed 2MB")
		}
	}
	return errs.Err()
}

type CompanySettingsResponse struct {
	CompanyName string  `json:"company_name"`
	BrandColor  *string `json:"brand_color,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	UpdatedAt   *string `json:"updated_at,omitempty"`
}

type UpdateVerificationSettingsRequest struct {
	RequireCode        *bool   `json:"require_code,omitempty"`
	RequireSelfie      *bool   `json:"require_selfie,omitempty"`
	RequireFingerprint *bool   `json:"require_fingerprint,omitempty"`
	DefaultClockInTime *string `json:"default_clock_in_time,omitempty" validate:"omitempty,clocktime"`
}

func (r *UpdateVerificationSettingsRequest) Validate() error {
	if r.RequireCode == nil && r.RequireSelfie == nil && r.RequireFingerprint == nil && r.DefaultClockInTime == nil {
		return ErrNothingToUpdate
	}
	return validator.Struct(r)
}

type VerificationSettingsResponse struct {
	RequireCode        bool    `json:"require_code"`
	RequireSelfie      bool    `json:"require_selfie"`
	RequireFingerprint bool    `json:"require_fingerprint"`
	DefaultClockInTime *string `json:"default_clock_in_time,omitempty"`
	UpdatedAt          *string `json:"updated_at,omitempty"`
}
