package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/domain/settings"
	"github.com/biopulse/attendance-backend-go/internal/domain/verification"
	"github.com/biopulse/attendance-backend-go/internal/pkg/validator"
	"github.com/biopulse/attendance-backend-go/internal/service/file"
)

type SettingsServiceImpl struct {
	settingsRepo settings.SettingsRepository
	fileService  file.FileService
}

func NewSettingsService(settingsRepo settings.SettingsRepository, fileService file.FileService) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		settingsRepo: settingsRepo,
		fileService:  fileService,
	}
}

// GetCompany implements settings.SettingsService.
func (s *SettingsServiceImpl) GetCompany(ctx context.Context) (settings.CompanySettingsResponse, error) {
	company, stored, err := s.loadCompany(ctx)
	if err != nil {
		return settings.CompanySettingsResponse{}, err
	}
	return mapCompanyToResponse(company, stored), nil
}

// UpdateCompany implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateCompany(ctx context.Context, req settings.UpdateCompanySettingsRequest) (settings.CompanySettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.CompanySettingsResponse{}, err
	}

	company, _, err := s.loadCompany(ctx)
	if err != nil {
		return settings.CompanySettingsResponse{}, err
	}
	if req.CompanyName != nil {
		company.CompanyName = *req.CompanyName
	}
	if req.BrandColor != nil {
		company.BrandColor = req.BrandColor
	}

	saved, err := s.settingsRepo.UpsertCompany(ctx, company)
	if err != nil {
		return settings.CompanySettingsResponse{}, fmt.Errorf("failed to save company settings: %w", err)
	}
	return mapCompanyToResponse(saved, true), nil
}

// UploadLogo implements settings.SettingsService.
func (s *SettingsServiceImpl) UploadLogo(ctx context.Context, req settings.UploadLogoRequest) (settings.CompanySettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.CompanySettingsResponse{}, err
	}

	company, _, err := s.loadCompany(ctx)
	if err != nil {
		return settings.CompanySettingsResponse{}, err
	}

	key, err := s.fileService.UploadCompanyLogo(ctx, req.File, req.FileHeader.Filename)
	if err != nil {
		if errors.Is(err, file.ErrInvalidFileType) {
			return settings.CompanySettingsResponse{}, validator.ValidationErrors{{Field: "file", Message: err.Error()}}
		}
		return settings.CompanySettingsResponse{}, err
	}

	url, err := s.fileService.GetFileURL(ctx, key)
	if err != nil {
		return settings.CompanySettingsResponse{}, fmt.Errorf("failed to resolve logo url: %w", err)
	}
	company.LogoURL = &url

	saved, err := s.settingsRepo.UpsertCompany(ctx, company)
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to remove orphaned logo", "key", key, "error", delErr)
		}
		return settings.CompanySettingsResponse{}, fmt.Errorf("failed to save company settings: %w", err)
	}
	return mapCompanyToResponse(saved, true), nil
}

// loadCompany returns the stored row, or the defaults with stored=false.
func (s *SettingsServiceImpl) loadCompany(ctx context.Context) (company settings.CompanySettings, stored bool, err error) {
	company, err = s.settingsRepo.GetCompany(ctx)
	if err == nil {
		return company, true, nil
	}
	if errors.Is(err, settings.ErrSettingsNotFound) {
		color := settings.DefaultBrandColor
		return settings.CompanySettings{CompanyName: settings.DefaultCompanyName, BrandColor: &color}, false, nil
	}
	return settings.CompanySettings{}, false, fmt.Errorf("failed to load company settings: %w", err)
}

// GetVerification implements settings.SettingsService.
func (s *SettingsServiceImpl) GetVerification(ctx context.Context) (settings.VerificationSettingsResponse, error) {
	current, stored, err := s.loadVerification(ctx)
	if err != nil {
		return settings.VerificationSettingsResponse{}, err
	}
	return mapVerificationToResponse(current, stored), nil
}

// UpdateVerification implements settings.SettingsService.
// A change that would leave no method enabled is rejected.
func (s *SettingsServiceImpl) UpdateVerification(ctx context.Context, req settings.UpdateVerificationSettingsRequest) (settings.VerificationSettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.VerificationSettingsResponse{}, err
	}

	current, _, err := s.loadVerification(ctx)
	if err != nil {
		return settings.VerificationSettingsResponse{}, err
	}

	if req.RequireCode != nil {
		current.RequireCode = *req.RequireCode
	}
	if req.RequireSelfie != nil {
		current.RequireSelfie = *req.RequireSelfie
	}
	if req.RequireFingerprint != nil {
		current.RequireFingerprint = *req.RequireFingerprint
	}
	if req.DefaultClockInTime != nil {
		clockIn, err := attendance.ParseClockTime(*req.DefaultClockInTime)
		if err != nil {
			return settings.VerificationSettingsResponse{}, err
		}
		formatted := clockIn.String()
		current.DefaultClockInTime = &formatted
	}

	if !current.RequireCode && !current.RequireSelfie && !current.RequireFingerprint {
		return settings.VerificationSettingsResponse{}, settings.ErrNoMethodEnabled
	}

	saved, err := s.settingsRepo.UpsertVerification(ctx, current)
	if err != nil {
		return settings.VerificationSettingsResponse{}, fmt.Errorf("failed to save verification settings: %w", err)
	}

	slog.InfoContext(ctx, "verification settings updated",
		"require_code", saved.RequireCode,
		"require_selfie", saved.RequireSelfie,
		"require_fingerprint", saved.RequireFingerprint,
	)
	return mapVerificationToResponse(saved, true), nil
}

func (s *SettingsServiceImpl) loadVerification(ctx context.Context) (settings.VerificationSettings, bool, error) {
	current, err := s.settingsRepo.GetVerification(ctx)
	if err == nil {
		return current, true, nil
	}
	if errors.Is(err, settings.ErrSettingsNotFound) {
		defaults := verification.DefaultRequirements()
		return settings.VerificationSettings{
			RequireCode:        defaults.RequireCode,
			RequireSelfie:      defaults.RequireSelfie,
			RequireFingerprint: defaults.RequireFingerprint,
		}, false, nil
	}
	return settings.VerificationSettings{}, false, fmt.Errorf("failed to load verification settings: %w", err)
}

func mapCompanyToResponse(c settings.CompanySettings, stored bool) settings.CompanySettingsResponse {
	resp := settings.CompanySettingsResponse{
		CompanyName: c.CompanyName,
		BrandColor:  c.BrandColor,
		LogoURL:     c.LogoURL,
	}
	if stored {
		updated := c.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &updated
	}
	return resp
}

func mapVerificationToResponse(v settings.VerificationSettings, stored bool) settings.VerificationSettingsResponse {
	resp := settings.VerificationSettingsResponse{
		RequireCode:        v.RequireCode,
		RequireSelfie:      v.RequireSelfie,
		RequireFingerprint: v.RequireFingerprint,
		DefaultClockInTime: v.DefaultClockInTime,
	}
	if stored {
		updated := v.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &updated
	}
	return resp
}

var _ settings.SettingsService = (*SettingsServiceImpl)(nil)
