package settings

import "context"

type SettingsService interface {
	GetCompany(ctx context.Context) (CompanySettingsResponse, error)
	UpdateCompany(ctx context.Context, req UpdateCompanySettingsRequest) (CompanySettingsResponse, error)
	UploadLogo(ctx context.Context, req UploadLogoRequest) (CompanySettingsResponse, error)

	GetVerification(ctx context.Context) (VerificationSettingsResponse, error)
	UpdateVerification(ctx context.Context, req UpdateVerificationSettingsRequest) (VerificationSettingsResponse, error)
}
