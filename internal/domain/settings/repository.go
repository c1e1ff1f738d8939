package settings

import "context"

type SettingsRepository interface {
	// GetCompany returns ErrSettingsNotFound when the row was never written.
	GetCompany(ctx context.Context) (CompanySettings, error)
	UpsertCompany(ctx context.Context, s CompanySettings) (CompanySettings, error)

	// GetVerification returns ErrSettingsNotFound when the row was never written.
	GetVerification(ctx context.Context) (VerificationSettings, error)
	UpsertVerification(ctx context.Context, s VerificationSettings) (VerificationSettings, error)
}
