package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/biopulse/attendance-backend-go/internal/domain/settings"
	"github.com/biopulse/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

// GetCompany implements settings.SettingsRepository.
func (r *settingsRepository) GetCompany(ctx context.Context) (settings.CompanySettings, error) {
	q := GetQuerier(ctx, r.db)

	var s settings.CompanySettings
	err := q.QueryRow(ctx, `
		SELECT company_name, brand_color, logo_url, updated_at
		FROM company_settings
		WHERE id = 1
	`).Scan(&s.CompanyName, &s.BrandColor, &s.LogoURL, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.CompanySettings{}, settings.ErrSettingsNotFound
		}
		return settings.CompanySettings{}, fmt.Errorf("failed to get company settings: %w", err)
	}

	return s, nil
}

// UpsertCompany implements settings.SettingsRepository.
func (r *settingsRepository) UpsertCompany(ctx context.Context, s settings.CompanySettings) (settings.CompanySettings, error) {
	q := GetQuerier(ctx, r.db)

	var saved settings.CompanySettings
	err := q.QueryRow(ctx, `
		INSERT INTO company_settings (id, company_name, brand_color, logo_url)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET company_name = EXCLUDED.company_name,
			brand_color = EXCLUDED.brand_color,
			logo_url = EXCLUDED.logo_url,
			updated_at = NOW()
		RETURNING company_name, brand_color, logo_url, updated_at
	`, s.CompanyName, s.BrandColor, s.LogoURL).Scan(&saved.CompanyName, &saved.BrandColor, &saved.LogoURL, &saved.UpdatedAt)
	if err != nil {
		return settings.CompanySettings{}, fmt.Errorf("failed to save company settings: %w", err)
	}

	return saved, nil
}

// GetVerification implements settings.SettingsRepository.
func (r *settingsRepository) GetVerification(ctx context.Context) (settings.VerificationSettings, error) {
	q := GetQuerier(ctx, r.db)

	var s settings.VerificationSettings
	err := q.QueryRow(ctx, `
		SELECT require_code, require_selfie, require_fingerprint, default_clock_in_time, updated_at
		FROM attendance_settings
		WHERE id = 1
	`).Scan(&s.RequireCode, &s.RequireSelfie, &s.RequireFingerprint, &s.DefaultClockInTime, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.VerificationSettings{}, settings.ErrSettingsNotFound
		}
		return settings.VerificationSettings{}, fmt.Errorf("failed to get verification settings: %w", err)
	}

	return s, nil
}

// UpsertVerification implements settings.SettingsRepository.
func (r *settingsRepository) UpsertVerification(ctx context.Context, s settings.VerificationSettings) (settings.VerificationSettings, error) {
	q := GetQuerier(ctx, r.db)

	var saved settings.VerificationSettings
	err := q.QueryRow(ctx, `
		INSERT INTO attendance_settings (id, require_code, require_selfie, require_fingerprint, default_clock_in_time)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET require_code = EXCLUDED.require_code,
			require_selfie = EXCLUDED.require_selfie,
			require_fingerprint = EXCLUDED.require_fingerprint,
			default_clock_in_time = EXCLUDED.default_clock_in_time,
			updated_at = NOW()
		RETURNING require_code, require_selfie, require_fingerprint, default_clock_in_time, updated_at
	`, s.RequireCode, s.RequireSelfie, s.RequireFingerprint, s.DefaultClockInTime).Scan(
		&saved.RequireCode, &saved.RequireSelfie, &saved.RequireFingerprint, &saved.DefaultClockInTime, &saved.UpdatedAt,
	)
	if err != nil {
		return settings.VerificationSettings{}, fmt.Errorf("failed to save verification settings: %w", err)
	}

	return saved, nil
}
