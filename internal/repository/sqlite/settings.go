package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/settings"
	"github.com/biopulse/attendance-backend-go/internal/pkg/sse"
)

type settingsRepository struct {
	db        *sql.DB
	publisher sse.Publisher
}

func NewSettingsRepository(db *sql.DB, publisher sse.Publisher) settings.SettingsRepository {
	return &settingsRepository{db: db, publisher: publisher}
}

func scanCompany(row rowScanner) (settings.CompanySettings, error) {
	var (
		s                   settings.CompanySettings
		brandColor, logoURL sql.NullString
		updatedAt           string
	)
	if err := row.Scan(&s.CompanyName, &brandColor, &logoURL, &updatedAt); err != nil {
		return settings.CompanySettings{}, err
	}
	s.BrandColor, s.LogoURL = nullString(brandColor), nullString(logoURL)

	var err error
	s.UpdatedAt, err = parseTime(updatedAt)
	return s, err
}

func scanVerification(row rowScanner) (settings.VerificationSettings, error) {
	var (
		s           settings.VerificationSettings
		defaultTime sql.NullString
		updatedAt   string
	)
	if err := row.Scan(&s.RequireCode, &s.RequireSelfie, &s.RequireFingerprint, &defaultTime, &updatedAt); err != nil {
		return settings.VerificationSettings{}, err
	}
	s.DefaultClockInTime = nullString(defaultTime)

	var err error
	s.UpdatedAt, err = parseTime(updatedAt)
	return s, err
}

// GetCompany implements settings.SettingsRepository.
func (r *settingsRepository) GetCompany(ctx context.Context) (settings.CompanySettings, error) {
	s, err := scanCompany(getQuerier(ctx, r.db).QueryRowContext(ctx, `
		SELECT company_name, brand_color, logo_url, updated_at
		FROM company_settings
		WHERE id = 1
	`))
	if err != nil {
		if isNoRows(err) {
			return settings.CompanySettings{}, settings.ErrSettingsNotFound
		}
		return settings.CompanySettings{}, fmt.Errorf("failed to get company settings: %w", err)
	}
	return s, nil
}

// UpsertCompany implements settings.SettingsRepository.
func (r *settingsRepository) UpsertCompany(ctx context.Context, s settings.CompanySettings) (settings.CompanySettings, error) {
	saved, err := scanCompany(getQuerier(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO company_settings (id, company_name, brand_color, logo_url, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET company_name = excluded.company_name,
			brand_color = excluded.brand_color,
			logo_url = excluded.logo_url,
			updated_at = excluded.updated_at
		RETURNING company_name, brand_color, logo_url, updated_at
	`, s.CompanyName, s.BrandColor, s.LogoURL, formatTime(time.Now())))
	if err != nil {
		return settings.CompanySettings{}, fmt.Errorf("failed to save company settings: %w", err)
	}

	publish(ctx, r.publisher, sse.NewEvent(sse.TableCompanySettings, sse.OpUpdate, map[string]any{
		"company_name": saved.CompanyName,
		"brand_color":  saved.BrandColor,
		"logo_url":     saved.LogoURL,
		"updated_at":   saved.UpdatedAt,
	}, nil))
	return saved, nil
}

// GetVerification implements settings.SettingsRepository.
func (r *settingsRepository) GetVerification(ctx context.Context) (settings.VerificationSettings, error) {
	s, err := scanVerification(getQuerier(ctx, r.db).QueryRowContext(ctx, `
		SELECT require_code, require_selfie, require_fingerprint, default_clock_in_time, updated_at
		FROM attendance_settings
		WHERE id = 1
	`))
	if err != nil {
		if isNoRows(err) {
			return settings.VerificationSettings{}, settings.ErrSettingsNotFound
		}
		return settings.VerificationSettings{}, fmt.Errorf("failed to get verification settings: %w", err)
	}
	return s, nil
}

// UpsertVerification implements settings.SettingsRepository.
func (r *settingsRepository) UpsertVerification(ctx context.Context, s settings.VerificationSettings) (settings.VerificationSettings, error) {
	saved, err := scanVerification(getQuerier(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO attendance_settings (id, require_code, require_selfie, require_fingerprint, default_clock_in_time, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET require_code = excluded.require_code,
			require_selfie = excluded.require_selfie,
			require_fingerprint = excluded.require_fingerprint,
			default_clock_in_time = excluded.default_clock_in_time,
			updated_at = excluded.updated_at
		RETURNING require_code, require_selfie, require_fingerprint, default_clock_in_time, updated_at
	`, s.RequireCode, s.RequireSelfie, s.RequireFingerprint, s.DefaultClockInTime, formatTime(time.Now())))
	if err != nil {
		return settings.VerificationSettings{}, fmt.Errorf("failed to save verification settings: %w", err)
	}

	publish(ctx, r.publisher, sse.NewEvent(sse.TableAttendanceSettings, sse.OpUpdate, map[string]any{
		"require_code":          saved.RequireCode,
		"require_selfie":        saved.RequireSelfie,
		"require_fingerprint":   saved.RequireFingerprint,
		"default_clock_in_time": saved.DefaultClockInTime,
		"updated_at":            saved.UpdatedAt,
	}, nil))
	return saved, nil
}
