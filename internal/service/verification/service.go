package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
	"github.com/biopulse/attendance-backend-go/internal/domain/settings"
	"github.com/biopulse/attendance-backend-go/internal/domain/verification"
	"github.com/biopulse/attendance-backend-go/internal/pkg/dailycode"
	"github.com/biopulse/attendance-backend-go/internal/service/file"
)

type VerificationServiceImpl struct {
	settingsRepo settings.SettingsRepository
	verifier     verification.BiometricVerifier
	fileService  file.FileService
	loc          *time.Location
	now          func() time.Time
}

func NewVerificationService(
	settingsRepo settings.SettingsRepository,
	verifier verification.BiometricVerifier,
	fileService file.FileService,
	loc *time.Location,
) *VerificationServiceImpl {
	return &VerificationServiceImpl{
		settingsRepo: settingsRepo,
		verifier:     verifier,
		fileService:  fileService,
		loc:          loc,
		now:          time.Now,
	}
}

// Requirements implements verification.VerificationService.
func (s *VerificationServiceImpl) Requirements(ctx context.Context) verification.Requirements {
	stored, err := s.settingsRepo.GetVerification(ctx)
	if err != nil {
		if !errors.Is(err, settings.ErrSettingsNotFound) {
			slog.WarnContext(ctx, "failed to read verification settings, using defaults", "error", err)
		}
		return verification.DefaultRequirements()
	}

	req := verification.Requirements{
		RequireCode:        stored.RequireCode,
		RequireSelfie:      stored.RequireSelfie,
		RequireFingerprint: stored.RequireFingerprint,
	}
	if req.Empty() {
		slog.WarnContext(ctx, "verification settings enable no method, using defaults")
		return verification.DefaultRequirements()
	}
	return req
}

// Verify implements verification.VerificationService.
func (s *VerificationServiceImpl) Verify(ctx context.Context, emp employee.Employee, method verification.Method, evidence verification.Evidence) error {
	if !method.Valid() {
		return verification.ErrInvalidMethod
	}
	if !s.Requirements(ctx).Allows(method) {
		return verification.ErrMethodNotEnabled
	}

	switch method {
	case verification.MethodCode:
		if evidence.Code == "" {
			return verification.ErrEvidenceMissing
		}
		if !dailycode.Validate(evidence.Code, s.now().In(s.loc)) {
			return verification.ErrInvalidCode
		}
		return nil

	case verification.MethodSelfie:
		if len(evidence.Selfie) == 0 {
			return verification.ErrEvidenceMissing
		}
		s.storeSelfie(ctx, emp.ID, evidence)

		ok, err := s.verifier.MatchSelfie(ctx, emp, evidence.Selfie)
		if err != nil {
			return fmt.Errorf("selfie verification: %w", err)
		}
		if !ok {
			return verification.ErrSelfieMismatch
		}
		return nil

	case verification.MethodFingerprint:
		if evidence.FingerprintSample == "" {
			return verification.ErrEvidenceMissing
		}
		if !emp.HasFingerprint() {
			return verification.ErrFingerprintNotRegistered
		}

		ok, err := s.verifier.MatchFingerprint(ctx, emp, evidence.FingerprintSample)
		if err != nil {
			return fmt.Errorf("fingerprint verification: %w", err)
		}
		if !ok {
			return verification.ErrFingerprintMismatch
		}
		return nil
	}

	return verification.ErrInvalidMethod
}

// storeSelfie keeps the submitted image for audit. Failures never block clocking.
func (s *VerificationServiceImpl) storeSelfie(ctx context.Context, employeeID string, evidence verification.Evidence) {
	if s.fileService == nil {
		return
	}
	filename := evidence.SelfieFilename
	if filename == "" {
		filename = "selfie.jpg"
	}

	date := s.now().In(s.loc).Format(attendance.DateLayout)
	key, err := s.fileService.UploadSelfie(ctx, employeeID, date, evidence.Selfie, filename)
	if err != nil {
		slog.WarnContext(ctx, "failed to store selfie", "employee_id", employeeID, "error", err)
		return
	}
	slog.DebugContext(ctx, "selfie stored", "employee_id", employeeID, "key", key)
}

// DailyCode implements verification.VerificationService.
func (s *VerificationServiceImpl) DailyCode(ctx context.Context) verification.DailyCodeResponse {
	now := s.now().In(s.loc)
	return verification.DailyCodeResponse{
		Code:      dailycode.Generate(now),
		Date:      now.Format(attendance.DateLayout),
		ExpiresAt: dailycode.ExpiresAt(now),
	}
}

var _ verification.VerificationService = (*VerificationServiceImpl)(nil)
