package verification

import (
	"context"

	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
)

// BiometricVerifier decides selfie and fingerprint matches. Implementations may be
// real matchers or test doubles; the policy does not care which.
type BiometricVerifier interface {
	MatchSelfie(ctx context.Context, emp employee.Employee, image []byte) (bool, error)
	MatchFingerprint(ctx context.Context, emp employee.Employee, sample string) (bool, error)
}

type VerificationService interface {
	// Requirements never fails; unreadable settings yield DefaultRequirements.
	Requirements(ctx context.Context) Requirements

	// Verify checks evidence for method against the current requirements.
	Verify(ctx context.Context, emp employee.Employee, method Method, evidence Evidence) error

	// DailyCode returns today's code in the tenant timezone.
	DailyCode(ctx context.Context) DailyCodeResponse
}
