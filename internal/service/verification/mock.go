package verification

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
	"github.com/biopulse/attendance-backend-go/internal/domain/verification"
)

// MockVerifier stands in for a biometric matcher. Each check passes with a fixed
// probability; nothing about the image or sample is inspected.
type MockVerifier struct {
	selfiePassRate      float64
	fingerprintPassRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockVerifier returns a verifier drawing from a time-seeded source.
func NewMockVerifier(selfiePassRate, fingerprintPassRate float64) *MockVerifier {
	return NewMockVerifierWithSource(selfiePassRate, fingerprintPassRate, rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewMockVerifierWithSource makes outcomes reproducible for a seeded source.
func NewMockVerifierWithSource(selfiePassRate, fingerprintPassRate float64, src rand.Source) *MockVerifier {
	return &MockVerifier{
		selfiePassRate:      selfiePassRate,
		fingerprintPassRate: fingerprintPassRate,
		rng:                 rand.New(src),
	}
}

func (m *MockVerifier) MatchSelfie(ctx context.Context, emp employee.Employee, image []byte) (bool, error) {
	ok := m.draw(m.selfiePassRate)
	slog.DebugContext(ctx, "mock selfie match", "employee_id", emp.ID, "bytes", len(image), "matched", ok)
	return ok, nil
}

func (m *MockVerifier) MatchFingerprint(ctx context.Context, emp employee.Employee, sample string) (bool, error) {
	ok := m.draw(m.fingerprintPassRate)
	slog.DebugContext(ctx, "mock fingerprint match", "employee_id", emp.ID, "matched", ok)
	return ok, nil
}

func (m *MockVerifier) draw(rate float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Float64() < rate
}

var _ verification.BiometricVerifier = (*MockVerifier)(nil)
