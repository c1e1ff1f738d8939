package settings

import "time"

// CompanySettings is the singleton branding row.
type CompanySettings struct {
	CompanyName string
	BrandColor  *string
	LogoURL     *string
	UpdatedAt   time.Time
}

// VerificationSettings is the singleton row holding the accepted clock methods.
type VerificationSettings struct {
	RequireCode        bool
	RequireSelfie      bool
	RequireFingerprint bool
	// DefaultClockInTime (HH:MM) seeds new schedules that omit an expected time.
	DefaultClockInTime *string
	UpdatedAt          time.Time
}

const (
	DefaultCompanyName = "BioPulse Inc."
	DefaultBrandColor  = "#0ea5e9"
	DefaultClockInTime = "09:00"
)
