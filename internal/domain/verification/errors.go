package verification

import "errors"

var (
	ErrInvalidMethod            = errors.New("verification method must be one of: code, selfie, fingerprint")
	ErrMethodNotEnabled         = errors.New("verification method is not enabled")
	ErrInvalidCode              = errors.New("invalid attendance code")
	ErrEvidenceMissing          = errors.New("verification evidence is missing")
	ErrSelfieMismatch           = errors.New("selfie verification failed")
	ErrFingerprintNotRegistered = errors.New("no fingerprint registered for this employee")
	ErrFingerprintMismatch      = errors.New("fingerprint verification failed")
)
