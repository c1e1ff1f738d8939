package employee

import (
	"time"
)

// Employee is a directory entry. Deleted employees keep their row (DeletedAt set)
// so historical attendance stays attributable.
type Employee struct {
	ID          string
	Name        string
	Position    string
	Department  string
	Email       string
	PhoneNumber *string
	JoinDate    time.Time
	DateOfBirth *time.Time
	ImageURL    *string
	// Fingerprint is an opaque reference to an enrolled template, never the template itself.
	Fingerprint *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

func (e Employee) Active() bool {
	return e.DeletedAt == nil
}

func (e Employee) HasFingerprint() bool {
	return e.Fingerprint != nil && *e.Fingerprint != ""
}
