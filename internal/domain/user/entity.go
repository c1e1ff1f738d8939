package user

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"   // Full access including settings
	RoleHR      Role = "hr"      // Manages the employee directory and schedules
	RoleManager Role = "manager" // Read access to attendance and reports
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleHR || r == RoleManager
}

// User is a back-office account. Employees clocking at a kiosk are not users.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
