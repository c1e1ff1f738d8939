package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/domain/auth"
	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
	"github.com/biopulse/attendance-backend-go/internal/domain/report"
	"github.com/biopulse/attendance-backend-go/internal/domain/schedule"
	"github.com/biopulse/attendance-backend-go/internal/domain/settings"
	"github.com/biopulse/attendance-backend-go/internal/domain/user"
	"github.com/biopulse/attendance-backend-go/internal/domain/verification"
	"github.com/biopulse/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrAdminPrivilegeRequired), errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Verification failures: the employee was not verified
	case errors.Is(err, verification.ErrInvalidCode),
		errors.Is(err, verification.ErrSelfieMismatch),
		errors.Is(err, verification.ErrFingerprintMismatch):
		Unauthorized(w, err.Error())
	case errors.Is(err, verification.ErrMethodNotEnabled):
		Forbidden(w, err.Error())
	case errors.Is(err, verification.ErrInvalidMethod),
		errors.Is(err, verification.ErrEvidenceMissing),
		errors.Is(err, verification.ErrFingerprintNotRegistered):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrNoClockInFound),
		errors.Is(err, attendance.ErrAlreadyClockedOut),
		errors.Is(err, attendance.ErrRecordExists):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrFutureDateNotAllowed),
		errors.Is(err, attendance.ErrDayNotOver),
		errors.Is(err, attendance.ErrInvalidClockTime),
		errors.Is(err, attendance.ErrInvalidStatus),
		errors.Is(err, attendance.ErrDateRangeTooLong):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrBackendUnavailable):
		slog.Error("attendance backend unavailable", "error", err)
		ServiceUnavailable(w, "Attendance service temporarily unavailable")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeDeleted):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrInvalidImage), errors.Is(err, employee.ErrFutureDateNotAllowed):
		BadRequest(w, err.Error(), nil)

	// Schedule domain errors
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")
	case errors.Is(err, schedule.ErrHolidayExists):
		Conflict(w, err.Error())
	case errors.Is(err, schedule.ErrHolidayNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, schedule.ErrEmployeeIDRequired),
		errors.Is(err, schedule.ErrTooManyHolidays):
		BadRequest(w, err.Error(), nil)

	// Settings domain errors
	case errors.Is(err, settings.ErrNoMethodEnabled):
		ValidationError(w, map[string]string{"methods": err.Error()})
	case errors.Is(err, settings.ErrNothingToUpdate):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, settings.ErrSettingsNotFound):
		NotFound(w, "Settings not found")

	// Report domain errors
	case errors.Is(err, report.ErrUnsupportedFormat),
		errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, report.ErrDateRangeTooLong):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
