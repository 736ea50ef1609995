package response

import (
	"errors"
	"net/http"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/attendance"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/employee"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/validator"
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
	// Session tracker state errors. Duplicate punches are conflicts; the
	// rest are bad requests carrying an actionable message.
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrAlreadyOnBreak):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNoActiveSession),
		errors.Is(err, attendance.ErrCannotClockOutOnBreak),
		errors.Is(err, attendance.ErrNotOnBreak),
		errors.Is(err, attendance.ErrBreakLimitExceeded),
		errors.Is(err, attendance.ErrInvalidLocation):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Employee / kiosk login errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")
	case errors.Is(err, employee.ErrInvalidCredentials):
		Unauthorized(w, "Invalid employee code or PIN")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
