package employee

import (
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/validator"
)

// KioskLoginRequest is the employee-code + PIN login used by shared
// clock-in terminals.
type KioskLoginRequest struct {
	EmployeeCode string `json:"employee_code"`
	PIN          string `json:"pin"`
}

func (r *KioskLoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must be in NNNN-NNNN format",
		})
	}
	if !validator.IsValidPIN(r.PIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "pin",
			Message: "pin must be 4-6 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type KioskLoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	EmployeeID  string `json:"employee_id"`
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
}
