package attendance

import (
	"strings"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/validator"
)

// ========================================
// SESSION TRACKER DTOs
// ========================================

type StartSessionRequest struct {
	WorkLocation    string  `json:"work_location"`
	LocationDetails *string `json:"location_details,omitempty"`
}

func (r *StartSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	loc := WorkLocation(strings.ToLower(strings.TrimSpace(r.WorkLocation)))
	if !validator.IsInSlice(string(loc), WorkLocationValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_location",
			Message: "work_location must be one of: " + strings.Join(WorkLocationValues, ", "),
		})
	} else if loc.RequiresDetails() && (r.LocationDetails == nil || validator.IsEmpty(*r.LocationDetails)) {
		errs = append(errs, validator.ValidationError{
			Field:   "location_details",
			Message: "location_details is required for client_site sessions",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	r.WorkLocation = string(loc)
	return nil
}

type SessionResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	Date              string  `json:"date"`
	CheckIn           string  `json:"check_in"`
	CheckOut          *string `json:"check_out,omitempty"`
	WorkLocation      string  `json:"work_location"`
	LocationDetails   *string `json:"location_details,omitempty"`
	Status            string  `json:"status"`
	TotalBreakMinutes int     `json:"total_break_minutes"`
	WorkedMinutes     *int    `json:"worked_minutes,omitempty"`
	OnBreakSince      *string `json:"on_break_since,omitempty"`
}

type LiveSessionResponse struct {
	SessionResponse
	EmployeeName string `json:"employee_name"`
}

// ========================================
// RECORD QUERY DTOs
// ========================================

type RecordFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID                  string            `json:"id"`
	EmployeeID          string            `json:"employee_id"`
	EmployeeName        *string           `json:"employee_name,omitempty"`
	Date                string            `json:"date"`
	Sessions            []SessionResponse `json:"sessions,omitempty"`
	WorkedMinutes       int               `json:"worked_minutes"`
	BreakMinutes        int               `json:"break_minutes"`
	LateMinutes         int               `json:"late_minutes"`
	EarlyExitMinutes    int               `json:"early_exit_minutes"`
	OvertimeMinutes     int               `json:"overtime_minutes"`
	IsLate              bool              `json:"is_late"`
	IsEarlyDeparture    bool              `json:"is_early_departure"`
	Status              string            `json:"status"`
	StatusReason        *string           `json:"status_reason,omitempty"`
	CorrectionRequested bool              `json:"correction_requested"`
	Source              string            `json:"source"`
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}

// ========================================
// SUMMARY DTOs
// ========================================

type SummaryRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"` // YYYY-MM
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if _, err := time.Parse("2006-01", r.Month); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MonthlySummaryResponse aggregates one employee's month of attendance.
type MonthlySummaryResponse struct {
	EmployeeID        string `json:"employee_id"`
	Month             string `json:"month"`
	PresentDays       int    `json:"present_days"`
	HalfDays          int    `json:"half_days"`
	AbsentDays        int    `json:"absent_days"`
	HolidayDays       int    `json:"holiday_days"`
	WeekendDays       int    `json:"weekend_days"`
	PendingCorrection int    `json:"pending_correction_days"`
	LateDays          int    `json:"late_days"`
	WorkedMinutes     int    `json:"worked_minutes"`
	OvertimeMinutes   int    `json:"overtime_minutes"`
}
