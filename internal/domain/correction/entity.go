package correction

import "time"

type CaseStatus string

const (
	CaseOpen     CaseStatus = "open"
	CaseResolved CaseStatus = "resolved"
)

// Case is a missed-punch (or similar) correction request awaiting HR
// action. At most one open case exists per (employee, date).
type Case struct {
	ID         string
	EmployeeID string
	CaseDate   time.Time
	Reason     string
	Status     CaseStatus
	CreatedAt  time.Time

	EmployeeName *string
}
