package employee

import "time"

// Role gates the HTTP surface: employees punch, managers see the live
// board, admins trigger finalization.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Employee is the roster view the attendance engine consumes. The employee
// module owns the full profile; only identity, active flag and the kiosk
// credential are read here.
type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Role         Role
	Active       bool
	KioskPINHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
