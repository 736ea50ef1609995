package employee

import "context"

// Repository is the active-roster read adapter.
type Repository interface {
	// GetByID returns the employee or ErrEmployeeNotFound.
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByCode looks up an employee by employee code (kiosk login).
	GetByCode(ctx context.Context, code string) (Employee, error)

	// ListActiveIDs returns the ids of all active employees.
	ListActiveIDs(ctx context.Context) ([]string, error)
}
