package correction

import (
	"context"
	"time"
)

// Repository manages correction cases. Open is idempotent: re-running
// finalization for a date must not open a second case.
type Repository interface {
	// Open creates an open case unless one already exists for the employee
	// and date. Returns true when a new case was created.
	Open(ctx context.Context, employeeID string, date time.Time, reason string) (bool, error)

	// ListOpen returns all open cases, oldest first.
	ListOpen(ctx context.Context) ([]Case, error)
}
