package shift

import (
	"context"
	"time"
)

// Repository resolves shift assignments. Owned by the scheduling module;
// the attendance engine only reads.
type Repository interface {
	// GetActiveForEmployee returns the shift covering the employee on the
	// date, or nil when none is assigned.
	GetActiveForEmployee(ctx context.Context, employeeID string, date time.Time) (*Config, error)
}
