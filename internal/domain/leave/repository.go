package leave

import (
	"context"
	"time"
)

// Repository is the read-only view into the leave module. The attendance
// engine only needs coverage checks; approved leave days are owned (and
// statused) by the leave module itself.
type Repository interface {
	// IsOnApprovedLeave reports whether the employee has an approved leave
	// request covering the date.
	IsOnApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error)
}
