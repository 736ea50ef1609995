package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/leave"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepository{db: db}
}

// IsOnApprovedLeave implements leave.Repository.
func (l *leaveRepository) IsOnApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			  AND status = 'approved'
			  AND start_date <= $2
			  AND end_date >= $2
		)
	`

	var onLeave bool
	if err := q.QueryRow(ctx, query, employeeID, date).Scan(&onLeave); err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}

	return onLeave, nil
}
