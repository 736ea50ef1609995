package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/correction"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/database"
	"github.com/google/uuid"
)

type correctionRepository struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) correction.Repository {
	return &correctionRepository{db: db}
}

// Open implements correction.Repository. The partial unique index on open
// cases makes re-runs a no-op.
func (c *correctionRepository) Open(ctx context.Context, employeeID string, date time.Time, reason string) (bool, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO correction_cases (id, employee_id, case_date, reason, status)
		VALUES ($1, $2, $3, $4, 'open')
		ON CONFLICT (employee_id, case_date) WHERE status = 'open' DO NOTHING
	`

	tag, err := q.Exec(ctx, query, uuid.Must(uuid.NewV7()).String(), employeeID, date, reason)
	if err != nil {
		return false, fmt.Errorf("failed to open correction case: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListOpen implements correction.Repository.
func (c *correctionRepository) ListOpen(ctx context.Context) ([]correction.Case, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT cc.id, cc.employee_id, cc.case_date, cc.reason, cc.status, cc.created_at, e.full_name
		FROM correction_cases cc
		JOIN employees e ON e.id = cc.employee_id
		WHERE cc.status = 'open'
		ORDER BY cc.case_date, e.full_name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open correction cases: %w", err)
	}
	defer rows.Close()

	var cases []correction.Case
	for rows.Next() {
		var cs correction.Case
		err := rows.Scan(&cs.ID, &cs.EmployeeID, &cs.CaseDate, &cs.Reason, &cs.Status, &cs.CreatedAt, &cs.EmployeeName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction case: %w", err)
		}
		cases = append(cases, cs)
	}
	return cases, rows.Err()
}
