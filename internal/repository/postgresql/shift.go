package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/shift"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.Repository {
	return &shiftRepository{db: db}
}

// GetActiveForEmployee implements shift.Repository.
func (s *shiftRepository) GetActiveForEmployee(ctx context.Context, employeeID string, date time.Time) (*shift.Config, error) {
	q := GetQuerier(ctx, s.db)

	// Latest-starting assignment wins when ranges overlap.
	query := `
		SELECT sc.id, sc.name,
			   to_char(sc.start_time, 'HH24:MI') AS start_time,
			   to_char(sc.end_time, 'HH24:MI') AS end_time,
			   sc.grace_period_minutes, sc.full_day_hours, sc.half_day_hours,
			   sc.overtime_enabled, sc.overtime_threshold_minutes, sc.max_break_minutes,
			   sc.created_at, sc.updated_at
		FROM employee_shift_assignments esa
		JOIN shift_configs sc ON sc.id = esa.shift_config_id
		WHERE esa.employee_id = $1
		  AND esa.start_date <= $2
		  AND (esa.end_date IS NULL OR esa.end_date >= $2)
		ORDER BY esa.start_date DESC
		LIMIT 1
	`

	var cfg shift.Config
	var startStr, endStr string
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&cfg.ID, &cfg.Name, &startStr, &endStr,
		&cfg.GracePeriodMinutes, &cfg.FullDayHours, &cfg.HalfDayHours,
		&cfg.OvertimeEnabled, &cfg.OvertimeThresholdMinutes, &cfg.MaxBreakMinutes,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active shift: %w", err)
	}

	if cfg.StartTime, err = time.Parse("15:04", startStr); err != nil {
		return nil, fmt.Errorf("invalid shift start time %q: %w", startStr, err)
	}
	if cfg.EndTime, err = time.Parse("15:04", endStr); err != nil {
		return nil, fmt.Errorf("invalid shift end time %q: %w", endStr, err)
	}

	return &cfg, nil
}
