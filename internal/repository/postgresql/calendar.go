package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/calendar"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type calendarRepository struct {
	db *database.DB
}

func NewCalendarRepository(db *database.DB) calendar.Repository {
	return &calendarRepository{db: db}
}

// GetHoliday implements calendar.Repository.
func (c *calendarRepository) GetHoliday(ctx context.Context, date time.Time) (*calendar.Holiday, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT id, holiday_date, name
		FROM holidays
		WHERE holiday_date = $1
	`

	var h calendar.Holiday
	err := q.QueryRow(ctx, query, date).Scan(&h.ID, &h.Date, &h.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holiday: %w", err)
	}

	return &h, nil
}

// IsWorkingDay implements calendar.Repository.
func (c *calendarRepository) IsWorkingDay(ctx context.Context, date time.Time) (bool, error) {
	q := GetQuerier(ctx, c.db)

	// ISO day of week, Monday=1.
	isoDay := int(date.Weekday())
	if isoDay == 0 {
		isoDay = 7
	}

	query := `
		SELECT is_working
		FROM working_day_rules
		WHERE day_of_week = $1
	`

	var working bool
	err := q.QueryRow(ctx, query, isoDay).Scan(&working)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No rule configured: Monday-Friday working week.
			return isoDay <= 5, nil
		}
		return false, fmt.Errorf("failed to get working day rule: %w", err)
	}

	return working, nil
}
