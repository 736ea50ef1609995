package calendar

import (
	"context"
	"time"
)

// Repository answers holiday and working-day questions for the
// organization-wide rule set. Owned by the company-settings module.
type Repository interface {
	// GetHoliday returns the holiday on the date, or nil.
	GetHoliday(ctx context.Context, date time.Time) (*Holiday, error)

	// IsWorkingDay reports whether the date's weekday is a working day
	// under the organization rule set. Holidays are not considered here.
	IsWorkingDay(ctx context.Context, date time.Time) (bool, error)
}

// Classify resolves the DayType for a date. Holiday takes precedence over
// weekend.
func Classify(ctx context.Context, repo Repository, date time.Time) (DayType, *Holiday, error) {
	holiday, err := repo.GetHoliday(ctx, date)
	if err != nil {
		return "", nil, err
	}
	if holiday != nil {
		return DayTypeHoliday, holiday, nil
	}

	working, err := repo.IsWorkingDay(ctx, date)
	if err != nil {
		return "", nil, err
	}
	if working {
		return DayTypeWorking, nil, nil
	}
	return DayTypeWeekend, nil, nil
}
