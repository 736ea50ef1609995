package calendar

import "time"

// Holiday is one organization-wide holiday date.
type Holiday struct {
	ID   string
	Date time.Time
	Name string
}

// DayType classifies a calendar date. Holiday wins over weekend when both
// would apply.
type DayType string

const (
	DayTypeWorking DayType = "working_day"
	DayTypeHoliday DayType = "holiday"
	DayTypeWeekend DayType = "weekend"
)
