package shift

import "time"

// Config is the per-employee-assignable shift policy. Read-only to the
// attendance engine.
type Config struct {
	ID                       string
	Name                     string
	StartTime                time.Time // time-of-day, date part ignored
	EndTime                  time.Time // time-of-day, date part ignored
	GracePeriodMinutes       int
	FullDayHours             float64
	HalfDayHours             float64
	OvertimeEnabled          bool
	OvertimeThresholdMinutes int
	MaxBreakMinutes          int
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// StartOn anchors the shift start time to the given calendar date in loc.
func (c Config) StartOn(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		c.StartTime.Hour(), c.StartTime.Minute(), 0, 0, loc)
}

// EndOn anchors the shift end time to the given calendar date in loc.
func (c Config) EndOn(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		c.EndTime.Hour(), c.EndTime.Minute(), 0, 0, loc)
}
