package attendance

import (
	"math"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/attendance"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/shift"
)

// DayOutcome is the daily finalizer's decision for one record: the terminal
// status plus the aggregate minute fields derived from the day's sessions
// and the shift configuration.
type DayOutcome struct {
	Status              attendance.Status
	StatusReason        *string
	WorkedMinutes       int
	BreakMinutes        int
	LateMinutes         int
	EarlyExitMinutes    int
	OvertimeMinutes     int
	CorrectionRequested bool
}

const (
	reasonMissedClockOut = "missed clock-out: session still open at end of day"
	reasonMissingShift   = "no shift assignment for this date"
	reasonNoRecordedWork = "no recorded work"
)

// ComputeDayOutcome converts a day's raw session data into a terminal
// status given the employee's shift. cfg may be nil (missing shift
// assignment); the outcome degrades to absent with a reason instead of
// failing, so one unconfigured employee can never block a batch.
//
// The record's work date is interpreted in loc when anchoring shift start
// and end times.
func ComputeDayOutcome(rec attendance.Record, cfg *shift.Config, loc *time.Location) DayOutcome {
	var out DayOutcome
	for i := range rec.Sessions {
		s := rec.Sessions[i]
		if s.Status == attendance.SessionCompleted && s.WorkedMinutes != nil {
			out.WorkedMinutes += *s.WorkedMinutes
		}
		out.BreakMinutes += s.TotalBreakMinutes
	}

	// A day that ended with an open session is never marked present; it
	// needs a human to supply the missing punch.
	if rec.HasOpenSession() {
		out.Status = attendance.StatusPendingCorrection
		out.CorrectionRequested = true
		reason := reasonMissedClockOut
		out.StatusReason = &reason
		if cfg != nil {
			out.LateMinutes = lateMinutes(rec, *cfg, loc)
		}
		return out
	}

	if cfg == nil {
		out.Status = attendance.StatusAbsent
		reason := reasonMissingShift
		out.StatusReason = &reason
		return out
	}

	fullMinutes := int(math.Round(cfg.FullDayHours * 60))
	switch {
	case out.WorkedMinutes >= fullMinutes:
		out.Status = attendance.StatusPresent
	case out.WorkedMinutes > 0:
		// Minimum-attendance policy: any clock-in with some work yields
		// half_day, even below the half-day threshold.
		out.Status = attendance.StatusHalfDay
	default:
		out.Status = attendance.StatusAbsent
		reason := reasonNoRecordedWork
		out.StatusReason = &reason
		return out
	}

	out.LateMinutes = lateMinutes(rec, *cfg, loc)

	// Early departure and overtime are mutually exclusive; leaving exactly
	// on time yields zero for both.
	if lastOut := rec.LatestCheckOut(); lastOut != nil {
		shiftEnd := cfg.EndOn(rec.WorkDate, loc)
		outLocal := lastOut.In(loc)
		if outLocal.Before(shiftEnd) {
			out.EarlyExitMinutes = wholeMinutes(shiftEnd.Sub(outLocal))
		} else if outLocal.After(shiftEnd) && cfg.OvertimeEnabled {
			excess := wholeMinutes(outLocal.Sub(shiftEnd))
			if excess >= cfg.OvertimeThresholdMinutes {
				out.OvertimeMinutes = excess
			}
		}
	}

	return out
}

// lateMinutes measures how far the first clock-in lands past the grace
// limit (shift start + grace period). On-time or early yields 0.
func lateMinutes(rec attendance.Record, cfg shift.Config, loc *time.Location) int {
	first := rec.EarliestCheckIn()
	if first == nil {
		return 0
	}
	graceLimit := cfg.StartOn(rec.WorkDate, loc).
		Add(time.Duration(cfg.GracePeriodMinutes) * time.Minute)
	inLocal := first.In(loc)
	if inLocal.After(graceLimit) {
		return wholeMinutes(inLocal.Sub(graceLimit))
	}
	return 0
}

func wholeMinutes(d time.Duration) int {
	m := int(math.Floor(d.Minutes()))
	if m < 0 {
		return 0
	}
	return m
}

// ApplyOutcome writes the outcome onto the record.
func ApplyOutcome(rec *attendance.Record, out DayOutcome) {
	rec.WorkedMinutes = out.WorkedMinutes
	rec.BreakMinutes = out.BreakMinutes
	rec.LateMinutes = out.LateMinutes
	rec.EarlyExitMinutes = out.EarlyExitMinutes
	rec.OvertimeMinutes = out.OvertimeMinutes
	rec.Status = out.Status
	rec.StatusReason = out.StatusReason
	rec.CorrectionRequested = out.CorrectionRequested
}
