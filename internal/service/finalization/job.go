package finalization

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/attendance"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/audit"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/calendar"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/correction"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/employee"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/leave"
	"github.com/Nikul55640/HRM-System-sub001/internal/domain/shift"
	attendancesvc "github.com/Nikul55640/HRM-System-sub001/internal/service/attendance"
	"github.com/google/uuid"
)

// Summary is the per-date result of a finalization run.
type Summary struct {
	Date      string `json:"date"`
	DayType   string `json:"day_type"`
	Processed int    `json:"processed"`
	Created   int    `json:"created"`
	Skipped   int    `json:"skipped"`
	Errors    int    `json:"errors"`
}

// Job closes out attendance days: it classifies each date
// (holiday > weekend > working day), synthesizes records for employees who
// never punched, and assigns terminal statuses to open records. Runs are
// idempotent; already-terminal records are skipped.
type Job struct {
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	shiftRepo      shift.Repository
	calendarRepo   calendar.Repository
	leaveRepo      leave.Repository
	correctionRepo correction.Repository
	auditor        audit.Recorder

	loc          *time.Location
	absentBuffer time.Duration
	rangeDelay   time.Duration
	now          func() time.Time
}

func NewJob(
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	shiftRepo shift.Repository,
	calendarRepo calendar.Repository,
	leaveRepo leave.Repository,
	correctionRepo correction.Repository,
	auditor audit.Recorder,
	loc *time.Location,
	absentBuffer time.Duration,
	rangeDelay time.Duration,
) *Job {
	return &Job{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		shiftRepo:      shiftRepo,
		calendarRepo:   calendarRepo,
		leaveRepo:      leaveRepo,
		correctionRepo: correctionRepo,
		auditor:        auditor,
		loc:            loc,
		absentBuffer:   absentBuffer,
		rangeDelay:     rangeDelay,
		now:            time.Now,
	}
}

// truncateDate normalizes to a calendar day at midnight UTC, matching how
// work dates are stored.
func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RunForDate finalizes one calendar date for every active employee. A
// failure for one employee is counted and logged, never propagated; only a
// failed calendar classification aborts the whole date.
func (j *Job) RunForDate(ctx context.Context, date time.Time) (Summary, error) {
	date = truncateDate(date)
	summary := Summary{Date: date.Format("2006-01-02")}

	dayType, holiday, err := calendar.Classify(ctx, j.calendarRepo, date)
	if err != nil {
		return summary, fmt.Errorf("%w: %s: %v",
			attendance.ErrCalendarClassificationFailed, summary.Date, err)
	}
	summary.DayType = string(dayType)

	employeeIDs, err := j.employeeRepo.ListActiveIDs(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list active employees: %w", err)
	}

	existing, err := j.attendanceRepo.ListRecordsForDate(ctx, date)
	if err != nil {
		return summary, fmt.Errorf("failed to load records for %s: %w", summary.Date, err)
	}

	switch dayType {
	case calendar.DayTypeHoliday, calendar.DayTypeWeekend:
		j.synthesizeNonWorkingDay(ctx, date, dayType, holiday, employeeIDs, existing, &summary)
	default:
		nowLocal := j.now().In(j.loc)
		for _, employeeID := range employeeIDs {
			if err := j.finalizeEmployee(ctx, employeeID, date, existing, nowLocal, &summary); err != nil {
				slog.Error("Finalization failed for employee",
					"employee_id", employeeID, "date", summary.Date, "error", err)
				summary.Errors++
			}
		}
	}

	if err := j.auditor.Record(ctx, audit.Entry{
		Action: "attendance.finalize_date",
		Actor:  "system",
		Entity: "attendance",
		Meta: map[string]interface{}{
			"date":      summary.Date,
			"day_type":  summary.DayType,
			"processed": summary.Processed,
			"created":   summary.Created,
			"skipped":   summary.Skipped,
			"errors":    summary.Errors,
		},
	}); err != nil {
		slog.Warn("Audit write failed", "action", "attendance.finalize_date", "error", err)
	}

	slog.Info("Finalization run completed",
		"date", summary.Date, "day_type", summary.DayType,
		"processed", summary.Processed, "created", summary.Created,
		"skipped", summary.Skipped, "errors", summary.Errors)

	return summary, nil
}

// RunRange finalizes every date in [start, end], pausing between dates so a
// month-long backfill does not monopolize the database. A date that fails
// outright is recorded in its summary and the range continues.
func (j *Job) RunRange(ctx context.Context, start, end time.Time) ([]Summary, error) {
	start, end = truncateDate(start), truncateDate(end)
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: end %s before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	var summaries []Summary
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		summary, err := j.RunForDate(ctx, date)
		if err != nil {
			slog.Error("Finalization failed for date", "date", date.Format("2006-01-02"), "error", err)
			summary.Errors++
		}
		summaries = append(summaries, summary)

		if date.Equal(end) || j.rangeDelay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return summaries, ctx.Err()
		case <-time.After(j.rangeDelay):
		}
	}
	return summaries, nil
}

// RunScheduled is the cron entrypoint: it closes out yesterday and keeps
// today's holiday/weekend coverage current.
func (j *Job) RunScheduled(ctx context.Context) error {
	today := truncateDate(j.now().In(j.loc))
	yesterday := today.AddDate(0, 0, -1)

	var firstErr error
	for _, date := range []time.Time{yesterday, today} {
		if _, err := j.RunForDate(ctx, date); err != nil {
			slog.Error("Scheduled finalization failed", "date", date.Format("2006-01-02"), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// synthesizeNonWorkingDay bulk-creates holiday/weekend records for employees
// with no record on the date. Existing records are left untouched.
func (j *Job) synthesizeNonWorkingDay(
	ctx context.Context,
	date time.Time,
	dayType calendar.DayType,
	holiday *calendar.Holiday,
	employeeIDs []string,
	existing map[string]attendance.Record,
	summary *Summary,
) {
	status := attendance.StatusWeekend
	reason := "weekend"
	if dayType == calendar.DayTypeHoliday {
		status = attendance.StatusHoliday
		reason = "holiday: " + holiday.Name
	}

	var toCreate []attendance.Record
	for _, employeeID := range employeeIDs {
		if _, ok := existing[employeeID]; ok {
			summary.Skipped++
			continue
		}
		r := reason
		toCreate = append(toCreate, attendance.Record{
			ID:           uuid.Must(uuid.NewV7()).String(),
			EmployeeID:   employeeID,
			WorkDate:     date,
			Status:       status,
			StatusReason: &r,
			Source:       attendance.SourceSystem,
		})
	}
	if len(toCreate) == 0 {
		return
	}

	created, err := j.attendanceRepo.CreateRecords(ctx, toCreate)
	if err != nil {
		slog.Error("Failed to synthesize non-working day records",
			"date", summary.Date, "day_type", dayType, "error", err)
		summary.Errors += len(toCreate)
		return
	}
	summary.Created += created
	// Races with a concurrent run land here as conflicts, not errors.
	summary.Skipped += len(toCreate) - created
}

// finalizeEmployee closes out one employee's working day. nowLocal gates the
// absent-buffer check so the job never marks someone absent while their
// shift (plus buffer) is still running. Approved leave skips the day whether
// or not a record exists; the leave module owns those days.
func (j *Job) finalizeEmployee(
	ctx context.Context,
	employeeID string,
	date time.Time,
	existing map[string]attendance.Record,
	nowLocal time.Time,
	summary *Summary,
) error {
	rec, hasRecord := existing[employeeID]
	if hasRecord && rec.Status.Terminal() {
		summary.Skipped++
		return nil
	}

	cfg, err := j.shiftRepo.GetActiveForEmployee(ctx, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to resolve shift: %w", err)
	}

	if !j.dayClosed(date, cfg, nowLocal) {
		summary.Skipped++
		return nil
	}

	onLeave, err := j.leaveRepo.IsOnApprovedLeave(ctx, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to check leave coverage: %w", err)
	}
	if onLeave {
		summary.Skipped++
		return nil
	}

	if !hasRecord {
		return j.synthesizeAbsence(ctx, employeeID, date, cfg, summary)
	}

	outcome := attendancesvc.ComputeDayOutcome(rec, cfg, j.loc)
	attendancesvc.ApplyOutcome(&rec, outcome)
	if err := j.attendanceRepo.UpdateRecord(ctx, rec); err != nil {
		return fmt.Errorf("failed to finalize record: %w", err)
	}

	if outcome.CorrectionRequested {
		created, err := j.correctionRepo.Open(ctx, employeeID, date, "missed clock-out")
		if err != nil {
			return fmt.Errorf("failed to open correction case: %w", err)
		}
		if created {
			slog.Info("Correction case opened",
				"employee_id", employeeID, "date", summary.Date)
		}
	}

	summary.Processed++
	return nil
}

// dayClosed reports whether the date is far enough in the past to finalize.
// With a shift, the cutoff is shift end plus the absent buffer; without one,
// only dates before today qualify.
func (j *Job) dayClosed(date time.Time, cfg *shift.Config, nowLocal time.Time) bool {
	if cfg != nil {
		return !nowLocal.Before(cfg.EndOn(date, j.loc).Add(j.absentBuffer))
	}
	return date.Before(truncateDate(nowLocal))
}

// synthesizeAbsence writes the absent record for an employee who never
// punched. The caller has already ruled out leave coverage.
func (j *Job) synthesizeAbsence(
	ctx context.Context,
	employeeID string,
	date time.Time,
	cfg *shift.Config,
	summary *Summary,
) error {
	reason := "no clock-in recorded"
	if cfg == nil {
		reason = "no shift assignment for this date"
	}
	created, err := j.attendanceRepo.CreateRecords(ctx, []attendance.Record{{
		ID:           uuid.Must(uuid.NewV7()).String(),
		EmployeeID:   employeeID,
		WorkDate:     date,
		Status:       attendance.StatusAbsent,
		StatusReason: &reason,
		Source:       attendance.SourceSystem,
	}})
	if err != nil {
		return fmt.Errorf("failed to create absent record: %w", err)
	}
	if created == 0 {
		summary.Skipped++
		return nil
	}
	summary.Created += created
	return nil
}
