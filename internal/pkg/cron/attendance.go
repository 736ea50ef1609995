package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/service/finalization"
)

// AttendanceJobs owns the scheduled finalization runs.
type AttendanceJobs struct {
	finalizationJob *finalization.Job
}

func NewAttendanceJobs(finalizationJob *finalization.Job) *AttendanceJobs {
	return &AttendanceJobs{finalizationJob: finalizationJob}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("finalize_attendance_days", interval, j.FinalizeAttendanceDays)
}

// FinalizeAttendanceDays closes out yesterday's records and keeps today's
// holiday/weekend coverage current. The underlying run is idempotent, so a
// short interval only costs reads.
func (j *AttendanceJobs) FinalizeAttendanceDays(ctx context.Context) error {
	slog.Info("Cron: Starting attendance finalization")
	return j.finalizationJob.RunScheduled(ctx)
}
