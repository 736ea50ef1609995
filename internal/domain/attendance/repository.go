package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records, sessions and
// breaks. Dates are calendar days (midnight, no time component).
//
// The single-open-session and one-record-per-day invariants are enforced at
// the storage layer (unique constraints), not only here: CreateSession must
// fail with ErrAlreadyClockedIn when a non-completed session already exists
// for the employee and date, even under concurrent calls.
type Repository interface {
	// UpsertRecord creates the day record if missing, or reopens an
	// existing in_progress/absent record, and returns it. Terminal
	// holiday/weekend/present records are returned unchanged.
	UpsertRecord(ctx context.Context, rec Record) (Record, error)

	// GetRecord loads the record with its sessions and breaks, or nil.
	GetRecord(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// UpdateRecord writes aggregate minutes, status, reason and correction
	// flag. It never downgrades a terminal status back to in_progress.
	UpdateRecord(ctx context.Context, rec Record) error

	// CreateRecords inserts synthesized records, skipping duplicates on the
	// (employee_id, work_date) constraint. Returns the number created.
	CreateRecords(ctx context.Context, recs []Record) (int, error)

	// ListRecordsForDate returns every record for the date, sessions
	// included, keyed by employee.
	ListRecordsForDate(ctx context.Context, date time.Time) (map[string]Record, error)

	// CreateSession appends a session. Fails with ErrAlreadyClockedIn when
	// an open session exists for the same employee and date.
	CreateSession(ctx context.Context, s Session) (Session, error)

	// GetOpenSession returns the employee's active or on-break session
	// (breaks loaded), or nil.
	GetOpenSession(ctx context.Context, employeeID string) (*Session, error)

	// UpdateSession writes checkout, status and aggregate break/worked
	// minutes for a session.
	UpdateSession(ctx context.Context, s Session) error

	// OpenBreak starts a break on the session. Fails with ErrAlreadyOnBreak
	// when an open break exists.
	OpenBreak(ctx context.Context, b Break) (Break, error)

	// CloseBreak sets the end time of the session's open break and returns
	// it. Fails with ErrNotOnBreak when no break is open.
	CloseBreak(ctx context.Context, sessionID string, end time.Time) (Break, error)

	// ListOpenSessions returns all currently open sessions across the
	// organization, employee names joined.
	ListOpenSessions(ctx context.Context) ([]Session, error)

	// List returns filtered, paginated records (newest first).
	List(ctx context.Context, filter RecordFilter) ([]Record, int64, error)

	// MonthlySummary aggregates one employee's records in [from, to).
	MonthlySummary(ctx context.Context, employeeID string, from, to time.Time) (MonthlySummaryResponse, error)
}
