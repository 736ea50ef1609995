package attendance

import (
	"context"
)

// Service defines the session tracker and the read surface exposed to the
// CRUD/report layers. The acting employee is taken from the request token
// claims in the context.
type Service interface {
	// StartSession opens a new work session for today. Fails with
	// ErrAlreadyClockedIn when an open session exists, ErrInvalidLocation
	// when the work location is unknown or lacks required details.
	StartSession(ctx context.Context, req StartSessionRequest) (SessionResponse, error)

	// EndSession closes the active session and accumulates worked minutes
	// into the day record. Fails with ErrNoActiveSession or
	// ErrCannotClockOutOnBreak.
	EndSession(ctx context.Context) (SessionResponse, error)

	// StartBreak puts the active session on break.
	StartBreak(ctx context.Context) (SessionResponse, error)

	// EndBreak resumes the active session and accumulates the break.
	EndBreak(ctx context.Context) (SessionResponse, error)

	// GetActiveSession returns the caller's open session, or nil.
	GetActiveSession(ctx context.Context) (*SessionResponse, error)

	// GetMyRecords lists the caller's records for a date range.
	GetMyRecords(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)

	// ListRecords lists records across employees (admin/manager).
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)

	// ListLiveSessions returns every open session in the organization.
	ListLiveSessions(ctx context.Context) ([]LiveSessionResponse, error)

	// MonthlySummary aggregates present/half-day/absent/late counts and
	// worked/overtime minutes for one employee and month.
	MonthlySummary(ctx context.Context, req SummaryRequest) (MonthlySummaryResponse, error)
}
