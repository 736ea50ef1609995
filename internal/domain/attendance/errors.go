package attendance

import "errors"

// Session tracker errors. These are invalid state transitions requested by
// the client; they are returned synchronously and never retried.
var (
	ErrAlreadyClockedIn      = errors.New("you already have an open session today")
	ErrNoActiveSession       = errors.New("you have no active session")
	ErrCannotClockOutOnBreak = errors.New("cannot clock out while on break, end the break first")
	ErrAlreadyOnBreak        = errors.New("you are already on a break")
	ErrNotOnBreak            = errors.New("you are not on a break")
	ErrBreakLimitExceeded    = errors.New("you have used up today's break allowance")
	ErrInvalidLocation       = errors.New("work location is not recognized or missing required details")
)

// Finalization errors.
var (
	ErrMissingShiftAssignment       = errors.New("no shift assignment for employee on this date")
	ErrCalendarClassificationFailed = errors.New("failed to classify calendar date")
)

// General errors.
var (
	ErrRecordNotFound = errors.New("attendance record not found")
)
