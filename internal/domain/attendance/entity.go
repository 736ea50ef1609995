package attendance

import (
	"time"
)

// Status is the classification of a day record.
type Status string

const (
	// StatusInProgress is the only non-terminal record status. The day is
	// still open: sessions may be added until the finalization job or the
	// employee's last clock-out closes it.
	StatusInProgress Status = "in_progress"

	StatusPresent           Status = "present"
	StatusHalfDay           Status = "half_day"
	StatusAbsent            Status = "absent"
	StatusHoliday           Status = "holiday"
	StatusWeekend           Status = "weekend"
	StatusPendingCorrection Status = "pending_correction"
)

var StatusValues = []string{
	string(StatusInProgress),
	string(StatusPresent),
	string(StatusHalfDay),
	string(StatusAbsent),
	string(StatusHoliday),
	string(StatusWeekend),
	string(StatusPendingCorrection),
}

// Terminal reports whether s may no longer be changed by finalization.
func (s Status) Terminal() bool {
	switch s {
	case StatusPresent, StatusHalfDay, StatusAbsent, StatusHoliday, StatusWeekend, StatusPendingCorrection:
		return true
	case StatusInProgress:
		return false
	}
	return false
}

// SessionStatus is the per-session state machine:
// active -> on_break -> active -> completed.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionOnBreak   SessionStatus = "on_break"
	SessionCompleted SessionStatus = "completed"
)

// WorkLocation is where a session is worked from.
type WorkLocation string

const (
	LocationOffice     WorkLocation = "office"
	LocationRemote     WorkLocation = "remote"
	LocationClientSite WorkLocation = "client_site"
)

var WorkLocationValues = []string{
	string(LocationOffice),
	string(LocationRemote),
	string(LocationClientSite),
}

// RequiresDetails reports whether the location needs a free-text detail
// (client site name/address).
func (l WorkLocation) RequiresDetails() bool {
	return l == LocationClientSite
}

// Source records who produced the record.
type Source string

const (
	SourceSelf   Source = "self"   // employee punched in themselves
	SourceManual Source = "manual" // HR created/edited the record
	SourceSystem Source = "system" // synthesized by the finalization job
)

// Break is a sub-interval of a Session. EndTime is nil while the break is
// open; at most one open break exists per session (enforced by a partial
// unique index).
type Break struct {
	ID        string
	SessionID string
	StartTime time.Time
	EndTime   *time.Time
}

// Minutes returns the whole minutes between start and end, 0 while open.
func (b Break) Minutes() int {
	if b.EndTime == nil {
		return 0
	}
	m := int(b.EndTime.Sub(b.StartTime).Minutes())
	if m < 0 {
		return 0
	}
	return m
}

// Session is one clock-in-to-clock-out interval within a day. CheckOut is
// nil until the session is closed. At most one non-completed session exists
// per (employee, work date), enforced by a partial unique index.
type Session struct {
	ID                string
	RecordID          string
	EmployeeID        string
	WorkDate          time.Time
	CheckIn           time.Time
	CheckOut          *time.Time
	WorkLocation      WorkLocation
	LocationDetails   *string
	Breaks            []Break
	TotalBreakMinutes int
	WorkedMinutes     *int
	Status            SessionStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined for live-board responses.
	EmployeeName *string
}

// Record is the single attendance record for (employee, work date). The
// aggregate minute fields are written by session closure and by the daily
// finalizer; a terminal Status is assigned exactly once.
type Record struct {
	ID                  string
	EmployeeID          string
	WorkDate            time.Time
	Sessions            []Session
	WorkedMinutes       int
	BreakMinutes        int
	LateMinutes         int
	EarlyExitMinutes    int
	OvertimeMinutes     int
	Status              Status
	StatusReason        *string
	CorrectionRequested bool
	Source              Source
	CreatedBy           *string
	UpdatedBy           *string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Joined for list responses.
	EmployeeName *string
}

// EarliestCheckIn returns the first clock-in across the record's sessions,
// or nil when the employee never clocked in.
func (r Record) EarliestCheckIn() *time.Time {
	var earliest *time.Time
	for i := range r.Sessions {
		in := r.Sessions[i].CheckIn
		if earliest == nil || in.Before(*earliest) {
			t := in
			earliest = &t
		}
	}
	return earliest
}

// LatestCheckOut returns the last clock-out across completed sessions, or
// nil when no session has been closed.
func (r Record) LatestCheckOut() *time.Time {
	var latest *time.Time
	for i := range r.Sessions {
		out := r.Sessions[i].CheckOut
		if out == nil {
			continue
		}
		if latest == nil || out.After(*latest) {
			t := *out
			latest = &t
		}
	}
	return latest
}

// HasOpenSession reports whether any session is still active or on break.
func (r Record) HasOpenSession() bool {
	for i := range r.Sessions {
		if r.Sessions[i].Status != SessionCompleted {
			return true
		}
	}
	return false
}
