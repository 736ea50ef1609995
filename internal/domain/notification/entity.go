package notification

import "time"

// EventKind is the type of clock event fanned out to the notification
// collaborator.
type EventKind string

const (
	EventClockIn    EventKind = "attendance_clock_in"
	EventClockOut   EventKind = "attendance_clock_out"
	EventBreakStart EventKind = "attendance_break_start"
	EventBreakEnd   EventKind = "attendance_break_end"
)

// ClockEvent describes one punch for downstream delivery (in-app feed,
// email digests). Delivery is best effort; attendance state never depends
// on it.
type ClockEvent struct {
	EmployeeID   string
	SessionID    string
	Kind         EventKind
	At           time.Time
	WorkLocation string
}
