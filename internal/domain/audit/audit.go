package audit

import "context"

// Entry is one append-only audit line. Meta carries entity-specific detail
// (record id, date, minutes) and is stored as JSON.
type Entry struct {
	Action string
	Actor  string
	Entity string
	Meta   map[string]interface{}
}

// Recorder is the fire-and-forget audit collaborator. Callers log failures
// and continue; auditing never blocks a state change.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}
