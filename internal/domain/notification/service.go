package notification

import "context"

// Notifier is the fire-and-forget notification collaborator. A failed
// notification is logged by the caller and never rolls back the punch.
type Notifier interface {
	NotifyClockEvent(ctx context.Context, event ClockEvent) error
}
