package postgresql

import (
	"context"
	"fmt"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/notification"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/database"
	"github.com/google/uuid"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository returns a Notifier that persists clock events to
// the in-app notification feed.
func NewNotificationRepository(db *database.DB) notification.Notifier {
	return &notificationRepository{db: db}
}

var eventTitles = map[notification.EventKind]string{
	notification.EventClockIn:    "Clocked in",
	notification.EventClockOut:   "Clocked out",
	notification.EventBreakStart: "Break started",
	notification.EventBreakEnd:   "Break ended",
}

// NotifyClockEvent implements notification.Notifier.
func (n *notificationRepository) NotifyClockEvent(ctx context.Context, event notification.ClockEvent) error {
	q := GetQuerier(ctx, n.db)

	title, ok := eventTitles[event.Kind]
	if !ok {
		title = string(event.Kind)
	}

	query := `
		INSERT INTO notifications (id, recipient_id, type, title, data)
		VALUES ($1, $2, $3, $4, $5)
	`

	data := map[string]interface{}{
		"session_id":    event.SessionID,
		"at":            event.At,
		"work_location": event.WorkLocation,
	}

	_, err := q.Exec(ctx, query,
		uuid.Must(uuid.NewV7()).String(), event.EmployeeID, event.Kind, title, data,
	)
	if err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	return nil
}
