package events

import (
	"context"
	"log/slog"

	"github.com/taskboard-app/taskboard/internal/core/datamodel/jsonblob"
)

// PrefsLookup fetches a user's notification preference blob.
type PrefsLookup func(userID string) (jsonblob.Map, error)

// NotificationLogger is the delivery stand-in: it honors the recipient's
// notification preference flags and writes what would have been sent to the
// log. Actual outbound delivery is out of scope.
type NotificationLogger struct {
	prefs  PrefsLookup
	logger *slog.Logger
}

func NewNotificationLogger(prefs PrefsLookup, logger *slog.Logger) *NotificationLogger {
	return &NotificationLogger{prefs: prefs, logger: logger}
}

// Register attaches the subscriber to every event type it handles.
func (n *NotificationLogger) Register(bus *Bus) {
	for _, eventType := range []string{TaskCreated, TaskStatusChanged, ProjectMemberAdded} {
		bus.Subscribe(eventType, n.Handle)
	}
}

// Handle suppresses the notification when the recipient opted out of the
// event type. An absent flag means opted in.
func (n *NotificationLogger) Handle(_ context.Context, event Event) error {
	if event.RecipientID == "" || event.RecipientID == event.ActorID {
		return nil
	}

	prefs, err := n.prefs(event.RecipientID)
	if err != nil {
		return err
	}
	if enabled, ok := prefs[event.Type].(bool); ok && !enabled {
		n.logger.Debug("notification suppressed by preference",
			"event_type", event.Type, "recipient_id", event.RecipientID)
		return nil
	}

	n.logger.Info("notification",
		"event_type", event.Type,
		"event_id", event.ID,
		"actor_id", event.ActorID,
		"recipient_id", event.RecipientID,
		"data", event.Data)
	return nil
}
