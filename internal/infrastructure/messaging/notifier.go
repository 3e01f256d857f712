package messaging

import (
	"log/slog"

	"github.com/alem-hub/classlist/internal/domain/notification"
	"github.com/alem-hub/classlist/internal/domain/shared"
)

// BusNotifier is the notification.Notifier handed to students. Each
// notification becomes a shared.NotificationEvent on the bus.
type BusNotifier struct {
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewBusNotifier creates a notifier publishing onto p.
func NewBusNotifier(p shared.EventPublisher, logger *slog.Logger) *BusNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &BusNotifier{publisher: p, logger: logger}
}

// Notify implements notification.Notifier. Publish failures are logged; the
// simulation never sees them.
func (n *BusNotifier) Notify(subject, assignment, message string) {
	event := shared.NewNotificationEvent(subject, assignment, message)
	if err := n.publisher.Publish(event); err != nil {
		n.logger.Warn("notification dropped",
			"student", subject,
			"assignment", assignment,
			"error", err,
		)
	}
}

var _ notification.Notifier = (*BusNotifier)(nil)
