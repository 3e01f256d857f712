package messaging

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/alem-hub/classlist/internal/domain/notification"
	"github.com/alem-hub/classlist/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSOLE
// ══════════════════════════════════════════════════════════════════════════════

// ConsoleSubscriber prints each notification as an observer line.
type ConsoleSubscriber struct {
	mu       sync.Mutex
	out      io.Writer
	observer string
}

// NewConsoleSubscriber creates a console printer. An empty observer name
// falls back to notification.DefaultObserver.
func NewConsoleSubscriber(out io.Writer, observer string) *ConsoleSubscriber {
	if observer == "" {
		observer = notification.DefaultObserver
	}
	return &ConsoleSubscriber{out: out, observer: observer}
}

// Handle is a shared.EventHandler for EventNotificationSent.
func (c *ConsoleSubscriber) Handle(event shared.Event) error {
	n, ok := event.(shared.NotificationEvent)
	if !ok {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, notification.Format(c.observer, n.Subject, n.Message))
	return err
}

// ══════════════════════════════════════════════════════════════════════════════
// STRUCTURED LOG
// ══════════════════════════════════════════════════════════════════════════════

// LogSubscriber writes every event to a structured logger at debug level.
func LogSubscriber(logger *slog.Logger) shared.EventHandler {
	return func(event shared.Event) error {
		attrs := []any{
			"event_type", string(event.EventType()),
			"event_id", event.EventID(),
			"aggregate_id", event.AggregateID(),
		}
		for k, v := range event.Payload() {
			attrs = append(attrs, k, v)
		}
		logger.Debug("event", attrs...)
		return nil
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// JOURNAL
// ══════════════════════════════════════════════════════════════════════════════

// Journal keeps every notification event in arrival order.
type Journal struct {
	mu      sync.RWMutex
	entries []shared.NotificationEvent
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Handle is a shared.EventHandler for EventNotificationSent.
func (j *Journal) Handle(event shared.Event) error {
	n, ok := event.(shared.NotificationEvent)
	if !ok {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, n)
	return nil
}

// Entries returns a copy of every recorded notification.
func (j *Journal) Entries() []shared.NotificationEvent {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]shared.NotificationEvent, len(j.entries))
	copy(out, j.entries)
	return out
}

// ForStudent returns the notifications whose subject is fullName.
func (j *Journal) ForStudent(fullName string) []shared.NotificationEvent {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []shared.NotificationEvent
	for _, e := range j.entries {
		if e.Subject == fullName {
			out = append(out, e)
		}
	}
	return out
}

// Messages returns the message text of every notification about one
// student's assignment, in order.
func (j *Journal) Messages(fullName, assignment string) []string {
	var out []string
	for _, e := range j.ForStudent(fullName) {
		if e.Assignment == assignment {
			out = append(out, e.Message)
		}
	}
	return out
}

// Len returns the number of recorded notifications.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}
