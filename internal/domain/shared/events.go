package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types.
const (
	// EventNotificationSent carries one observer notification for a status transition.
	EventNotificationSent EventType = "notification.sent"

	// Roster events
	EventStudentAdded   EventType = "roster.student_added"
	EventStudentRemoved EventType = "roster.student_removed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventID returns the unique event identifier.
	EventID() string

	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventID implements Event interface.
func (e BaseEvent) EventID() string {
	return e.ID
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Notification Events
// ═══════════════════════════════════════════════════════════════════════════

// NotificationEvent is one (subject, assignment, message) triple reported by
// a student. The aggregate is the student's full name.
type NotificationEvent struct {
	BaseEvent
	Subject    string `json:"subject"`
	Assignment string `json:"assignment"`
	Message    string `json:"message"`
}

// Payload implements Event interface.
func (e NotificationEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"subject":    e.Subject,
		"assignment": e.Assignment,
		"message":    e.Message,
	}
}

// NewNotificationEvent creates a new NotificationEvent.
func NewNotificationEvent(subject, assignment, message string) NotificationEvent {
	return NotificationEvent{
		BaseEvent:  NewBaseEvent(EventNotificationSent, subject),
		Subject:    subject,
		Assignment: assignment,
		Message:    message,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Roster Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentAddedEvent is emitted when a student joins the classlist.
type StudentAddedEvent struct {
	BaseEvent
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Payload implements Event interface.
func (e StudentAddedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"full_name": e.FullName,
		"email":     e.Email,
	}
}

// NewStudentAddedEvent creates a new StudentAddedEvent.
func NewStudentAddedEvent(studentID, fullName, email string) StudentAddedEvent {
	return StudentAddedEvent{
		BaseEvent: NewBaseEvent(EventStudentAdded, studentID),
		FullName:  fullName,
		Email:     email,
	}
}

// StudentRemovedEvent is emitted once per RemoveStudent call that removed anyone.
type StudentRemovedEvent struct {
	BaseEvent
	FullName string `json:"full_name"`
	Count    int    `json:"count"`
}

// Payload implements Event interface.
func (e StudentRemovedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"full_name": e.FullName,
		"count":     e.Count,
	}
}

// NewStudentRemovedEvent creates a new StudentRemovedEvent.
func NewStudentRemovedEvent(fullName string, count int) StudentRemovedEvent {
	return StudentRemovedEvent{
		BaseEvent: NewBaseEvent(EventStudentRemoved, fullName),
		FullName:  fullName,
		Count:     count,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Bus contracts
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
