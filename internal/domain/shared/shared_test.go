package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := StudentNotFound("Alice Smith")

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Contains(t, err.Error(), `roster.Find: student not found: no student named "Alice Smith"`)

	assert.True(t, errors.Is(ErrEventBusClosed, ErrClosed))
	assert.True(t, IsValidation(ErrNilHandler))
}

func TestNewNotificationEvent(t *testing.T) {
	e := NewNotificationEvent("Alice Smith", "A1", "A1 has been released.")

	assert.Equal(t, EventNotificationSent, e.EventType())
	assert.Equal(t, "Alice Smith", e.AggregateID())
	assert.NotEmpty(t, e.EventID())
	assert.False(t, e.OccurredAt().IsZero())
	assert.Equal(t, "A1", e.Payload()["assignment"])

	other := NewNotificationEvent("Alice Smith", "A1", "A1 has been released.")
	assert.NotEqual(t, e.EventID(), other.EventID())
}
