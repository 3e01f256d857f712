package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	line := Format(DefaultObserver, "Alice Smith", Released("A1"))
	assert.Equal(t, "Observer → Alice Smith, A1 has been released.", line)
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "is working on A1.", Working("A1"))
	assert.Equal(t, "has submitted A1.", Submitted("A1"))
	assert.Equal(t, "A1 has passed.", Passed("A1"))
	assert.Equal(t, "A1 has failed.", Failed("A1"))
	assert.Equal(t, "A1 has received a final reminder.", FinalReminder("A1"))
	assert.Equal(t, "Alice Smith has been added to the classlist.", AddedToClasslist("Alice Smith"))
}

func TestNotifierFunc(t *testing.T) {
	var got []string
	n := NotifierFunc(func(subject, assignment, message string) {
		got = append(got, subject, assignment, message)
	})

	n.Notify("Bob", "A2", Submitted("A2"))

	assert.Equal(t, []string{"Bob", "A2", "has submitted A2."}, got)
	assert.NotPanics(t, func() { Nop.Notify("x", "y", "z") })
}
