package messaging

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/classlist/internal/domain/notification"
	"github.com/alem-hub/classlist/internal/domain/shared"
	"github.com/alem-hub/classlist/pkg/logger"
)

func newBus(async bool) *InMemoryEventBus {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = async
	cfg.Logger = logger.Discard()
	return NewInMemoryEventBus(cfg)
}

func TestBusNotifier_ConsoleAndJournal(t *testing.T) {
	bus := newBus(false)
	var out bytes.Buffer
	console := NewConsoleSubscriber(&out, "")
	journal := NewJournal()

	require.NoError(t, bus.Subscribe(shared.EventNotificationSent, console.Handle))
	require.NoError(t, bus.Subscribe(shared.EventNotificationSent, journal.Handle))
	require.NoError(t, bus.SubscribeAll(LogSubscriber(logger.Discard())))

	n := NewBusNotifier(bus, logger.Discard())
	n.Notify("Alice Smith", "A1", notification.Released("A1"))
	n.Notify("Bob Jones", "A1", notification.Released("A1"))
	n.Notify("Alice Smith", "A1", notification.Working("A1"))

	assert.Equal(t,
		"Observer → Alice Smith, A1 has been released.\n"+
			"Observer → Bob Jones, A1 has been released.\n"+
			"Observer → Alice Smith, is working on A1.\n",
		out.String())

	assert.Equal(t, 3, journal.Len())
	assert.Len(t, journal.ForStudent("Alice Smith"), 2)
	assert.Equal(t, []string{"A1 has been released.", "is working on A1."}, journal.Messages("Alice Smith", "A1"))

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(3), snap.TotalPublished)
	assert.Equal(t, int64(9), snap.TotalHandlerExecs)
	assert.Equal(t, 1.0, snap.HandlerSuccessRate)
}

func TestInMemoryEventBus_SyncKeepsPerStudentOrder(t *testing.T) {
	bus := newBus(false)
	journal := NewJournal()
	var out bytes.Buffer
	console := NewConsoleSubscriber(&out, "")
	var mu sync.Mutex
	require.NoError(t, bus.Subscribe(shared.EventNotificationSent, journal.Handle))
	require.NoError(t, bus.Subscribe(shared.EventNotificationSent, func(e shared.Event) error {
		mu.Lock()
		defer mu.Unlock()
		return console.Handle(e)
	}))

	n := NewBusNotifier(bus, logger.Discard())
	students := []string{"Alice Smith", "Bob Jones", "Carol White", "Dan Brown"}
	const perStudent = 100

	var wg sync.WaitGroup
	for _, name := range students {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perStudent; i++ {
				n.Notify(name, "A1", fmt.Sprintf("step %d.", i))
			}
		}()
	}
	wg.Wait()

	want := make([]string, perStudent)
	for i := range want {
		want[i] = fmt.Sprintf("step %d.", i)
	}
	for _, name := range students {
		assert.Equal(t, want, journal.Messages(name, "A1"), name)
	}
	assert.Equal(t, len(students)*perStudent, journal.Len())
	assert.Equal(t, len(students)*perStudent, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestInMemoryEventBus_AsyncCloseDrains(t *testing.T) {
	bus := newBus(true)
	var handled atomic.Int32
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error {
		handled.Add(1)
		return nil
	}))

	for i := 0; i < 50; i++ {
		require.NoError(t, bus.Publish(shared.NewNotificationEvent("s", "a", "m")))
	}
	require.NoError(t, bus.Close())

	assert.Equal(t, int32(50), handled.Load())
}

func TestInMemoryEventBus_Errors(t *testing.T) {
	bus := newBus(false)

	assert.ErrorIs(t, bus.Subscribe(shared.EventNotificationSent, nil), shared.ErrInvalidInput)
	assert.ErrorIs(t, bus.Publish(nil), shared.ErrInvalidInput)

	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { return errors.New("handler broke") }))
	assert.NoError(t, bus.Publish(shared.NewNotificationEvent("s", "a", "m")), "handler errors are logged, not returned")
	assert.Equal(t, 0.0, bus.Metrics().Snapshot().HandlerSuccessRate)

	require.NoError(t, bus.Close())
	assert.ErrorIs(t, bus.Publish(shared.NewNotificationEvent("s", "a", "m")), shared.ErrClosed)
	assert.ErrorIs(t, bus.SubscribeAll(func(shared.Event) error { return nil }), shared.ErrClosed)
}

func TestBusNotifier_ClosedBusDoesNotPanic(t *testing.T) {
	bus := newBus(false)
	require.NoError(t, bus.Close())

	n := NewBusNotifier(bus, logger.Discard())
	assert.NotPanics(t, func() { n.Notify("Alice Smith", "A1", notification.Submitted("A1")) })
}

func TestConsoleSubscriber_IgnoresOtherEvents(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleSubscriber(&out, "Teacher")

	require.NoError(t, c.Handle(shared.NewStudentAddedEvent("id", "Alice Smith", "a@example.com")))
	assert.Empty(t, out.String())

	require.NoError(t, c.Handle(shared.NewNotificationEvent("Alice Smith", "A1", "A1 has passed.")))
	assert.Equal(t, "Teacher → Alice Smith, A1 has passed.\n", out.String())
}
