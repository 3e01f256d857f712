package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/classlist/pkg/logger"
)

func newRealtime() *Realtime {
	cfg := DefaultRealtimeConfig()
	cfg.Logger = logger.Discard()
	return NewRealtime(cfg)
}

func TestRealtime_WaitIncludesChainedTasks(t *testing.T) {
	s := newRealtime()
	var ran atomic.Int32

	s.AfterFunc(5*time.Millisecond, "submit:A1", func() {
		ran.Add(1)
		s.AfterFunc(5*time.Millisecond, "grade:A1", func() {
			ran.Add(1)
		})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, s.Wait(ctx))
	assert.Equal(t, int32(2), ran.Load())
	assert.Zero(t, s.Pending())

	snap := s.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap.TotalScheduled)
	assert.Equal(t, int64(2), snap.TotalExecutions)
	assert.Equal(t, int64(1), snap.ExecutionsByKind["grade"])
	assert.Len(t, s.History(0), 2)
}

func TestRealtime_WaitRespectsContext(t *testing.T) {
	s := newRealtime()
	s.AfterFunc(time.Hour, "slow", func() {})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)
	assert.Equal(t, 1, s.Pending())
}

func TestRealtime_ClosedRejectsNewTasks(t *testing.T) {
	s := newRealtime()
	require.NoError(t, s.Close())

	err := s.Schedule(time.Millisecond, "late", func() {})
	assert.ErrorIs(t, err, ErrSchedulerClosed)
	assert.ErrorIs(t, s.Schedule(0, "nil", nil), ErrNilTask)
}

func TestRealtime_PanicIsRecorded(t *testing.T) {
	s := newRealtime()
	done := make(chan TaskResult, 1)
	s.OnTaskComplete(func(r TaskResult) { done <- r })

	s.AfterFunc(0, "boom", func() { panic("bad task") })

	select {
	case r := <-done:
		assert.False(t, r.Success)
		assert.ErrorIs(t, r.Error, ErrTaskPanicked)
	case <-time.After(2 * time.Second):
		t.Fatal("task did not complete")
	}
}

func TestManual_RunsInDueOrder(t *testing.T) {
	m := NewManual(time.Time{}, logger.Discard())
	var order []string

	m.AfterFunc(2*time.Second, "b", func() { order = append(order, "b") })
	m.AfterFunc(1*time.Second, "a", func() { order = append(order, "a") })
	m.AfterFunc(2*time.Second, "c", func() { order = append(order, "c") })

	assert.Equal(t, 0, m.Advance(500*time.Millisecond))
	assert.Empty(t, order)

	assert.Equal(t, 3, m.Advance(2*time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, time.Unix(0, 0).UTC().Add(2500*time.Millisecond), m.Now())
}

func TestManual_ChainedTasksWithinWindow(t *testing.T) {
	m := NewManual(time.Time{}, logger.Discard())
	var order []string

	m.AfterFunc(time.Second, "submit", func() {
		order = append(order, "submit")
		m.AfterFunc(time.Second, "grade", func() { order = append(order, "grade") })
	})

	m.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"submit"}, order)
	assert.Equal(t, 1, m.Pending())

	m.Advance(time.Second)
	assert.Equal(t, []string{"submit", "grade"}, order)
	assert.Zero(t, m.Pending())
}

func TestManual_RunAll(t *testing.T) {
	m := NewManual(time.Time{}, logger.Discard())
	count := 0
	m.AfterFunc(time.Minute, "x", func() {
		count++
		m.AfterFunc(time.Hour, "y", func() { count++ })
	})

	assert.Equal(t, 2, m.RunAll())
	assert.Equal(t, 2, count)
	assert.Len(t, m.History(), 2)
}

func TestTaskResult_Kind(t *testing.T) {
	assert.Equal(t, "grade", TaskResult{TaskName: "grade:A1"}.Kind())
	assert.Equal(t, "plain", TaskResult{TaskName: "plain"}.Kind())
}
