package scheduler

import (
	"container/heap"
	"log/slog"
	"sync"
	"time"
)

// Manual is a scheduler driven by a virtual clock. Nothing runs until
// Advance or RunAll is called; due tasks then run synchronously on the
// caller's goroutine in (due time, scheduling order) order.
type Manual struct {
	mu sync.Mutex

	now    time.Time
	seq    uint64
	queue  taskQueue
	logger *slog.Logger

	history []TaskResult
}

// NewManual creates a virtual-clock scheduler starting at start.
// A zero start uses the Unix epoch so runs are reproducible.
func NewManual(start time.Time, logger *slog.Logger) *Manual {
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manual{
		now:    start,
		logger: logger,
	}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc implements student.Scheduler.
func (m *Manual) AfterFunc(d time.Duration, name string, task func()) {
	if task == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	heap.Push(&m.queue, &manualTask{
		name: name,
		due:  m.now.Add(d),
		seq:  m.seq,
		run:  task,
	})
}

// Advance moves the clock forward by d, running every task that becomes due,
// including tasks scheduled by tasks run during this call. It returns the
// number of tasks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	ran := 0
	for {
		m.mu.Lock()
		if m.queue.Len() == 0 || m.queue[0].due.After(target) {
			m.now = target
			m.mu.Unlock()
			return ran
		}
		t := heap.Pop(&m.queue).(*manualTask)
		if t.due.After(m.now) {
			m.now = t.due
		}
		m.mu.Unlock()

		m.execute(t)
		ran++
	}
}

// RunAll advances until no task is pending and returns the number run.
func (m *Manual) RunAll() int {
	ran := 0
	for {
		m.mu.Lock()
		if m.queue.Len() == 0 {
			m.mu.Unlock()
			return ran
		}
		next := m.queue[0].due.Sub(m.now)
		m.mu.Unlock()

		if next < 0 {
			next = 0
		}
		ran += m.Advance(next)
	}
}

// Pending returns the number of tasks not yet run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Len()
}

// History returns every task result, oldest first.
func (m *Manual) History() []TaskResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TaskResult, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Manual) execute(t *manualTask) {
	m.mu.Lock()
	startedAt := m.now
	m.mu.Unlock()

	err := safeRun(t.run)
	if err != nil {
		m.logger.Error("task failed", "task", t.name, "error", err)
	}

	m.mu.Lock()
	m.history = append(m.history, TaskResult{
		TaskName:    t.name,
		DueAt:       t.due,
		StartedAt:   startedAt,
		CompletedAt: startedAt,
		Success:     err == nil,
		Error:       err,
	})
	m.mu.Unlock()
}

// ══════════════════════════════════════════════════════════════════════════════
// TASK QUEUE
// ══════════════════════════════════════════════════════════════════════════════

type manualTask struct {
	name string
	due  time.Time
	seq  uint64
	run  func()
}

// taskQueue is a min-heap ordered by due time, then scheduling order.
type taskQueue []*manualTask

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*manualTask)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
