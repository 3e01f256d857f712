// Package scheduler runs the simulation's delayed steps (auto-submit and
// grading). Realtime fires tasks on the wall clock; Manual keeps a virtual
// clock that tests and the --virtual demo advance explicitly.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// TASK RESULT
// ══════════════════════════════════════════════════════════════════════════════

// TaskResult contains the result of one task execution.
type TaskResult struct {
	TaskName    string
	DueAt       time.Time
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Success     bool
	Error       error
}

// Kind returns the task name up to the first colon ("grade:A1" -> "grade").
func (r TaskResult) Kind() string {
	return taskKind(r.TaskName)
}

func taskKind(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i]
	}
	return name
}

// ══════════════════════════════════════════════════════════════════════════════
// REALTIME SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// Realtime runs each task once on its own goroutine after the requested delay.
// Once scheduled, a task always runs; Close only refuses new tasks.
type Realtime struct {
	mu sync.Mutex

	logger *slog.Logger
	closed bool

	// pending counts scheduled tasks that have not finished; idle is closed
	// whenever pending drops to zero.
	pending int
	idle    chan struct{}

	metrics        *Metrics
	history        []TaskResult
	maxHistorySize int

	onTaskComplete func(result TaskResult)
}

// RealtimeConfig contains configuration for Realtime.
type RealtimeConfig struct {
	// Logger for structured logging.
	Logger *slog.Logger

	// MaxHistorySize is the maximum number of task results to keep.
	MaxHistorySize int

	// EnableMetrics enables metrics collection.
	EnableMetrics bool
}

// DefaultRealtimeConfig returns sensible defaults.
func DefaultRealtimeConfig() RealtimeConfig {
	return RealtimeConfig{
		Logger:         slog.Default(),
		MaxHistorySize: 1000,
		EnableMetrics:  true,
	}
}

// NewRealtime creates a wall-clock scheduler.
func NewRealtime(config RealtimeConfig) *Realtime {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MaxHistorySize <= 0 {
		config.MaxHistorySize = 1000
	}

	idle := make(chan struct{})
	close(idle)

	s := &Realtime{
		logger:         config.Logger,
		idle:           idle,
		maxHistorySize: config.MaxHistorySize,
		history:        make([]TaskResult, 0, 16),
	}
	if config.EnableMetrics {
		s.metrics = NewMetrics()
	}
	return s
}

// Schedule runs task once after d.
func (s *Realtime) Schedule(d time.Duration, name string, task func()) error {
	if task == nil {
		return ErrNilTask
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSchedulerClosed, name)
	}
	if s.pending == 0 {
		s.idle = make(chan struct{})
	}
	s.pending++
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordScheduled(taskKind(name))
	}

	due := time.Now().Add(d)
	s.logger.Debug("task scheduled", "task", name, "delay", d.String())

	time.AfterFunc(d, func() {
		s.run(name, due, task)
	})
	return nil
}

// AfterFunc implements student.Scheduler. Tasks offered after Close are
// dropped with an error log.
func (s *Realtime) AfterFunc(d time.Duration, name string, task func()) {
	if err := s.Schedule(d, name, task); err != nil {
		s.logger.Error("task rejected", "task", name, "error", err)
	}
}

// run executes a task and records the result.
func (s *Realtime) run(name string, due time.Time, task func()) {
	defer s.done()

	startedAt := time.Now()
	err := safeRun(task)
	completedAt := time.Now()

	result := TaskResult{
		TaskName:    name,
		DueAt:       due,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    completedAt.Sub(startedAt),
		Success:     err == nil,
		Error:       err,
	}

	if s.metrics != nil {
		s.metrics.RecordExecution(result.Kind(), result.Duration, result.Success)
	}

	s.mu.Lock()
	s.addToHistory(result)
	hook := s.onTaskComplete
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("task failed", "task", name, "error", err)
	} else {
		s.logger.Debug("task completed", "task", name, "duration", result.Duration.String())
	}

	if hook != nil {
		hook(result)
	}
}

func (s *Realtime) done() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if s.pending == 0 {
		close(s.idle)
	}
}

// addToHistory adds a result to the history with size limit. Callers hold s.mu.
func (s *Realtime) addToHistory(result TaskResult) {
	s.history = append(s.history, result)
	if len(s.history) > s.maxHistorySize {
		s.history = s.history[len(s.history)-s.maxHistorySize:]
	}
}

// Wait blocks until no task is pending, including tasks scheduled by other
// tasks while waiting, or until ctx is done.
func (s *Realtime) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.pending == 0 {
			s.mu.Unlock()
			return nil
		}
		idle := s.idle
		s.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close refuses further tasks. Already scheduled tasks still run.
func (s *Realtime) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Pending returns the number of scheduled tasks that have not finished.
func (s *Realtime) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// History returns up to limit most recent task results, oldest first.
func (s *Realtime) History(limit int) []TaskResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}
	out := make([]TaskResult, limit)
	copy(out, s.history[len(s.history)-limit:])
	return out
}

// Metrics returns the metrics tracker, nil when disabled.
func (s *Realtime) Metrics() *Metrics {
	return s.metrics
}

// OnTaskComplete sets a callback to be called after each task.
func (s *Realtime) OnTaskComplete(fn func(result TaskResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTaskComplete = fn
}

// safeRun runs task and converts a panic into an error.
func safeRun(task func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	task()
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// ══════════════════════════════════════════════════════════════════════════════

// Metrics tracks task counts by kind.
type Metrics struct {
	mu sync.RWMutex

	TotalScheduled  int64
	TotalExecutions int64
	TotalFailures   int64
	TotalDuration   time.Duration

	ScheduledByKind  map[string]int64
	ExecutionsByKind map[string]int64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		ScheduledByKind:  make(map[string]int64),
		ExecutionsByKind: make(map[string]int64),
	}
}

// RecordScheduled records a newly scheduled task.
func (m *Metrics) RecordScheduled(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalScheduled++
	m.ScheduledByKind[kind]++
}

// RecordExecution records a task execution.
func (m *Metrics) RecordExecution(kind string, duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalExecutions++
	m.TotalDuration += duration
	m.ExecutionsByKind[kind]++
	if !success {
		m.TotalFailures++
	}
}

// Snapshot returns a point-in-time snapshot of metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byKind := make(map[string]int64, len(m.ExecutionsByKind))
	for k, v := range m.ExecutionsByKind {
		byKind[k] = v
	}

	return MetricsSnapshot{
		TotalScheduled:   m.TotalScheduled,
		TotalExecutions:  m.TotalExecutions,
		TotalFailures:    m.TotalFailures,
		ExecutionsByKind: byKind,
	}
}

// MetricsSnapshot is a point-in-time snapshot of scheduler metrics.
type MetricsSnapshot struct {
	TotalScheduled   int64
	TotalExecutions  int64
	TotalFailures    int64
	ExecutionsByKind map[string]int64
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNilTask is returned when scheduling a nil task.
	ErrNilTask = errors.New("task cannot be nil")

	// ErrSchedulerClosed is returned when scheduling on a closed scheduler.
	ErrSchedulerClosed = errors.New("scheduler is closed")

	// ErrTaskPanicked wraps a recovered task panic.
	ErrTaskPanicked = errors.New("task panicked")
)
