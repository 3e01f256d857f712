package student

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/alem-hub/classlist/internal/domain/assignment"
)

// ══════════════════════════════════════════════════════════════════════════════
// PORTS
// ══════════════════════════════════════════════════════════════════════════════

// Scheduler runs a task once after a delay. Implementations live in
// infrastructure: a wall-clock one for the CLI and a manual one for tests.
// A scheduled task always runs; there is no cancellation.
type Scheduler interface {
	AfterFunc(d time.Duration, name string, task func())
}

// Grader produces a grade in [assignment.MinGrade, assignment.MaxGrade].
// It must be safe for concurrent use.
type Grader interface {
	NextGrade() int
}

// Default simulated delays.
const (
	DefaultWorkDelay  = 2 * time.Second
	DefaultGradeDelay = 1 * time.Second
)

// Config wires a student to its collaborators. The zero Config means
// DefaultConfig; a partially filled one keeps its delays as given.
type Config struct {
	// Scheduler runs the delayed auto-submit and grading steps.
	Scheduler Scheduler

	// Grader produces grades for submitted work.
	Grader Grader

	// WorkDelay is how long after StartWorking the auto-submit fires.
	// Zero submits on the scheduler's next turn.
	WorkDelay time.Duration

	// GradeDelay is how long after submission the grade is assigned.
	GradeDelay time.Duration

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultConfig returns a wall-clock, randomly graded configuration.
func DefaultConfig() Config {
	return Config{
		Scheduler:  timerScheduler{},
		Grader:     randomGrader{},
		WorkDelay:  DefaultWorkDelay,
		GradeDelay: DefaultGradeDelay,
		Logger:     slog.Default(),
	}
}

// withDefaults turns the zero Config into DefaultConfig. Otherwise only nil
// collaborators are filled in: delays are taken as given, zero meaning
// "immediately" and negative clamped to zero.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.isZero() {
		return d
	}
	if c.Scheduler == nil {
		c.Scheduler = d.Scheduler
	}
	if c.Grader == nil {
		c.Grader = d.Grader
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	c.WorkDelay = max(c.WorkDelay, 0)
	c.GradeDelay = max(c.GradeDelay, 0)
	return c
}

func (c Config) isZero() bool {
	return c.Scheduler == nil && c.Grader == nil && c.Logger == nil &&
		c.WorkDelay == 0 && c.GradeDelay == 0
}

// timerScheduler is the fallback when no scheduler is injected.
type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, _ string, task func()) {
	time.AfterFunc(d, task)
}

// randomGrader is the fallback when no grader is injected.
type randomGrader struct{}

func (randomGrader) NextGrade() int {
	return assignment.MinGrade + rand.IntN(assignment.MaxGrade-assignment.MinGrade+1)
}
