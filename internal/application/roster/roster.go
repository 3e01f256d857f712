// Package roster coordinates batch operations across the students of one
// class: mass release, reminders, and outstanding-work queries.
package roster

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/volatiletech/null/v8"
	"golang.org/x/sync/errgroup"

	"github.com/alem-hub/classlist/internal/domain/assignment"
	"github.com/alem-hub/classlist/internal/domain/notification"
	"github.com/alem-hub/classlist/internal/domain/shared"
	"github.com/alem-hub/classlist/internal/domain/student"
	"github.com/alem-hub/classlist/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER
// ══════════════════════════════════════════════════════════════════════════════

// Roster is the ordered classlist. Duplicate full names are allowed.
type Roster struct {
	mu       sync.RWMutex
	students []*student.Student

	notifier  notification.Notifier
	out       io.Writer
	outMu     sync.Mutex
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// Option configures a Roster.
type Option func(*Roster)

// WithOutput sets where the classlist announcements are written (default stdout).
func WithOutput(w io.Writer) Option {
	return func(r *Roster) { r.out = w }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Roster) { r.logger = l }
}

// WithEventPublisher publishes roster membership events.
func WithEventPublisher(p shared.EventPublisher) Option {
	return func(r *Roster) { r.publisher = p }
}

// New creates an empty roster. The notifier is the one shared with the
// class's students.
func New(n notification.Notifier, opts ...Option) *Roster {
	if n == nil {
		n = notification.Nop
	}
	r := &Roster{
		notifier: n,
		out:      os.Stdout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logger.Component("roster"))
	return r
}

// Notifier returns the notifier students of this roster should report to.
func (r *Roster) Notifier() notification.Notifier {
	return r.notifier
}

// AddStudent appends s and announces it directly on the roster's output.
func (r *Roster) AddStudent(s *student.Student) {
	r.mu.Lock()
	r.students = append(r.students, s)
	r.mu.Unlock()

	r.outMu.Lock()
	fmt.Fprintln(r.out, notification.AddedToClasslist(s.FullName()))
	r.outMu.Unlock()

	r.logger.Debug("student added", logger.Student(s.FullName()), logger.StudentID(s.ID()))
	r.publish(shared.NewStudentAddedEvent(s.ID(), s.FullName(), s.Email()))
}

// RemoveStudent removes every student named exactly fullName and returns
// how many were removed.
func (r *Roster) RemoveStudent(fullName string) int {
	r.mu.Lock()
	kept := r.students[:0]
	removed := 0
	for _, s := range r.students {
		if s.FullName() == fullName {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(r.students); i++ {
		r.students[i] = nil
	}
	r.students = kept
	r.mu.Unlock()

	if removed > 0 {
		r.logger.Debug("students removed", logger.Student(fullName), "count", removed)
		r.publish(shared.NewStudentRemovedEvent(fullName, removed))
	}
	return removed
}

// FindStudentByName returns the first student named exactly fullName.
func (r *Roster) FindStudentByName(fullName string) (*student.Student, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.students {
		if s.FullName() == fullName {
			return s, true
		}
	}
	return nil, false
}

// Lookup is FindStudentByName for callers that treat a missing student as an
// error (shared.ErrNotFound).
func (r *Roster) Lookup(fullName string) (*student.Student, error) {
	s, ok := r.FindStudentByName(fullName)
	if !ok {
		return nil, shared.StudentNotFound(fullName)
	}
	return s, nil
}

// Students returns the classlist in insertion order.
func (r *Roster) Students() []*student.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*student.Student, len(r.students))
	copy(out, r.students)
	return out
}

// Len returns the number of students.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.students)
}

// ══════════════════════════════════════════════════════════════════════════════
// COORDINATION
// ══════════════════════════════════════════════════════════════════════════════

// FindOutstandingAssignments returns the full names of students who still
// owe work.
//
// With a name, a student owes work when they have no record for it or the
// record is not done. Without a name (""), a student owes work when any of
// their records is not done and is released, working or final-reminder.
// The two rules differ on purpose; both are kept as is.
func (r *Roster) FindOutstandingAssignments(name string) []string {
	var names []string
	for _, s := range r.Students() {
		if owesWork(s, name) {
			names = append(names, s.FullName())
		}
	}
	return names
}

func owesWork(s *student.Student, name string) bool {
	if name == "" {
		return len(s.OutstandingAssignments()) > 0
	}
	status, ok := s.Status(name)
	return !ok || !status.IsDone()
}

// ReleaseAssignmentsParallel releases every name to every student. One task
// per (name, student) pair is started in input order; the call returns once
// all of them have finished or ctx is cancelled.
func (r *Roster) ReleaseAssignmentsParallel(ctx context.Context, names []string) error {
	students := r.Students()
	g, ctx := errgroup.WithContext(ctx)

	for _, name := range names {
		for _, s := range students {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				s.UpdateAssignmentStatus(name, null.Int{})
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("release assignments: %w", err)
	}

	r.logger.Debug("assignments released", "assignments", names, "students", len(students))
	return nil
}

// SendReminder gives every student a final reminder for name. Students
// whose record is already done are left untouched; the others are moved to
// final-reminder and submitted.
func (r *Roster) SendReminder(name string) {
	reminded := 0
	for _, s := range r.Students() {
		if s.ReceiveFinalReminder(name) {
			reminded++
		}
	}
	r.logger.Debug("final reminder sent", logger.Assignment(name), "reminded", reminded)
}

// ══════════════════════════════════════════════════════════════════════════════
// REPORTING
// ══════════════════════════════════════════════════════════════════════════════

// StudentReport is one row of the class summary.
type StudentReport struct {
	FullName     string
	Email        string
	OverallGrade float64
	Assignments  []assignment.Snapshot
}

// Report summarises every student in classlist order.
func (r *Roster) Report() []StudentReport {
	students := r.Students()
	rows := make([]StudentReport, 0, len(students))
	for _, s := range students {
		rows = append(rows, StudentReport{
			FullName:     s.FullName(),
			Email:        s.Email(),
			OverallGrade: s.Grade(),
			Assignments:  s.Assignments(),
		})
	}
	return rows
}

func (r *Roster) publish(event shared.Event) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(event); err != nil {
		r.logger.Warn("roster event dropped", logger.EventType(string(event.EventType())), logger.Err(err))
	}
}
