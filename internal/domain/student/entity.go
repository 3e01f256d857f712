package student

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/alem-hub/classlist/internal/domain/assignment"
	"github.com/alem-hub/classlist/internal/domain/notification"
	"github.com/alem-hub/classlist/pkg/logger"
)

// NotAssigned is returned by AssignmentStatus for unknown assignment names.
const NotAssigned = "Hasn't been assigned"

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student owns an ordered set of assignment records and moves them through
// their lifecycle. All methods are safe for concurrent use: the delayed
// auto-submit and grading tasks may run on scheduler goroutines.
//
// Notifications are emitted after the student's lock is released, so a
// notifier may query the student.
type Student struct {
	mu sync.Mutex

	id       string
	fullName string
	email    string

	// assignments is keyed by name; order keeps first-reference order.
	assignments map[string]*assignment.Assignment
	order       []string

	overallGrade float64

	// submitted only grows.
	submitted map[string]struct{}

	notifier   notification.Notifier
	scheduler  Scheduler
	grader     Grader
	workDelay  time.Duration
	gradeDelay time.Duration
	logger     *slog.Logger
}

// note is a notification collected under the lock and emitted after it.
type note struct {
	assignment string
	message    string
}

// New creates a student. Zero fields in cfg fall back to DefaultConfig.
func New(fullName, email string, n notification.Notifier, cfg Config) *Student {
	cfg = cfg.withDefaults()
	if n == nil {
		n = notification.Nop
	}

	id := uuid.NewString()
	return &Student{
		id:          id,
		fullName:    fullName,
		email:       email,
		assignments: make(map[string]*assignment.Assignment),
		submitted:   make(map[string]struct{}),
		notifier:    n,
		scheduler:   cfg.Scheduler,
		grader:      cfg.Grader,
		workDelay:   cfg.WorkDelay,
		gradeDelay:  cfg.GradeDelay,
		logger:      cfg.Logger.With(logger.StudentID(id)),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY
// ══════════════════════════════════════════════════════════════════════════════

// ID returns the student's generated identifier.
func (s *Student) ID() string { return s.id }

// FullName returns the student's full name.
func (s *Student) FullName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullName
}

// SetFullName renames the student. Later notifications use the new name.
func (s *Student) SetFullName(fullName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fullName = fullName
}

// Email returns the student's email.
func (s *Student) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// SetEmail changes the student's email.
func (s *Student) SetEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = email
}

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// UpdateAssignmentStatus makes sure the assignment exists (announcing the
// release if it is new) and, when grade is valid, grades it.
func (s *Student) UpdateAssignmentStatus(name string, grade null.Int) {
	s.mu.Lock()
	a, notes := s.getOrCreate(name, true)
	if grade.Valid {
		notes = append(notes, s.applyGrade(a, grade.Int))
	}
	subject := s.fullName
	s.mu.Unlock()

	s.emit(subject, notes)
}

// AssignmentStatus returns NotAssigned for unknown names, the capitalised
// Pass or Fail once graded, and the raw status tag otherwise.
func (s *Student) AssignmentStatus(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[name]
	if !ok {
		return NotAssigned
	}
	if a.IsGraded() {
		s.recomputeGrade()
		return assignment.StatusForGrade(a.Grade().Int).Display()
	}
	return a.Status().String()
}

// StartWorking puts the assignment in the working state and schedules an
// automatic submission after the work delay, unless the student submits first.
func (s *Student) StartWorking(name string) {
	s.mu.Lock()
	a, notes := s.getOrCreate(name, true)
	a.StartWork()
	notes = append(notes, note{name, notification.Working(name)})
	subject := s.fullName
	s.mu.Unlock()

	s.emit(subject, notes)
	s.logger.Debug("work started", logger.Assignment(name))

	s.scheduler.AfterFunc(s.workDelay, "auto-submit:"+name, func() {
		if s.HasSubmitted(name) {
			return
		}
		s.SubmitAssignment(name)
	})
}

// SubmitAssignment hands the assignment in and schedules grading after the
// grade delay. A second submission of the same name does nothing.
func (s *Student) SubmitAssignment(name string) {
	s.mu.Lock()
	a, notes := s.getOrCreate(name, true)
	if _, done := s.submitted[name]; done {
		subject := s.fullName
		s.mu.Unlock()
		s.emit(subject, notes)
		return
	}
	s.submitted[name] = struct{}{}
	a.Submit()
	notes = append(notes, note{name, notification.Submitted(name)})
	subject := s.fullName
	s.mu.Unlock()

	s.emit(subject, notes)
	s.logger.Debug("assignment submitted", logger.Assignment(name))

	s.scheduler.AfterFunc(s.gradeDelay, "grade:"+name, func() {
		s.gradeSubmission(name)
	})
}

// ReceiveFinalReminder forces an unfinished assignment: it is created
// silently if missing, moved to final-reminder and submitted. It reports
// false and does nothing when the assignment is already done.
func (s *Student) ReceiveFinalReminder(name string) bool {
	s.mu.Lock()
	a, _ := s.getOrCreate(name, false)
	if !a.MarkFinalReminder() {
		s.mu.Unlock()
		return false
	}
	subject := s.fullName
	s.mu.Unlock()

	s.emit(subject, []note{{name, notification.FinalReminder(name)}})
	s.SubmitAssignment(name)
	return true
}

// Grade recomputes and returns the mean of all recorded grades.
func (s *Student) Grade() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputeGrade()
}

// ══════════════════════════════════════════════════════════════════════════════
// QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// HasAssignment reports whether a record exists for name.
func (s *Student) HasAssignment(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.assignments[name]
	return ok
}

// Status returns the raw status of the named assignment.
func (s *Student) Status(name string) (assignment.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[name]
	if !ok {
		return "", false
	}
	return a.Status(), true
}

// HasSubmitted reports whether name was ever submitted.
func (s *Student) HasSubmitted(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.submitted[name]
	return ok
}

// OutstandingAssignments returns, in release order, the assignments that
// are neither done nor out of the student's hands.
func (s *Student) OutstandingAssignments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for _, name := range s.order {
		st := s.assignments[name].Status()
		if !st.IsDone() && st.IsAwaitingWork() {
			names = append(names, name)
		}
	}
	return names
}

// Assignments returns a copy of every record in release order.
func (s *Student) Assignments() []assignment.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]assignment.Snapshot, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.assignments[name].Snapshot())
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// INTERNALS (callers hold s.mu)
// ══════════════════════════════════════════════════════════════════════════════

// getOrCreate returns the record for name, creating it in the released state
// on first reference. The release is announced only when announce is set.
func (s *Student) getOrCreate(name string, announce bool) (*assignment.Assignment, []note) {
	if a, ok := s.assignments[name]; ok {
		return a, nil
	}

	a := assignment.New(name)
	a.Release()
	s.assignments[name] = a
	s.order = append(s.order, name)

	if !announce {
		return a, nil
	}
	return a, []note{{name, notification.Released(name)}}
}

func (s *Student) applyGrade(a *assignment.Assignment, grade int) note {
	status := a.SetGrade(grade)
	avg := s.recomputeGrade()

	s.logger.Debug("assignment graded",
		logger.Assignment(a.Name()),
		logger.Grade(grade),
		logger.Status(status.String()),
		logger.Average(avg),
	)

	if status == assignment.StatusPass {
		return note{a.Name(), notification.Passed(a.Name())}
	}
	return note{a.Name(), notification.Failed(a.Name())}
}

func (s *Student) recomputeGrade() float64 {
	records := make([]*assignment.Assignment, 0, len(s.order))
	for _, name := range s.order {
		records = append(records, s.assignments[name])
	}
	s.overallGrade = assignment.Average(records)
	return s.overallGrade
}

// gradeSubmission is the delayed grading step scheduled by SubmitAssignment.
func (s *Student) gradeSubmission(name string) {
	grade := s.grader.NextGrade()

	s.mu.Lock()
	a, notes := s.getOrCreate(name, true)
	notes = append(notes, s.applyGrade(a, grade))
	subject := s.fullName
	s.mu.Unlock()

	s.emit(subject, notes)
}

func (s *Student) emit(subject string, notes []note) {
	for _, n := range notes {
		s.notifier.Notify(subject, n.assignment, n.message)
	}
}
