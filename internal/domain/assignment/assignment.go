package assignment

import (
	"github.com/volatiletech/null/v8"
)

// PassThreshold is the grade an assignment must exceed to pass.
const PassThreshold = 50

// Grade bounds produced by the simulated grader.
const (
	MinGrade = 0
	MaxGrade = 100
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSIGNMENT RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Assignment is one student's record for one named assignment.
// The grade is valid if and only if the status is pass or fail.
//
// Assignment is not safe for concurrent use; the owning student serialises access.
type Assignment struct {
	name   string
	status Status
	grade  null.Int
}

// New creates a record in the created state.
func New(name string) *Assignment {
	return &Assignment{
		name:   name,
		status: StatusCreated,
	}
}

// Name returns the assignment name.
func (a *Assignment) Name() string { return a.name }

// Status returns the current status tag.
func (a *Assignment) Status() Status { return a.status }

// Grade returns the recorded grade, invalid until the assignment is graded.
func (a *Assignment) Grade() null.Int { return a.grade }

// IsGraded reports whether a grade has been recorded.
func (a *Assignment) IsGraded() bool { return a.grade.Valid }

// IsDone reports whether the assignment is submitted or graded.
func (a *Assignment) IsDone() bool { return a.status.IsDone() }

// Release moves a freshly created record to released.
// Records past the created state are left alone.
func (a *Assignment) Release() bool {
	if a.status != StatusCreated {
		return false
	}
	a.status = StatusReleased
	return true
}

// StartWork marks the assignment as being worked on.
func (a *Assignment) StartWork() {
	a.status = StatusWorking
}

// Submit marks the assignment as handed in.
func (a *Assignment) Submit() {
	a.status = StatusSubmitted
}

// MarkFinalReminder moves an unfinished assignment to final-reminder.
// It returns false and changes nothing when the assignment is already done.
func (a *Assignment) MarkFinalReminder() bool {
	if a.status.IsDone() {
		return false
	}
	a.status = StatusFinalReminder
	return true
}

// SetGrade records the grade and settles the status on pass or fail,
// regardless of the status the record was in before.
func (a *Assignment) SetGrade(grade int) Status {
	a.grade = null.IntFrom(grade)
	a.status = StatusForGrade(grade)
	return a.status
}

// Snapshot returns a value copy safe to hand outside the owning student.
func (a *Assignment) Snapshot() Snapshot {
	return Snapshot{
		Name:   a.name,
		Status: a.status,
		Grade:  a.grade,
	}
}

// Snapshot is a read-only view of an assignment record.
type Snapshot struct {
	Name   string
	Status Status
	Grade  null.Int
}

// ══════════════════════════════════════════════════════════════════════════════
// GRADE MATH
// ══════════════════════════════════════════════════════════════════════════════

// Average returns the arithmetic mean of every recorded grade, or 0 when
// none of the records is graded.
func Average(records []*Assignment) float64 {
	var sum, n int
	for _, a := range records {
		if !a.grade.Valid {
			continue
		}
		sum += a.grade.Int
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
