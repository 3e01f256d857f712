// Package assignment contains the per-student assignment record and the
// status state machine it moves through from release to grading.
package assignment

import "strings"

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Status is the lifecycle tag of an assignment record.
type Status string

const (
	// StatusCreated - record exists but has not been handed to the student yet.
	StatusCreated Status = "created"
	// StatusReleased - the assignment is available to the student.
	StatusReleased Status = "released"
	// StatusWorking - the student has started working on it.
	StatusWorking Status = "working"
	// StatusSubmitted - the student handed it in and it awaits grading.
	StatusSubmitted Status = "submitted"
	// StatusFinalReminder - the roster nudged the student before forcing submission.
	StatusFinalReminder Status = "final-reminder"
	// StatusPass - graded above the pass threshold.
	StatusPass Status = "pass"
	// StatusFail - graded at or below the pass threshold.
	StatusFail Status = "fail"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusReleased, StatusWorking, StatusSubmitted,
		StatusFinalReminder, StatusPass, StatusFail:
		return true
	default:
		return false
	}
}

// String returns the raw status tag.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether a grade has settled the assignment.
func (s Status) IsTerminal() bool {
	return strings.EqualFold(string(s), string(StatusPass)) ||
		strings.EqualFold(string(s), string(StatusFail))
}

// IsDone reports whether the student no longer owes work on the assignment:
// submitted, pass or fail. Pass and fail match case-insensitively.
func (s Status) IsDone() bool {
	return s == StatusSubmitted || s.IsTerminal()
}

// IsAwaitingWork reports whether the assignment is still in the student's hands.
func (s Status) IsAwaitingWork() bool {
	switch s {
	case StatusReleased, StatusWorking, StatusFinalReminder:
		return true
	default:
		return false
	}
}

// Display returns the capitalised form for graded statuses (Pass, Fail) and
// the raw tag otherwise.
func (s Status) Display() string {
	if !s.IsTerminal() {
		return string(s)
	}
	lower := strings.ToLower(string(s))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// StatusForGrade maps a numeric grade onto pass or fail.
func StatusForGrade(grade int) Status {
	if grade > PassThreshold {
		return StatusPass
	}
	return StatusFail
}
