// Package notification defines the observer capability that is told about
// every assignment status transition, and the wording of those messages.
//
// An observer sees one line per transition:
//
//	<observer> → <student full name>, <message>
//
// for example "Observer → Alice Smith, A1 has been released.". The student
// goes in the subject slot and the assignment name lives inside the message,
// so every message is a complete clause ending in a full stop. Clauses about
// the assignment start with its name ("A1 has passed."); clauses about the
// student start with the verb ("is working on A1.", "has submitted A1.").
package notification

import "fmt"

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFIER
// ══════════════════════════════════════════════════════════════════════════════

// Notifier receives one (subject, assignment, message) triple per transition.
// Subject is the student's full name; message is the complete clause shown
// to the observer. Implementations must not call back into the student.
type Notifier interface {
	Notify(subject, assignment, message string)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(subject, assignment, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(subject, assignment, message string) {
	f(subject, assignment, message)
}

// Nop discards every notification.
var Nop Notifier = NotifierFunc(func(string, string, string) {})

// DefaultObserver is the name printed in front of every notification line.
const DefaultObserver = "Observer"

// Format renders a notification line, e.g.
// "Observer → Alice Smith, A1 has been released.".
func Format(observer, subject, message string) string {
	return fmt.Sprintf("%s → %s, %s", observer, subject, message)
}

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// Released is sent when an assignment record is first created for a student.
func Released(assignment string) string {
	return assignment + " has been released."
}

// Working is sent when the student starts working.
func Working(assignment string) string {
	return "is working on " + assignment + "."
}

// Submitted is sent once per assignment when the student submits.
func Submitted(assignment string) string {
	return "has submitted " + assignment + "."
}

// Passed is sent when the grade exceeds the pass threshold.
func Passed(assignment string) string {
	return assignment + " has passed."
}

// Failed is sent when the grade is at or below the pass threshold.
func Failed(assignment string) string {
	return assignment + " has failed."
}

// FinalReminder is sent when the roster forces an unfinished assignment.
func FinalReminder(assignment string) string {
	return assignment + " has received a final reminder."
}

// AddedToClasslist is the roster's direct announcement for a new student.
func AddedToClasslist(fullName string) string {
	return fullName + " has been added to the classlist."
}
