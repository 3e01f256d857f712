// Package student contains the student entity of the classroom simulation.
//
// A Student owns one assignment record per assignment name and moves each
// through its lifecycle:
//
//	released -> working -> submitted -> pass | fail
//	                  \-> final-reminder -> submitted
//
// Records are created lazily: the first operation that mentions a name
// creates the record in the released state. Every transition is reported to
// the injected notification.Notifier.
//
// # Delayed steps
//
// Two steps happen later rather than immediately, through the injected
// Scheduler:
//
//   - StartWorking schedules an automatic submission after Config.WorkDelay.
//   - SubmitAssignment schedules grading after Config.GradeDelay.
//
// Both share the submitted-names guard, so a student who submits by hand
// before the work delay elapses is not submitted twice:
//
//	s := student.New("Alice Smith", "alice@example.com", notifier, student.Config{
//	    Scheduler: clock,
//	    Grader:    grading.Fixed(72),
//	})
//	s.StartWorking("A1")
//	s.SubmitAssignment("A1")
//	clock.Advance(3 * time.Second) // the auto-submit finds A1 already submitted
//
// # Grades
//
// Grades come from the injected Grader. A grade above 50 passes. The overall
// grade is the mean of every recorded grade, 0 when nothing is graded.
package student
