// Package contact implements the portfolio contact form: field validation,
// the simulated submission flow and per-visitor persistence of in-progress
// field values.
//
// A Controller owns the form state for one open page. It receives events
// (Input, Blur, Submit, Subscribe) and answers with patch operations through
// its View. Submission runs through an explicit state machine:
//
//	Idle -> Validating -> Submitting -> Cooldown -> Idle
//	          |
//	          +-> Idle (validation failed)
//
// A Submit while the controller is not Idle is rejected with
// ErrSubmissionInProgress and changes nothing on the page.
//
// Deferred steps (completion after SubmitDelay, banner dismissal after
// BannerDuration) run through a Scheduler. Production code uses
// SystemScheduler; tests drive a ManualClock.
//
// # Validation Rules
//
//	name     trimmed length >= 2
//	email    ^[^\s@]+@[^\s@]+\.[^\s@]+$ (intentionally permissive)
//	subject  trimmed length > 0
//	message  trimmed length >= 10
//
// Validation failures are reported as FieldValidationError values and shown
// as page text. They are never returned as Go errors.
package contact
