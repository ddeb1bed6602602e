package review

import (
	"fmt"
	"strings"

	"github.com/verdra/cadesk/internal/models"
)

// TransitionError reports a review action with no legal edge from the
// user's current KYC status.
type TransitionError struct {
	UserID string
	From   models.KycStatus
	To     models.KycStatus
	Reason string
}

func (e *TransitionError) Error() string {
	verb := TransitionName(e.From, e.To)
	if e.UserID == "" {
		return fmt.Sprintf("cannot %s while %s: %s", verb, e.From, e.Reason)
	}
	return fmt.Sprintf("cannot %s %s while %s: %s", verb, e.UserID, e.From, e.Reason)
}

// GuardError is one failed precondition on an otherwise legal transition.
// Reason is written for the reviewer and shown as-is in the status bar.
type GuardError struct {
	Guard  string // guard name, kept for logs
	UserID string
	Reason string
}

func (e *GuardError) Error() string {
	if e.UserID == "" {
		return e.Reason
	}
	return e.UserID + ": " + e.Reason
}

// ValidationError collects every guard failure on a transition so the desk
// can show all blockers at once.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual guard failures to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error { return e.Errors }
