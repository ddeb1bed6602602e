package review

import (
	"strings"

	"github.com/verdra/cadesk/internal/models"
)

// Transition is one legal edge of the review state machine.
type Transition struct {
	From   models.KycStatus
	To     models.KycStatus
	Guards []Guard
}

// TransitionContext carries what guards need to decide.
type TransitionContext struct {
	FromStatus models.KycStatus
	ToStatus   models.KycStatus
	User       models.User
	Documents  []models.KycDocument
	// Reason is the reviewer-supplied justification for a rejection.
	Reason string
	// Force bypasses advisory guards; destructive guards still apply.
	Force bool
}

// GuardResult is the outcome of a single guard check.
type GuardResult struct {
	Passed  bool
	Message string
}

// Guard is a precondition on a review transition.
type Guard interface {
	Name() string
	Check(ctx *TransitionContext) GuardResult
}

// DocumentsOnFileGuard blocks approval while required document categories
// are missing.
type DocumentsOnFileGuard struct{}

func (g *DocumentsOnFileGuard) Name() string {
	return "DocumentsOnFileGuard"
}

func (g *DocumentsOnFileGuard) Check(ctx *TransitionContext) GuardResult {
	// Only applies to approvals
	if ctx.ToStatus != models.KycApproved {
		return GuardResult{Passed: true}
	}

	if ctx.Force {
		return GuardResult{Passed: true}
	}

	missing := models.MissingCategories(ctx.Documents)
	if len(missing) == 0 {
		return GuardResult{Passed: true}
	}

	labels := make([]string, len(missing))
	for i, cat := range missing {
		labels[i] = string(cat)
	}
	return GuardResult{
		Passed:  false,
		Message: "missing required documents: " + strings.Join(labels, ", "),
	}
}

// RejectReasonGuard requires a non-empty reason for rejections.
type RejectReasonGuard struct{}

func (g *RejectReasonGuard) Name() string {
	return "RejectReasonGuard"
}

func (g *RejectReasonGuard) Check(ctx *TransitionContext) GuardResult {
	// Only applies to rejections
	if ctx.ToStatus != models.KycRejected {
		return GuardResult{Passed: true}
	}

	if strings.TrimSpace(ctx.Reason) != "" {
		return GuardResult{Passed: true}
	}

	return GuardResult{
		Passed:  false,
		Message: "a rejection requires a reason",
	}
}

// Validate checks that the from→to transition exists and that every guard
// on it passes. It returns nil when the transition is permitted.
func Validate(ctx *TransitionContext) error {
	var transition *Transition
	for _, t := range AllTransitions() {
		if t.From == ctx.FromStatus && t.To == ctx.ToStatus {
			transition = t
			break
		}
	}
	if transition == nil {
		return &TransitionError{
			UserID: ctx.User.ID,
			From:   ctx.FromStatus,
			To:     ctx.ToStatus,
			Reason: "not a legal review step",
		}
	}

	var failures []error
	for _, g := range transition.Guards {
		if result := g.Check(ctx); !result.Passed {
			failures = append(failures, &GuardError{
				Guard:  g.Name(),
				UserID: ctx.User.ID,
				Reason: result.Message,
			})
		}
	}
	if len(failures) > 0 {
		return &ValidationError{Errors: failures}
	}
	return nil
}
