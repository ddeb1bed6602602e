package review

import (
	"github.com/verdra/cadesk/internal/models"
)

// AllTransitions returns all valid KYC review transitions.
// This defines the complete review state machine the desk enforces before
// offering an action; the server re-validates on its side.
func AllTransitions() []*Transition {
	return []*Transition{
		// From pending
		{From: models.KycPending, To: models.KycInReview, Guards: nil},
		{From: models.KycPending, To: models.KycRejected, Guards: []Guard{&RejectReasonGuard{}}},

		// From in_review
		{From: models.KycInReview, To: models.KycApproved, Guards: []Guard{&DocumentsOnFileGuard{}}},
		{From: models.KycInReview, To: models.KycRejected, Guards: []Guard{&RejectReasonGuard{}}},
		{From: models.KycInReview, To: models.KycPending, Guards: nil},

		// From rejected
		{From: models.KycRejected, To: models.KycInReview, Guards: nil},
	}
}

// TransitionName returns a human-readable name for the transition
func TransitionName(from, to models.KycStatus) string {
	switch {
	case to == models.KycInReview && from == models.KycRejected:
		return "reconsider"
	case to == models.KycInReview:
		return "claim"
	case to == models.KycApproved:
		return "approve"
	case to == models.KycRejected:
		return "reject"
	case to == models.KycPending:
		return "release"
	default:
		return string(from) + " → " + string(to)
	}
}

// TargetsFrom returns all statuses reachable from the given status.
func TargetsFrom(status models.KycStatus) []models.KycStatus {
	var targets []models.KycStatus
	for _, t := range AllTransitions() {
		if t.From == status {
			targets = append(targets, t.To)
		}
	}
	return targets
}

// CanTransition reports whether the from→to edge exists, ignoring guards.
func CanTransition(from, to models.KycStatus) bool {
	for _, t := range AllTransitions() {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}
