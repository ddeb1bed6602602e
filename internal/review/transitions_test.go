package review

import (
	"testing"

	"github.com/verdra/cadesk/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from models.KycStatus
		to   models.KycStatus
		want bool
	}{
		{models.KycPending, models.KycInReview, true},
		{models.KycPending, models.KycRejected, true},
		{models.KycPending, models.KycApproved, false},
		{models.KycInReview, models.KycApproved, true},
		{models.KycInReview, models.KycRejected, true},
		{models.KycInReview, models.KycPending, true},
		{models.KycRejected, models.KycInReview, true},
		{models.KycApproved, models.KycRejected, false},
		{models.KycApproved, models.KycPending, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestApprovedIsTerminal(t *testing.T) {
	if targets := TargetsFrom(models.KycApproved); len(targets) != 0 {
		t.Errorf("approved should be terminal, got transitions to %v", targets)
	}
}

func TestTransitionName(t *testing.T) {
	tests := []struct {
		from models.KycStatus
		to   models.KycStatus
		want string
	}{
		{models.KycPending, models.KycInReview, "claim"},
		{models.KycRejected, models.KycInReview, "reconsider"},
		{models.KycInReview, models.KycApproved, "approve"},
		{models.KycInReview, models.KycRejected, "reject"},
		{models.KycInReview, models.KycPending, "release"},
	}

	for _, tt := range tests {
		if got := TransitionName(tt.from, tt.to); got != tt.want {
			t.Errorf("TransitionName(%s, %s) = %q, want %q", tt.from, tt.to, got, tt.want)
		}
	}
}
