package models

import (
	"testing"
)

// TestIsValidKycStatusValid tests all valid statuses
func TestIsValidKycStatusValid(t *testing.T) {
	validStatuses := []KycStatus{
		KycPending,
		KycInReview,
		KycApproved,
		KycRejected,
	}

	for _, s := range validStatuses {
		if !IsValidKycStatus(s) {
			t.Errorf("Expected %q to be valid status", s)
		}
	}
}

// TestIsValidKycStatusInvalid tests invalid statuses
func TestIsValidKycStatusInvalid(t *testing.T) {
	invalidStatuses := []KycStatus{"invalid", "Pending", "approved ", "done", ""}
	for _, s := range invalidStatuses {
		if IsValidKycStatus(s) {
			t.Errorf("Expected %q to be invalid status", s)
		}
	}
}

// TestIsValidCategoryValid tests all valid categories
func TestIsValidCategoryValid(t *testing.T) {
	validCategories := []DocumentCategory{
		CategoryIdentity,
		CategoryProofOfAddress,
		CategoryCompanyExtract,
		CategoryEmissionPermit,
		CategoryOther,
	}

	for _, c := range validCategories {
		if !IsValidCategory(c) {
			t.Errorf("Expected %q to be valid category", c)
		}
	}
}

// TestIsValidCategoryInvalid tests invalid categories
func TestIsValidCategoryInvalid(t *testing.T) {
	invalidCategories := []DocumentCategory{"passport", "Identity", "", "misc"}
	for _, c := range invalidCategories {
		if IsValidCategory(c) {
			t.Errorf("Expected %q to be invalid category", c)
		}
	}
}

func TestMissingCategories(t *testing.T) {
	tests := []struct {
		name string
		docs []KycDocument
		want int
	}{
		{"no documents", nil, 2},
		{"identity only", []KycDocument{{Category: CategoryIdentity}}, 1},
		{
			"all required present",
			[]KycDocument{
				{Category: CategoryIdentity},
				{Category: CategoryProofOfAddress},
				{Category: CategoryOther},
			},
			0,
		},
		{
			"only optional categories",
			[]KycDocument{{Category: CategoryCompanyExtract}},
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingCategories(tt.docs)
			if len(got) != tt.want {
				t.Errorf("MissingCategories() = %v, want %d missing", got, tt.want)
			}
		})
	}
}

func TestHasCategory(t *testing.T) {
	docs := []KycDocument{
		{Category: CategoryIdentity},
		{Category: CategoryEmissionPermit},
	}

	if !HasCategory(docs, CategoryIdentity) {
		t.Error("expected identity to be present")
	}
	if HasCategory(docs, CategoryProofOfAddress) {
		t.Error("expected proof_of_address to be absent")
	}
	if HasCategory(nil, CategoryIdentity) {
		t.Error("expected nothing in empty set")
	}
}
