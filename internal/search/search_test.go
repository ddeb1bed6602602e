package search

import (
	"testing"

	"github.com/verdra/cadesk/internal/models"
)

func testUsers() []models.User {
	return []models.User{
		{ID: "u-1", Email: "jane.doe@acme.example", Company: "Acme Carbon GmbH"},
		{ID: "u-2", Email: "ops@northwind.example", Company: "Northwind Energy"},
		{ID: "u-3", Email: "john@doebros.example", Company: "Doe Brothers Ltd"},
	}
}

func TestFilterUsers(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"empty query returns all", "", []string{"u-1", "u-2", "u-3"}},
		{"email fragment", "northwind", []string{"u-2"}},
		{"company fragment", "acme", []string{"u-1"}},
		{"subsequence across fields", "jdoe", []string{"u-1", "u-3"}},
		{"no match", "zzzzzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterUsers(testUsers(), tt.query)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d users, want %d: %+v", len(got), len(tt.wantIDs), got)
			}
			gotIDs := make(map[string]bool)
			for _, u := range got {
				gotIDs[u.ID] = true
			}
			for _, id := range tt.wantIDs {
				if !gotIDs[id] {
					t.Errorf("missing %s in results %+v", id, got)
				}
			}
		})
	}
}

func TestFilterUsersDoesNotMutateInput(t *testing.T) {
	users := testUsers()
	FilterUsers(users, "acme")
	if users[0].ID != "u-1" || users[2].ID != "u-3" {
		t.Error("input slice was reordered")
	}
}

func TestFilterContacts(t *testing.T) {
	contacts := []models.ContactRequest{
		{ID: "c-1", Email: "press@journal.example", Subject: "Interview request"},
		{ID: "c-2", Email: "sam@factory.example", Subject: "Allowance pricing question"},
	}

	got := FilterContacts(contacts, "pricing")
	if len(got) != 1 || got[0].ID != "c-2" {
		t.Errorf("FilterContacts(pricing) = %+v", got)
	}

	if got := FilterContacts(contacts, ""); len(got) != 2 {
		t.Errorf("empty query returned %d contacts", len(got))
	}
}
