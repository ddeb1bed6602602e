// Package search provides fuzzy filtering over the records shown in the
// backoffice panels. Matching is subsequence-based so reviewers can type
// fragments ("jdoe", "acme") instead of exact prefixes.
package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/verdra/cadesk/internal/models"
)

type userSource []models.User

func (s userSource) String(i int) string { return s[i].Email + " " + s[i].Company }
func (s userSource) Len() int            { return len(s) }

// FilterUsers returns the users matching query, best match first. An
// empty query returns the input unchanged.
func FilterUsers(users []models.User, query string) []models.User {
	if query == "" {
		return users
	}
	matches := fuzzy.FindFrom(query, userSource(users))
	out := make([]models.User, 0, len(matches))
	for _, m := range matches {
		out = append(out, users[m.Index])
	}
	return out
}

type contactSource []models.ContactRequest

func (s contactSource) String(i int) string { return s[i].Email + " " + s[i].Subject }
func (s contactSource) Len() int            { return len(s) }

// FilterContacts returns the contact requests matching query, best
// match first. An empty query returns the input unchanged.
func FilterContacts(contacts []models.ContactRequest, query string) []models.ContactRequest {
	if query == "" {
		return contacts
	}
	matches := fuzzy.FindFrom(query, contactSource(contacts))
	out := make([]models.ContactRequest, 0, len(matches))
	for _, m := range matches {
		out = append(out, contacts[m.Index])
	}
	return out
}
