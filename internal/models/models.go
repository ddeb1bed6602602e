package models

import "time"

// KycStatus is the onboarding review state of a user account.
type KycStatus string

const (
	KycPending  KycStatus = "pending"
	KycInReview KycStatus = "in_review"
	KycApproved KycStatus = "approved"
	KycRejected KycStatus = "rejected"
)

// IsValidKycStatus returns true if the status is one of the known states.
func IsValidKycStatus(s KycStatus) bool {
	switch s {
	case KycPending, KycInReview, KycApproved, KycRejected:
		return true
	}
	return false
}

// DocumentCategory classifies an uploaded KYC document.
type DocumentCategory string

const (
	CategoryIdentity       DocumentCategory = "identity"
	CategoryProofOfAddress DocumentCategory = "proof_of_address"
	CategoryCompanyExtract DocumentCategory = "company_extract"
	CategoryEmissionPermit DocumentCategory = "emission_permit"
	CategoryOther          DocumentCategory = "other"
)

// IsValidCategory returns true if the category is one of the known categories.
func IsValidCategory(c DocumentCategory) bool {
	switch c {
	case CategoryIdentity, CategoryProofOfAddress, CategoryCompanyExtract,
		CategoryEmissionPermit, CategoryOther:
		return true
	}
	return false
}

// RequiredCategories are the document categories a user must have on file
// before the desk offers the approve action.
func RequiredCategories() []DocumentCategory {
	return []DocumentCategory{CategoryIdentity, CategoryProofOfAddress}
}

// DepositStatus is the settlement state of a fiat or allowance deposit.
type DepositStatus string

const (
	DepositAnnounced DepositStatus = "announced"
	DepositReceived  DepositStatus = "received"
	DepositConfirmed DepositStatus = "confirmed"
	DepositCancelled DepositStatus = "cancelled"
)

// ContactStatus is the handling state of an inbound contact request.
type ContactStatus string

const (
	ContactOpen   ContactStatus = "open"
	ContactClosed ContactStatus = "closed"
)

// User is a platform account as returned by the review API.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Country   string    `json:"country"`
	KycStatus KycStatus `json:"kyc_status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KycDocument is a document attached to a user's onboarding file.
type KycDocument struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Category   DocumentCategory `json:"category"`
	Title      string           `json:"title"`
	FileName   string           `json:"file_name"`
	SizeBytes  int64            `json:"size_bytes"`
	Checksum   string           `json:"checksum"` // hex BLAKE2b-256 of the file content
	UploadedAt time.Time        `json:"uploaded_at"`
}

// Deposit is an announced or settled deposit awaiting review.
type Deposit struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	UserEmail string        `json:"user_email"`
	Amount    int64         `json:"amount_cents"`
	Currency  string        `json:"currency"`
	Reference string        `json:"reference"`
	Status    DepositStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// ContactRequest is an inbound message from the marketing site contact form.
type ContactRequest struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"` // markdown
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// HasCategory reports whether docs contains at least one document of the
// given category.
func HasCategory(docs []KycDocument, cat DocumentCategory) bool {
	for _, d := range docs {
		if d.Category == cat {
			return true
		}
	}
	return false
}

// MissingCategories returns the required categories not yet covered by docs,
// in the order RequiredCategories lists them.
func MissingCategories(docs []KycDocument) []DocumentCategory {
	var missing []DocumentCategory
	for _, cat := range RequiredCategories() {
		if !HasCategory(docs, cat) {
			missing = append(missing, cat)
		}
	}
	return missing
}
