package desk

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verdra/cadesk/internal/api"
	"github.com/verdra/cadesk/internal/models"
)

// RefreshDataMsg carries a full panel refresh from the server.
type RefreshDataMsg struct {
	Data      *api.ReviewData
	Err       error
	Timestamp time.Time
}

// docPurpose says why documents were fetched, so the result message can be
// routed to the right follow-up.
type docPurpose int

const (
	docPurposeView docPurpose = iota
	docPurposeApprove
)

// DocumentsMsg carries a user's document listing.
type DocumentsMsg struct {
	User    models.User
	Purpose docPurpose
	Docs    []models.KycDocument
	Err     error
}

// DocumentPreviewMsg carries a rendered document preview, or the failure
// that the document dialog turns into its download fallback.
type DocumentPreviewMsg struct {
	DocID   string
	Content string
	Err     error
}

// ClearStatusMsg clears the transient status line.
type ClearStatusMsg struct{}

const fetchTimeout = 20 * time.Second

// fetchAll retrieves all three panel listings concurrently.
func fetchAll(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		data, err := client.FetchAll(ctx)
		return RefreshDataMsg{Data: data, Err: err, Timestamp: time.Now()}
	}
}

// fetchDocuments retrieves the KYC documents on file for a user.
func fetchDocuments(client *api.Client, user models.User, purpose docPurpose) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		docs, err := client.ListUserDocuments(ctx, user.ID)
		return DocumentsMsg{User: user, Purpose: purpose, Docs: docs, Err: err}
	}
}

// fetchPreview retrieves and renders a document preview. Failures are
// delivered, not swallowed: the dialog shows its download fallback.
func fetchPreview(client *api.Client, docID string, width int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		raw, err := client.FetchDocumentPreview(ctx, docID)
		if err != nil {
			return DocumentPreviewMsg{DocID: docID, Err: err}
		}
		return DocumentPreviewMsg{DocID: docID, Content: renderMarkdown(raw, width)}
	}
}

const uploadTimeout = 60 * time.Second

// uploadDocument pushes one file onto a user's onboarding file.
func uploadDocument(client *api.Client, userID, category, title, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()
	_, err := client.UploadDocument(ctx, api.UploadRequest{
		UserID:   userID,
		Category: models.DocumentCategory(category),
		Title:    title,
		FilePath: path,
	})
	return err
}

// clearStatusAfter clears the status line after the given delay.
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
