package desk

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verdra/cadesk/internal/api"
	"github.com/verdra/cadesk/internal/config"
	"github.com/verdra/cadesk/internal/models"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func testData() api.ReviewData {
	return api.ReviewData{
		Users: []models.User{
			{ID: "u-1", Email: "jane@acme.example", Company: "Acme Carbon", Country: "DE", KycStatus: models.KycInReview},
			{ID: "u-2", Email: "ops@northwind.example", Company: "Northwind", Country: "NL", KycStatus: models.KycPending},
		},
		Deposits: []models.Deposit{
			{ID: "d-1", UserEmail: "jane@acme.example", Amount: 250000, Currency: "EUR", Reference: "REF-881", Status: models.DepositReceived},
		},
		Contacts: []models.ContactRequest{
			{ID: "c-1", Name: "Sam", Email: "sam@press.example", Subject: "Interview", Message: "# Hello\nquestion about permits", Status: models.ContactOpen, CreatedAt: time.Now()},
		},
	}
}

// testModel builds a desk wired to an unreachable server. Tests never pump
// the fetch commands, so no requests are made.
func testModel(t *testing.T) Model {
	t.Helper()
	client := api.NewClient(api.Config{BaseURL: "http://127.0.0.1:0", Token: "t", SessionID: "rs-test"})
	cfg := &config.Config{ServerURL: "http://127.0.0.1:0", SeenGettingStarted: true}
	m := New(client, nil, cfg, t.TempDir(), "rs-test")
	m.Width = 100
	m.Height = 30
	m.Loading = false
	m.Data = testData()
	return m
}

// pump executes commands and feeds resulting messages back through Update
// until the command queue is drained. Only safe for animation/tick
// commands; tests never pump network fetches.
func pump(t *testing.T, m Model, cmds ...tea.Cmd) Model {
	t.Helper()
	queue := append([]tea.Cmd(nil), cmds...)
	for len(queue) > 0 {
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		msg := cmd()
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		model, next := m.Update(msg)
		m = model.(Model)
		queue = append(queue, next)
	}
	return m
}

func TestTabCyclesPanels(t *testing.T) {
	m := testModel(t)

	model, _ := m.Update(keyMsg("tab"))
	m = model.(Model)
	if m.ActivePanel != PanelDeposits {
		t.Errorf("ActivePanel = %v, want Deposits", m.ActivePanel)
	}

	model, _ = m.Update(keyMsg("tab"))
	m = model.(Model)
	model, _ = m.Update(keyMsg("tab"))
	m = model.(Model)
	if m.ActivePanel != PanelUsers {
		t.Errorf("ActivePanel = %v after full cycle, want Users", m.ActivePanel)
	}

	model, _ = m.Update(keyMsg("shift+tab"))
	m = model.(Model)
	if m.ActivePanel != PanelContacts {
		t.Errorf("ActivePanel = %v after shift+tab, want Contacts", m.ActivePanel)
	}
}

func TestCursorMovesAndClamps(t *testing.T) {
	m := testModel(t)

	model, _ := m.Update(keyMsg("j"))
	m = model.(Model)
	if m.cursors[PanelUsers] != 1 {
		t.Errorf("cursor = %d, want 1", m.cursors[PanelUsers])
	}

	// Already at the last row
	model, _ = m.Update(keyMsg("j"))
	m = model.(Model)
	if m.cursors[PanelUsers] != 1 {
		t.Errorf("cursor = %d after overrun, want 1", m.cursors[PanelUsers])
	}

	model, _ = m.Update(keyMsg("k"))
	m = model.(Model)
	if m.cursors[PanelUsers] != 0 {
		t.Errorf("cursor = %d, want 0", m.cursors[PanelUsers])
	}
}

func TestRefreshReplacesDataAndClampsCursor(t *testing.T) {
	m := testModel(t)
	m.cursors[PanelUsers] = 1

	data := testData()
	data.Users = data.Users[:1]
	model, _ := m.Update(RefreshDataMsg{Data: &data, Timestamp: time.Now()})
	m = model.(Model)

	if len(m.Data.Users) != 1 {
		t.Fatalf("Users = %d, want 1", len(m.Data.Users))
	}
	if m.cursors[PanelUsers] != 0 {
		t.Errorf("cursor = %d after shrink, want 0", m.cursors[PanelUsers])
	}
}

func TestRefreshErrorKeepsOldData(t *testing.T) {
	m := testModel(t)

	model, _ := m.Update(RefreshDataMsg{Err: errors.New("boom"), Timestamp: time.Now()})
	m = model.(Model)

	if m.Err == nil {
		t.Error("Err not set")
	}
	if len(m.Data.Users) != 2 {
		t.Errorf("old data lost: %d users", len(m.Data.Users))
	}
}

func TestSearchFiltersActivePanel(t *testing.T) {
	m := testModel(t)

	model, _ := m.Update(keyMsg("/"))
	m = model.(Model)
	if !m.Searching {
		t.Fatal("search not active")
	}

	for _, r := range "northwind" {
		model, _ = m.Update(keyMsg(string(r)))
		m = model.(Model)
	}
	model, _ = m.Update(keyMsg("enter"))
	m = model.(Model)

	users := m.filteredUsers()
	if len(users) != 1 || users[0].ID != "u-2" {
		t.Errorf("filtered = %+v", users)
	}

	// esc clears the committed filter
	model, _ = m.Update(keyMsg("esc"))
	m = model.(Model)
	if len(m.filteredUsers()) != 2 {
		t.Error("filter not cleared")
	}
}

func TestRejectOpensDialogAndBlocksHostKeys(t *testing.T) {
	m := testModel(t)

	model, cmd := m.Update(keyMsg("x"))
	m = model.(Model)
	m = pump(t, m, cmd)

	if !m.stack.Active() {
		t.Fatal("dialog stack not active after reject")
	}

	// Host keybindings are locked out while the dialog is up.
	model, _ = m.Update(keyMsg("tab"))
	m = model.(Model)
	if m.ActivePanel != PanelUsers {
		t.Errorf("tab switched panels while dialog open")
	}
}

func TestRejectBlockedForApprovedUser(t *testing.T) {
	m := testModel(t)
	m.Data.Users[0].KycStatus = models.KycApproved

	model, _ := m.Update(keyMsg("x"))
	m = model.(Model)

	if m.stack.Active() {
		t.Error("dialog opened for an approved user")
	}
	if m.StatusMessage == "" || !m.StatusIsError {
		t.Errorf("expected error status, got %q", m.StatusMessage)
	}
}

func TestApproveBlockedWhilePending(t *testing.T) {
	m := testModel(t)
	m.cursors[PanelUsers] = 1 // u-2 is pending

	model, _ := m.Update(keyMsg("a"))
	m = model.(Model)

	if m.stack.Active() {
		t.Error("approve dialog opened for a pending user")
	}
	if !strings.Contains(m.StatusMessage, "claim") {
		t.Errorf("status = %q, want claim hint", m.StatusMessage)
	}
}

func TestEscClosesDialogAndRestoresPanel(t *testing.T) {
	m := testModel(t)

	// Open the contact dialog from the contacts panel.
	m.ActivePanel = PanelContacts
	model, cmd := m.Update(keyMsg("enter"))
	m = model.(Model)
	m = pump(t, m, cmd)
	if !m.stack.Active() {
		t.Fatal("contact dialog not open")
	}

	// Switch away happens only via the restore path.
	model, cmd = m.Update(keyMsg("esc"))
	m = model.(Model)
	m = pump(t, m, cmd)

	if m.stack.Active() {
		t.Fatal("dialog still active after esc + exit animation")
	}
	if m.ActivePanel != PanelContacts {
		t.Errorf("ActivePanel = %v after close, want Contacts", m.ActivePanel)
	}
}

func TestDocumentsMsgOpensDocumentDialog(t *testing.T) {
	m := testModel(t)
	user := m.Data.Users[0]

	model, cmd := m.Update(DocumentsMsg{
		User:    user,
		Purpose: docPurposeView,
		Docs: []models.KycDocument{
			{ID: "doc-1", Category: models.CategoryIdentity, Title: "Passport", SizeBytes: 2048},
		},
	})
	m = model.(Model)
	m = pump(t, m, cmd)

	if m.docDlg == nil || !m.docDlg.Visible() {
		t.Fatal("document dialog not open")
	}
}

func TestDocumentsErrorShowsStatus(t *testing.T) {
	m := testModel(t)

	model, _ := m.Update(DocumentsMsg{Err: errors.New("451 unavailable")})
	m = model.(Model)

	if m.stack.Active() {
		t.Error("dialog opened despite fetch error")
	}
	if !m.StatusIsError {
		t.Errorf("status = %q, want error", m.StatusMessage)
	}
}

func TestApproveValidationFailureStaysOnHost(t *testing.T) {
	m := testModel(t)
	user := m.Data.Users[0] // in_review

	// No identity document on file: the guard must block the dialog.
	model, _ := m.Update(DocumentsMsg{
		User:    user,
		Purpose: docPurposeApprove,
		Docs:    []models.KycDocument{{ID: "doc-1", Category: models.CategoryOther}},
	})
	m = model.(Model)

	if m.stack.Active() {
		t.Error("approve dialog opened despite missing documents")
	}
	if !strings.Contains(m.StatusMessage, "missing required documents") {
		t.Errorf("status = %q", m.StatusMessage)
	}
}

func TestApproveValidationSuccessOpensDialog(t *testing.T) {
	m := testModel(t)
	user := m.Data.Users[0] // in_review

	model, cmd := m.Update(DocumentsMsg{
		User:    user,
		Purpose: docPurposeApprove,
		Docs: []models.KycDocument{
			{ID: "doc-1", Category: models.CategoryIdentity},
			{ID: "doc-2", Category: models.CategoryProofOfAddress},
		},
	})
	m = model.(Model)
	m = pump(t, m, cmd)

	if m.confirmDlg == nil || !m.confirmDlg.Visible() {
		t.Fatal("approve dialog not open")
	}
	// Plain confirm: no phrase required.
	if !m.confirmDlg.CanConfirm() {
		t.Error("approve confirm should not be phrase-gated")
	}
}

func TestPreviewFailureKeepsDialogOpen(t *testing.T) {
	m := testModel(t)
	user := m.Data.Users[0]

	model, cmd := m.Update(DocumentsMsg{
		User:    user,
		Purpose: docPurposeView,
		Docs:    []models.KycDocument{{ID: "doc-1", Category: models.CategoryIdentity, Title: "Passport"}},
	})
	m = model.(Model)
	m = pump(t, m, cmd)

	model, _ = m.Update(DocumentPreviewMsg{DocID: "doc-1", Err: errors.New("binary file")})
	m = model.(Model)

	if !m.docDlg.Visible() {
		t.Fatal("dialog closed on preview failure")
	}
	if m.docDlg.previewErr == nil {
		t.Error("preview error not recorded")
	}
	view := m.View()
	if !strings.Contains(view, "download") {
		t.Error("download fallback not rendered")
	}
}

func TestGettingStartedShownOnFirstRun(t *testing.T) {
	client := api.NewClient(api.Config{BaseURL: "http://127.0.0.1:0", SessionID: "rs-test"})
	dir := t.TempDir()
	cfg := &config.Config{ServerURL: "http://127.0.0.1:0"}

	m := New(client, nil, cfg, dir, "rs-test")
	m.Width, m.Height = 100, 30
	m = pump(t, m, m.initCmd)

	if !m.stack.Active() {
		t.Fatal("welcome dialog not shown on first run")
	}

	// Enter activates the focused Got it button.
	model, cmd := m.Update(keyMsg("enter"))
	m = model.(Model)
	m = pump(t, m, cmd)

	if m.stack.Active() {
		t.Fatal("welcome dialog still open after got-it")
	}
	saved, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !saved.SeenGettingStarted {
		t.Error("seen flag not persisted")
	}
}

func TestGettingStartedSkippedWhenSeen(t *testing.T) {
	m := testModel(t)
	if m.stack.Active() {
		t.Error("welcome dialog shown despite seen flag")
	}
}

func TestStatusClears(t *testing.T) {
	m := testModel(t)
	m.StatusMessage = "something"
	m.StatusIsError = true

	model, _ := m.Update(ClearStatusMsg{})
	m = model.(Model)

	if m.StatusMessage != "" || m.StatusIsError {
		t.Error("status not cleared")
	}
}

func TestViewRendersPanels(t *testing.T) {
	m := testModel(t)

	view := m.View()
	if !strings.Contains(view, "cadesk") {
		t.Error("title missing")
	}
	if !strings.Contains(view, "jane@acme.example") {
		t.Error("user row missing")
	}

	m.ActivePanel = PanelDeposits
	view = m.View()
	if !strings.Contains(view, "REF-881") {
		t.Error("deposit row missing")
	}
	if !strings.Contains(view, "2500.00 EUR") {
		t.Error("amount not formatted")
	}
}

func TestWindowKeepsCursorVisible(t *testing.T) {
	tests := []struct {
		name      string
		cursor    int
		total     int
		visible   int
		wantStart int
		wantEnd   int
	}{
		{"all fit", 2, 3, 10, 0, 3},
		{"cursor at top", 0, 50, 10, 0, 10},
		{"cursor centered", 25, 50, 10, 20, 30},
		{"cursor at bottom", 49, 50, 10, 40, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := window(tt.cursor, tt.total, tt.visible)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("window() = [%d, %d), want [%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
			if tt.cursor < start || tt.cursor >= end {
				t.Errorf("cursor %d outside window [%d, %d)", tt.cursor, start, end)
			}
		})
	}
}
