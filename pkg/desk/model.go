package desk

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verdra/cadesk/internal/api"
	"github.com/verdra/cadesk/internal/config"
	"github.com/verdra/cadesk/internal/db"
	"github.com/verdra/cadesk/internal/models"
	"github.com/verdra/cadesk/internal/review"
	"github.com/verdra/cadesk/pkg/desk/overlay"
)

// Panel identifies one of the three review queues.
type Panel int

const (
	PanelUsers Panel = iota
	PanelDeposits
	PanelContacts
)

func (p Panel) String() string {
	switch p {
	case PanelUsers:
		return "Users"
	case PanelDeposits:
		return "Deposits"
	case PanelContacts:
		return "Contacts"
	default:
		return "?"
	}
}

// owner is the focus-owner tag dialogs capture, so closing a dialog puts
// focus back on the panel that opened it.
func (p Panel) owner() string {
	return "panel:" + p.String()
}

func panelFromOwner(owner string) (Panel, bool) {
	for _, p := range []Panel{PanelUsers, PanelDeposits, PanelContacts} {
		if p.owner() == owner {
			return p, true
		}
	}
	return 0, false
}

const statusDuration = 3 * time.Second

// ActionDoneMsg reports a direct (undialoged) server action.
type ActionDoneMsg struct {
	Verb string
	Err  error
}

// Model is the desk TUI: three review panels plus the dialog stack.
type Model struct {
	Width  int
	Height int

	Client    *api.Client
	Cache     *db.DB // nil when the local cache could not be opened
	Config    *config.Config
	ConfigDir string
	SessionID string

	Data        api.ReviewData
	LastRefresh time.Time
	Loading     bool
	Err         error

	ActivePanel Panel
	cursors     [3]int

	SearchQuery string
	Searching   bool
	searchInput textinput.Model

	spin spinner.Model

	stack      *overlay.Stack
	confirmDlg *confirmDialog
	contactDlg *contactDialog
	docDlg     *documentDialog
	uploadDlg  *uploadDialog
	welcomeDlg *overlay.Dialog

	StatusMessage string
	StatusIsError bool

	initCmd tea.Cmd
}

// New builds the desk model. The getting-started dialog is pushed here so
// its entry animation command can be returned from Init.
func New(client *api.Client, cache *db.DB, cfg *config.Config, cfgDir, sessionID string) Model {
	si := textinput.New()
	si.Placeholder = "filter"
	si.CharLimit = 80
	si.Prompt = "/"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		Width:       80,
		Height:      24,
		Client:      client,
		Cache:       cache,
		Config:      cfg,
		ConfigDir:   cfgDir,
		SessionID:   sessionID,
		Loading:     true,
		searchInput: si,
		spin:        sp,
		stack:       &overlay.Stack{},
	}

	if cfg != nil && !cfg.SeenGettingStarted {
		m.welcomeDlg = newGettingStartedDialog(cfg.Reviewer)
		m.initCmd = m.stack.Push(m.welcomeDlg, nil, PanelUsers.owner())
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchAll(m.Client), m.spin.Tick, m.initCmd)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case RefreshDataMsg:
		m.Loading = false
		m.LastRefresh = msg.Timestamp
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Err = nil
		m.Data = *msg.Data
		m.clampCursors()
		return m, nil

	case DocumentsMsg:
		return m.handleDocuments(msg)

	case DocumentPreviewMsg:
		if m.docDlg != nil && m.docDlg.Visible() {
			m.docDlg.showPreview(msg)
		}
		return m, nil

	case ActionDoneMsg:
		if msg.Err != nil {
			return m.withStatus(fmt.Sprintf("%s failed: %v", msg.Verb, msg.Err), true)
		}
		m.Loading = true
		model, cmd := m.withStatus(msg.Verb, false)
		return model, tea.Batch(cmd, fetchAll(m.Client), m.spin.Tick)

	case ClearStatusMsg:
		m.StatusMessage = ""
		m.StatusIsError = false
		return m, nil

	case overlay.FrameMsg, overlay.ConfirmResultMsg:
		return m.routeToStack(msg)

	case tea.KeyMsg:
		if m.stack.Active() {
			return m.handleDialogKey(msg)
		}
		return m.handleHostKey(msg)

	case tea.MouseMsg:
		if m.stack.Active() {
			top := m.stack.Top()
			action, cmd := top.HandleMouse(msg)
			actionCmd := m.dispatchAction(top, action)
			return m, tea.Batch(cmd, actionCmd)
		}
		return m, nil
	}
	return m, nil
}

// routeToStack forwards lifecycle messages to the dialogs and restores the
// panel focus a closing dialog captured when it opened.
func (m Model) routeToStack(msg tea.Msg) (tea.Model, tea.Cmd) {
	var restored string
	if top := m.stack.Top(); top != nil {
		top.OnRestoreFocus = func(owner string) { restored = owner }
	}
	cmd := m.stack.Update(msg)
	if p, ok := panelFromOwner(restored); ok {
		m.ActivePanel = p
	}
	return m, cmd
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	top := m.stack.Top()
	action, cmd := top.HandleKey(msg)
	actionCmd := m.dispatchAction(top, action)
	return m, tea.Batch(cmd, actionCmd)
}

// dispatchAction maps a dialog action string to its effect. Actions arrive
// only from the top dialog, so identity comparison picks the handler.
func (m *Model) dispatchAction(top *overlay.Dialog, action string) tea.Cmd {
	if action == "" {
		return nil
	}
	switch {
	case m.confirmDlg != nil && top == m.confirmDlg.Dialog:
		return m.confirmDlg.handleAction(action)

	case m.contactDlg != nil && top == m.contactDlg.Dialog:
		return m.contactDlg.handleAction(action)

	case m.uploadDlg != nil && top == m.uploadDlg.Dialog:
		return m.uploadDlg.handleAction(action)

	case m.docDlg != nil && top == m.docDlg.Dialog:
		if action == "dismiss" {
			return m.docDlg.RequestClose()
		}
		// Any other action is a document ID selected from the list.
		m.docDlg.loading = true
		m.docDlg.previewErr = nil
		return fetchPreview(m.Client, action, documentDialogWidth-4)

	case m.welcomeDlg != nil && top == m.welcomeDlg:
		if action == "got-it" {
			if err := config.MarkGettingStartedSeen(m.ConfigDir); err == nil && m.Config != nil {
				m.Config.SeenGettingStarted = true
			}
			return m.welcomeDlg.RequestClose()
		}
	}
	return nil
}

func (m Model) handleHostKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "/":
		m.Searching = true
		m.searchInput.SetValue(m.SearchQuery)
		m.searchInput.Focus()
		return m, textinput.Blink

	case "esc":
		if m.SearchQuery != "" {
			m.SearchQuery = ""
			m.clampCursors()
		}
		return m, nil

	case "tab":
		m.ActivePanel = (m.ActivePanel + 1) % 3
		return m, nil
	case "shift+tab":
		m.ActivePanel = (m.ActivePanel + 2) % 3
		return m, nil
	case "1":
		m.ActivePanel = PanelUsers
		return m, nil
	case "2":
		m.ActivePanel = PanelDeposits
		return m, nil
	case "3":
		m.ActivePanel = PanelContacts
		return m, nil

	case "up", "k":
		if m.cursors[m.ActivePanel] > 0 {
			m.cursors[m.ActivePanel]--
		}
		return m, nil
	case "down", "j":
		if m.cursors[m.ActivePanel] < m.panelLen(m.ActivePanel)-1 {
			m.cursors[m.ActivePanel]++
		}
		return m, nil

	case "r":
		m.Loading = true
		return m, tea.Batch(fetchAll(m.Client), m.spin.Tick)

	case "?":
		m.welcomeDlg = newGettingStartedDialog(m.reviewer())
		return m, m.stack.Push(m.welcomeDlg, nil, m.ActivePanel.owner())

	case "enter":
		return m.openSelected()

	case "s":
		if m.ActivePanel == PanelUsers {
			return m.claimSelected()
		}
		return m, nil

	case "a":
		if m.ActivePanel == PanelUsers {
			return m.approveSelected()
		}
		return m, nil

	case "x":
		switch m.ActivePanel {
		case PanelUsers:
			return m.rejectSelected()
		case PanelDeposits:
			return m.cancelSelectedDeposit()
		}
		return m, nil

	case "c":
		if m.ActivePanel == PanelDeposits {
			return m.confirmSelectedDeposit()
		}
		return m, nil

	case "u":
		if m.ActivePanel == PanelUsers {
			return m.openUpload()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.Searching = false
		m.SearchQuery = ""
		m.searchInput.Blur()
		m.clampCursors()
		return m, nil
	case "enter":
		m.Searching = false
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.SearchQuery = m.searchInput.Value()
	m.clampCursors()
	return m, cmd
}

// openSelected opens the detail dialog for the selected row.
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	switch m.ActivePanel {
	case PanelUsers:
		user, ok := m.selectedUser()
		if !ok {
			return m, nil
		}
		return m, fetchDocuments(m.Client, user, docPurposeView)

	case PanelContacts:
		contact, ok := m.selectedContact()
		if !ok {
			return m, nil
		}
		return m.openContact(contact)

	case PanelDeposits:
		return m.confirmSelectedDeposit()
	}
	return m, nil
}

func (m Model) handleDocuments(msg DocumentsMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.withStatus(fmt.Sprintf("load documents: %v", msg.Err), true)
	}

	switch msg.Purpose {
	case docPurposeView:
		if m.Cache != nil {
			m.Cache.RecordViewed("user", msg.User.ID, msg.User.Email)
		}
		m.docDlg = newDocumentDialog(msg.User, msg.Docs)
		return m, m.stack.Push(m.docDlg.Dialog, msg.User, m.ActivePanel.owner())

	case docPurposeApprove:
		tctx := &review.TransitionContext{
			FromStatus: msg.User.KycStatus,
			ToStatus:   models.KycApproved,
			User:       msg.User,
			Documents:  msg.Docs,
		}
		if err := review.Validate(tctx); err != nil {
			return m.withStatus(err.Error(), true)
		}
		return m.openApprove(msg.User)
	}
	return m, nil
}

// claimSelected moves the selected pending user into review. Claiming is
// not destructive, so it runs without a dialog.
func (m Model) claimSelected() (tea.Model, tea.Cmd) {
	user, ok := m.selectedUser()
	if !ok {
		return m, nil
	}
	if !review.CanTransition(user.KycStatus, models.KycInReview) {
		return m.withStatus(fmt.Sprintf("cannot claim a %s user", user.KycStatus), true)
	}
	client := m.Client
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return ActionDoneMsg{Verb: "claimed " + user.Email, Err: client.ClaimUser(ctx, user.ID)}
	}
}

// approveSelected starts the approve flow: the documents on file decide
// whether the transition is even offered.
func (m Model) approveSelected() (tea.Model, tea.Cmd) {
	user, ok := m.selectedUser()
	if !ok {
		return m, nil
	}
	if !review.CanTransition(user.KycStatus, models.KycApproved) {
		return m.withStatus(fmt.Sprintf("cannot approve a %s user, claim the review first", user.KycStatus), true)
	}
	return m, fetchDocuments(m.Client, user, docPurposeApprove)
}

func (m Model) openApprove(user models.User) (tea.Model, tea.Cmd) {
	client, cache, sessionID := m.Client, m.Cache, m.SessionID

	dlg := newConfirmDialog(confirmSpec{
		Title:  "Approve user",
		Prompt: fmt.Sprintf("Approve onboarding for %s (%s)? The account gains trading access immediately.", user.Email, user.Company),
		Run: func(string) error {
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()
			if err := client.ApproveUser(ctx, user.ID); err != nil {
				return err
			}
			if cache != nil {
				cache.LogAction(db.ActionEntry{
					SessionID:  sessionID,
					Action:     "approve",
					TargetKind: "user",
					TargetID:   user.ID,
				})
			}
			return nil
		},
	})
	dlg.OnClose = m.refreshIfPerformed(dlg)
	m.confirmDlg = dlg
	return m, m.stack.Push(dlg.Dialog, user, m.ActivePanel.owner())
}

func (m Model) rejectSelected() (tea.Model, tea.Cmd) {
	user, ok := m.selectedUser()
	if !ok {
		return m, nil
	}
	if !review.CanTransition(user.KycStatus, models.KycRejected) {
		return m.withStatus(fmt.Sprintf("cannot reject a %s user", user.KycStatus), true)
	}

	client, cache, sessionID, reviewer := m.Client, m.Cache, m.SessionID, m.reviewer()

	var draft string
	if cache != nil {
		if note, err := cache.GetDraftNote(user.ID); err == nil && note != nil {
			draft = note.Body
		}
	}

	dlg := newConfirmDialog(confirmSpec{
		Title:       "Reject user",
		Prompt:      fmt.Sprintf("Reject onboarding for %s? The user is notified with the reason below.", user.Email),
		Phrase:      rejectPhrase,
		AskReason:   true,
		ReasonDraft: draft,
		Run: func(reason string) error {
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()
			if err := client.RejectUser(ctx, user.ID, reason); err != nil {
				return err
			}
			if cache != nil {
				cache.LogAction(db.ActionEntry{
					SessionID:  sessionID,
					Action:     "reject",
					TargetKind: "user",
					TargetID:   user.ID,
					Detail:     reason,
				})
				cache.DeleteDraftNote(user.ID)
			}
			return nil
		},
	})
	// An abandoned rejection keeps its reason as a draft for next time.
	dlg.OnClose = func() tea.Cmd {
		if dlg.performed {
			return fetchAll(client)
		}
		if cache != nil {
			cache.SaveDraftNote(user.ID, reviewer, dlg.Reason())
		}
		return nil
	}
	m.confirmDlg = dlg
	return m, m.stack.Push(dlg.Dialog, user, m.ActivePanel.owner())
}

func (m Model) confirmSelectedDeposit() (tea.Model, tea.Cmd) {
	dep, ok := m.selectedDeposit()
	if !ok {
		return m, nil
	}
	if dep.Status == models.DepositConfirmed || dep.Status == models.DepositCancelled {
		return m.withStatus(fmt.Sprintf("deposit already %s", dep.Status), true)
	}

	client, cache, sessionID := m.Client, m.Cache, m.SessionID

	dlg := newConfirmDialog(confirmSpec{
		Title: "Confirm deposit",
		Prompt: fmt.Sprintf("Credit %s to %s (ref %s)?",
			formatAmount(dep.Amount, dep.Currency), dep.UserEmail, dep.Reference),
		Run: func(string) error {
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()
			if err := client.ConfirmDeposit(ctx, dep.ID); err != nil {
				return err
			}
			if cache != nil {
				cache.LogAction(db.ActionEntry{
					SessionID:  sessionID,
					Action:     "confirm",
					TargetKind: "deposit",
					TargetID:   dep.ID,
				})
			}
			return nil
		},
	})
	dlg.OnClose = m.refreshIfPerformed(dlg)
	m.confirmDlg = dlg
	return m, m.stack.Push(dlg.Dialog, dep, m.ActivePanel.owner())
}

func (m Model) cancelSelectedDeposit() (tea.Model, tea.Cmd) {
	dep, ok := m.selectedDeposit()
	if !ok {
		return m, nil
	}
	if dep.Status == models.DepositConfirmed || dep.Status == models.DepositCancelled {
		return m.withStatus(fmt.Sprintf("deposit already %s", dep.Status), true)
	}

	client, cache, sessionID := m.Client, m.Cache, m.SessionID

	dlg := newConfirmDialog(confirmSpec{
		Title: "Cancel deposit",
		Prompt: fmt.Sprintf("Cancel the %s deposit from %s (ref %s)? The funds are returned.",
			formatAmount(dep.Amount, dep.Currency), dep.UserEmail, dep.Reference),
		AskReason: true,
		Run: func(reason string) error {
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()
			if err := client.CancelDeposit(ctx, dep.ID, reason); err != nil {
				return err
			}
			if cache != nil {
				cache.LogAction(db.ActionEntry{
					SessionID:  sessionID,
					Action:     "cancel",
					TargetKind: "deposit",
					TargetID:   dep.ID,
					Detail:     reason,
				})
			}
			return nil
		},
	})
	dlg.OnClose = m.refreshIfPerformed(dlg)
	m.confirmDlg = dlg
	return m, m.stack.Push(dlg.Dialog, dep, m.ActivePanel.owner())
}

func (m Model) openContact(contact models.ContactRequest) (tea.Model, tea.Cmd) {
	client, cache, sessionID := m.Client, m.Cache, m.SessionID

	if cache != nil {
		cache.RecordViewed("contact", contact.ID, contact.Subject)
	}

	dlg := newContactDialog(contact, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if err := client.CloseContactRequest(ctx, contact.ID); err != nil {
			return err
		}
		if cache != nil {
			cache.LogAction(db.ActionEntry{
				SessionID:  sessionID,
				Action:     "close",
				TargetKind: "contact",
				TargetID:   contact.ID,
			})
		}
		return nil
	})
	dlg.OnClose = func() tea.Cmd {
		if dlg.performed {
			return fetchAll(client)
		}
		return nil
	}
	m.contactDlg = dlg
	return m, m.stack.Push(dlg.Dialog, contact, m.ActivePanel.owner())
}

func (m Model) openUpload() (tea.Model, tea.Cmd) {
	user, ok := m.selectedUser()
	if !ok {
		return m, nil
	}

	client, cache, sessionID := m.Client, m.Cache, m.SessionID

	dlg := newUploadDialog(user, func(category, title, path string) error {
		return uploadDocument(client, user.ID, category, title, path)
	})
	dlg.OnClose = func() tea.Cmd {
		if dlg.performed {
			if cache != nil {
				cache.LogAction(db.ActionEntry{
					SessionID:  sessionID,
					Action:     "upload",
					TargetKind: "user",
					TargetID:   user.ID,
					Detail:     dlg.title,
				})
			}
			return fetchAll(client)
		}
		return nil
	}
	m.uploadDlg = dlg
	return m, tea.Batch(
		m.stack.Push(dlg.Dialog, user, m.ActivePanel.owner()),
		dlg.form.Init(),
	)
}

// refreshIfPerformed is the common OnClose hook: refresh the panels only
// when the dialog's action actually went through.
func (m Model) refreshIfPerformed(dlg *confirmDialog) func() tea.Cmd {
	client := m.Client
	return func() tea.Cmd {
		if dlg.performed {
			return fetchAll(client)
		}
		return nil
	}
}

func (m Model) withStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.StatusMessage = text
	m.StatusIsError = isErr
	return m, clearStatusAfter(statusDuration)
}

func (m Model) reviewer() string {
	if m.Config != nil {
		return m.Config.Reviewer
	}
	return ""
}
