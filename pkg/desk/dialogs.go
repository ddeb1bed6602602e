package desk

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/verdra/cadesk/internal/models"
	"github.com/verdra/cadesk/pkg/desk/overlay"
)

// rejectPhrase must be typed before a user rejection goes through.
const rejectPhrase = "REJECT"

// confirmSpec describes one destructive action to confirm.
type confirmSpec struct {
	Title       string
	Prompt      string
	Phrase      string // required typed phrase, empty for plain confirms
	AskReason   bool
	ReasonDraft string
	Run         func(reason string) error
}

// confirmDialog gates a destructive action behind an explicit confirm, an
// optional reason, and an optional typed phrase.
type confirmDialog struct {
	*overlay.Dialog

	reasonInput textinput.Model
	phraseInput textinput.Model
	askReason   bool
	run         func(reason string) error
	performed   bool
}

func newConfirmDialog(spec confirmSpec) *confirmDialog {
	c := &confirmDialog{askReason: spec.AskReason, run: spec.Run}

	variant := overlay.VariantWarning
	if spec.Phrase != "" {
		variant = overlay.VariantDanger
	}
	d := overlay.New(spec.Title,
		overlay.WithWidth(56),
		overlay.WithVariant(variant),
		overlay.WithPrimaryAction("confirm"),
		overlay.WithConfirmPhrase(spec.Phrase),
	)

	d.AddSection(overlay.Text(spec.Prompt))
	d.AddSection(overlay.Spacer())

	if spec.AskReason {
		c.reasonInput = textinput.New()
		c.reasonInput.Placeholder = "reason shown to the user"
		c.reasonInput.CharLimit = 200
		c.reasonInput.SetValue(spec.ReasonDraft)
		d.AddSection(overlay.Input("reason", &c.reasonInput,
			overlay.WithLabel("Reason")))
		d.AddSection(overlay.Spacer())
	}

	if spec.Phrase != "" {
		c.phraseInput = textinput.New()
		c.phraseInput.Placeholder = spec.Phrase
		c.phraseInput.CharLimit = 32
		d.AddSection(overlay.Input("phrase", &c.phraseInput,
			overlay.WithLabel(fmt.Sprintf("Type %s to enable", spec.Phrase)),
			overlay.WithOnEdit(d.SetConfirmTyped),
			overlay.WithInlineError(func() string {
				if err := d.Confirm().Err; err != nil {
					return err.Error()
				}
				return ""
			})))
		d.AddSection(overlay.Spacer())
	} else {
		d.AddSection(overlay.When(func() bool { return d.Confirm().Err != nil },
			dynamicErrorText(func() string {
				if err := d.Confirm().Err; err != nil {
					return err.Error()
				}
				return ""
			})))
	}

	btnOpts := []overlay.BtnOption{
		overlay.BtnEnabledWhen(func() bool {
			if c.askReason && strings.TrimSpace(c.reasonInput.Value()) == "" {
				return false
			}
			return d.CanConfirm()
		}),
		overlay.BtnBusyWhen(func() bool { return d.Confirm().Pending }),
	}
	if spec.Phrase != "" {
		btnOpts = append(btnOpts, overlay.BtnDanger())
	}
	d.AddSection(overlay.Buttons(
		overlay.Btn(" Confirm ", "confirm", btnOpts...),
		overlay.Btn(" Cancel ", "cancel",
			overlay.BtnEnabledWhen(func() bool { return !d.Confirm().Pending })),
	))

	c.Dialog = d
	return c
}

// Reason returns the typed reason, trimmed.
func (c *confirmDialog) Reason() string {
	return strings.TrimSpace(c.reasonInput.Value())
}

func (c *confirmDialog) handleAction(action string) tea.Cmd {
	switch action {
	case "confirm":
		reason := c.Reason()
		return c.SubmitConfirm(func() error {
			err := c.run(reason)
			if err == nil {
				c.performed = true
			}
			return err
		})
	case "cancel":
		return c.RequestClose()
	}
	return nil
}

// contactDialog shows one inbound contact request with its message body
// rendered as markdown.
type contactDialog struct {
	*overlay.Dialog

	contact   models.ContactRequest
	vp        viewport.Model
	run       func() error
	performed bool
}

func newContactDialog(contact models.ContactRequest, run func() error) *contactDialog {
	c := &contactDialog{contact: contact, run: run}

	const width = 70
	d := overlay.New("Contact request", overlay.WithWidth(width), overlay.WithVariant(overlay.VariantInfo))

	c.vp = viewport.New(width-4, 12)
	c.vp.SetContent(renderMarkdown(contact.Message, width-4))

	d.AddSection(overlay.MutedTextSection(fmt.Sprintf("%s <%s> · %s",
		contact.Name, contact.Email, contact.CreatedAt.Format("2006-01-02 15:04"))))
	d.AddSection(overlay.Text(contact.Subject))
	d.AddSection(overlay.Spacer())
	d.AddSection(viewportOf("message", &c.vp))
	d.AddSection(overlay.Spacer())
	d.AddSection(overlay.When(func() bool { return d.Confirm().Err != nil },
		dynamicErrorText(func() string {
			if err := d.Confirm().Err; err != nil {
				return err.Error()
			}
			return ""
		})))

	var buttons []overlay.ButtonDef
	if contact.Status == models.ContactOpen {
		buttons = append(buttons, overlay.Btn(" Mark handled ", "resolve",
			overlay.BtnBusyWhen(func() bool { return d.Confirm().Pending })))
	}
	buttons = append(buttons, overlay.Btn(" Dismiss ", "dismiss",
		overlay.BtnEnabledWhen(func() bool { return !d.Confirm().Pending })))
	d.AddSection(overlay.Buttons(buttons...))

	c.Dialog = d
	return c
}

func (c *contactDialog) handleAction(action string) tea.Cmd {
	switch action {
	case "resolve":
		return c.SubmitConfirm(func() error {
			err := c.run()
			if err == nil {
				c.performed = true
			}
			return err
		})
	case "dismiss":
		return c.RequestClose()
	}
	return nil
}

// documentDialog lists a user's KYC documents and previews the selected
// one. A preview that cannot be rendered falls back to a download hint
// instead of closing the dialog.
type documentDialog struct {
	*overlay.Dialog

	user     models.User
	docs     []models.KycDocument
	selected int

	vp         viewport.Model
	previewed  string // document ID currently shown
	loading    bool
	previewErr error
}

const documentDialogWidth = 70

func newDocumentDialog(user models.User, docs []models.KycDocument) *documentDialog {
	c := &documentDialog{user: user, docs: docs}

	d := overlay.New("Documents · "+user.Email, overlay.WithWidth(documentDialogWidth))

	c.vp = viewport.New(documentDialogWidth-4, 10)

	entries := make([]overlay.ListEntry, len(docs))
	for i, doc := range docs {
		entries[i] = overlay.ListEntry{
			ID:    doc.ID,
			Label: fmt.Sprintf("%-18s %s (%s)", doc.Category, doc.Title, formatSize(doc.SizeBytes)),
			Data:  doc,
		}
	}

	d.AddSection(dynamicMutedText(func() string {
		missing := models.MissingCategories(c.docs)
		if len(missing) == 0 {
			return fmt.Sprintf("%d documents on file · required categories covered", len(c.docs))
		}
		parts := make([]string, len(missing))
		for i, cat := range missing {
			parts[i] = string(cat)
		}
		return fmt.Sprintf("%d documents on file · missing: %s", len(c.docs), strings.Join(parts, ", "))
	}))
	d.AddSection(overlay.Spacer())
	d.AddSection(overlay.List("docs", entries, &c.selected, overlay.WithVisibleRows(6)))
	d.AddSection(overlay.Spacer())

	d.AddSection(overlay.When(func() bool { return c.loading },
		dynamicMutedText(func() string { return "rendering preview…" })))
	d.AddSection(overlay.When(func() bool { return c.previewErr != nil },
		dynamicText(func() string {
			return "Preview unavailable — download the file instead."
		})))
	d.AddSection(overlay.When(func() bool { return c.previewed != "" && c.previewErr == nil && !c.loading },
		viewportOf("preview", &c.vp)))

	d.AddSection(overlay.Spacer())
	d.AddSection(overlay.Buttons(overlay.Btn(" Close ", "dismiss")))

	c.Dialog = d
	return c
}

// showPreview installs a rendered preview for the given document.
func (c *documentDialog) showPreview(msg DocumentPreviewMsg) {
	c.loading = false
	if msg.Err != nil {
		c.previewErr = msg.Err
		c.previewed = msg.DocID
		return
	}
	c.previewErr = nil
	c.previewed = msg.DocID
	c.vp.SetContent(msg.Content)
	c.vp.GotoTop()
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// uploadDialog collects a KYC document upload through a huh form. The
// upload itself runs through the confirm gate so an in-flight request
// blocks re-entry.
type uploadDialog struct {
	*overlay.Dialog

	user models.User
	form *huh.Form

	category string
	title    string
	path     string

	run       func(category, title, path string) error
	performed bool
}

func newUploadDialog(user models.User, run func(category, title, path string) error) *uploadDialog {
	c := &uploadDialog{user: user, run: run, category: string(models.CategoryIdentity)}

	var opts []huh.Option[string]
	for _, cat := range []models.DocumentCategory{
		models.CategoryIdentity,
		models.CategoryProofOfAddress,
		models.CategoryCompanyExtract,
		models.CategoryEmissionPermit,
		models.CategoryOther,
	} {
		opts = append(opts, huh.NewOption(string(cat), string(cat)))
	}

	c.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Category").
			Options(opts...).
			Value(&c.category),
		huh.NewInput().
			Title("Title").
			Placeholder("Passport, utility bill, …").
			Value(&c.title),
		huh.NewInput().
			Title("File path").
			Placeholder("/path/to/document.pdf").
			Value(&c.path),
	)).WithShowHelp(false)

	d := overlay.New("Upload document · "+user.Email, overlay.WithWidth(60))

	d.AddSection(formOf("form", c.form))
	d.AddSection(overlay.Spacer())
	d.AddSection(overlay.When(func() bool { return d.Confirm().Err != nil },
		dynamicErrorText(func() string {
			if err := d.Confirm().Err; err != nil {
				return err.Error()
			}
			return ""
		})))
	d.AddSection(overlay.Buttons(
		overlay.Btn(" Upload ", "upload",
			overlay.BtnEnabledWhen(func() bool {
				return strings.TrimSpace(c.title) != "" && strings.TrimSpace(c.path) != ""
			}),
			overlay.BtnBusyWhen(func() bool { return d.Confirm().Pending })),
		overlay.Btn(" Cancel ", "cancel",
			overlay.BtnEnabledWhen(func() bool { return !d.Confirm().Pending })),
	))

	c.Dialog = d
	return c
}

func (c *uploadDialog) handleAction(action string) tea.Cmd {
	switch action {
	case "upload":
		category, title, path := c.category, strings.TrimSpace(c.title), strings.TrimSpace(c.path)
		return c.SubmitConfirm(func() error {
			err := c.run(category, title, path)
			if err == nil {
				c.performed = true
			}
			return err
		})
	case "cancel":
		return c.RequestClose()
	}
	return nil
}

// dynamicErrorText is dynamicText in the error style.
func dynamicErrorText(text func() string) overlay.Section {
	return &dynamicTextSection{text: text, style: overlay.ErrorText}
}
