package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Section is one vertical slice of a dialog's content. Sections render
// themselves for a given content width and report their focusable regions,
// so the dialog can measure hit areas from the rendered output instead of
// predicting them.
type Section interface {
	Render(contentWidth int, focusID, hoverID string) RenderedSection
	Update(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// RenderedSection is the output of a single section render pass.
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
	// Omit drops the section from the dialog entirely, blank line included.
	Omit bool
}

// FocusableInfo describes one focusable region, positioned relative to the
// top-left corner of the section's rendered content.
type FocusableInfo struct {
	ID      string
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// textSection is static text, wrapped to the content width.
type textSection struct {
	text  string
	style lipgloss.Style
}

// Text creates a static text section.
func Text(s string) Section {
	return &textSection{text: s, style: Body}
}

// MutedTextSection creates a static text section in the muted style.
func MutedTextSection(s string) Section {
	return &textSection{text: s, style: MutedText}
}

func (s *textSection) Render(contentWidth int, _, _ string) RenderedSection {
	return RenderedSection{Content: s.style.Width(contentWidth).Render(s.text)}
}

func (s *textSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// spacerSection is a single blank line.
type spacerSection struct{}

// Spacer creates a blank line section.
func Spacer() Section { return spacerSection{} }

func (spacerSection) Render(int, string, string) RenderedSection {
	return RenderedSection{Content: ""}
}

func (spacerSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// ButtonDef describes one button in a button row.
type ButtonDef struct {
	Label  string
	Action string

	danger  bool
	enabled func() bool
	busy    func() bool
}

// BtnOption configures a button.
type BtnOption func(*ButtonDef)

// Btn creates a button definition.
func Btn(label, action string, opts ...BtnOption) ButtonDef {
	b := ButtonDef{Label: label, Action: action}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// BtnDanger styles the button for destructive actions.
func BtnDanger() BtnOption {
	return func(b *ButtonDef) { b.danger = true }
}

// BtnEnabledWhen gates the button: while the predicate is false the button
// renders disabled and activating it is a no-op.
func BtnEnabledWhen(pred func() bool) BtnOption {
	return func(b *ButtonDef) { b.enabled = pred }
}

// BtnBusyWhen marks the button as busy while the predicate is true; a busy
// button renders a progress marker and is not activatable.
func BtnBusyWhen(pred func() bool) BtnOption {
	return func(b *ButtonDef) { b.busy = pred }
}

func (b ButtonDef) activatable() bool {
	if b.busy != nil && b.busy() {
		return false
	}
	if b.enabled != nil && !b.enabled() {
		return false
	}
	return true
}

// buttonsSection renders a horizontal row of buttons.
type buttonsSection struct {
	buttons []ButtonDef
}

// Buttons creates a button row section. Each button is focusable under its
// action ID.
func Buttons(btns ...ButtonDef) Section {
	return &buttonsSection{buttons: btns}
}

const buttonGap = 2

func (s *buttonsSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	var parts []string
	var focusables []FocusableInfo
	x := 0

	for i, b := range s.buttons {
		label := b.Label
		if b.busy != nil && b.busy() {
			label = "… " + strings.TrimLeft(label, " ")
		}

		style := buttonStyle(b, focusID, hoverID)
		rendered := style.Render(label)
		w := lipgloss.Width(rendered)

		if i > 0 {
			parts = append(parts, strings.Repeat(" ", buttonGap))
			x += buttonGap
		}
		parts = append(parts, rendered)

		focusables = append(focusables, FocusableInfo{
			ID:      b.Action,
			OffsetX: x,
			OffsetY: 0,
			Width:   w,
			Height:  1,
		})
		x += w
	}

	return RenderedSection{
		Content:    strings.Join(parts, ""),
		Focusables: focusables,
	}
}

func buttonStyle(b ButtonDef, focusID, hoverID string) lipgloss.Style {
	focused := focusID == b.Action
	hovered := hoverID == b.Action

	if !b.activatable() {
		if focused {
			return ButtonDisabledFocused
		}
		return ButtonDisabled
	}
	if b.danger {
		switch {
		case focused:
			return ButtonDangerFocused
		case hovered:
			return ButtonDangerHover
		default:
			return ButtonDanger
		}
	}
	switch {
	case focused:
		return ButtonFocused
	case hovered:
		return ButtonHover
	default:
		return Button
	}
}

func (s *buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}
	if keyMsg.String() != "enter" && keyMsg.String() != " " {
		return "", nil
	}
	for _, b := range s.buttons {
		if b.Action == focusID && b.activatable() {
			return b.Action, nil
		}
	}
	return "", nil
}

// InputOption configures an input section.
type InputOption func(*inputSection)

// inputSection wraps a bubbles text input.
type inputSection struct {
	id      string
	model   *textinput.Model
	label   string
	errText func() string
	onEdit  func(value string)
}

// Input creates a focusable text input section around the given model. The
// model is shared with the caller so the typed value stays readable.
func Input(id string, model *textinput.Model, opts ...InputOption) Section {
	s := &inputSection{id: id, model: model}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithLabel renders a label line above the input.
func WithLabel(label string) InputOption {
	return func(s *inputSection) { s.label = label }
}

// WithInlineError shows the string returned by errText, when non-empty, on
// a line below the input. Used for confirm failures: the dialog stays open
// and the user corrects or retries.
func WithInlineError(errText func() string) InputOption {
	return func(s *inputSection) { s.errText = errText }
}

// WithOnEdit invokes fn with the input's value after every edit.
func WithOnEdit(fn func(value string)) InputOption {
	return func(s *inputSection) { s.onEdit = fn }
}

func (s *inputSection) Render(contentWidth int, focusID, _ string) RenderedSection {
	if focusID == s.id {
		s.model.Focus()
	} else {
		s.model.Blur()
	}
	s.model.Width = contentWidth - 4

	var sb strings.Builder
	inputRow := 0
	if s.label != "" {
		sb.WriteString(MutedText.Render(s.label))
		sb.WriteString("\n")
		inputRow = 1
	}
	sb.WriteString(s.model.View())

	height := 1
	if s.errText != nil {
		if msg := s.errText(); msg != "" {
			sb.WriteString("\n")
			sb.WriteString(ErrorText.Render(msg))
			height++
		}
	}

	return RenderedSection{
		Content: sb.String(),
		Focusables: []FocusableInfo{{
			ID:      s.id,
			OffsetX: 0,
			OffsetY: inputRow,
			Width:   contentWidth,
			Height:  height,
		}},
	}
}

func (s *inputSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", "tab", "shift+tab", "esc":
			return "", nil
		}
	}
	var cmd tea.Cmd
	*s.model, cmd = s.model.Update(msg)
	if s.onEdit != nil {
		s.onEdit(s.model.Value())
	}
	return "", cmd
}

// whenSection renders its child only while the condition holds.
type whenSection struct {
	cond  func() bool
	child Section
}

// When wraps a section so it only renders (and receives input) while cond
// returns true.
func When(cond func() bool, child Section) Section {
	return &whenSection{cond: cond, child: child}
}

func (s *whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !s.cond() {
		return RenderedSection{Omit: true}
	}
	return s.child.Render(contentWidth, focusID, hoverID)
}

func (s *whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !s.cond() {
		return "", nil
	}
	return s.child.Update(msg, focusID)
}
