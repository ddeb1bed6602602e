package overlay

import (
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmState gates a destructive or consequential action behind an
// optional typed phrase and an in-flight-request flag.
type ConfirmState struct {
	// RequiredPhrase, when non-empty, must be typed before the action is
	// permitted. Matching is case-insensitive and does not trim whitespace.
	RequiredPhrase string
	// TypedValue is the phrase typed so far.
	TypedValue string
	// Pending is true while the confirm action is in flight. It suppresses
	// both the confirm control and re-entrant submits.
	Pending bool
	// Err is the most recent confirm failure, surfaced inline so the user
	// can retry without losing their input.
	Err error
}

// CanConfirm reports whether the confirm action is currently permitted.
func (s ConfirmState) CanConfirm() bool {
	if s.Pending {
		return false
	}
	if s.RequiredPhrase == "" {
		return true
	}
	return strings.EqualFold(s.TypedValue, s.RequiredPhrase)
}

// Confirm exposes the confirmation state for rendering.
func (c *Controller) Confirm() ConfirmState { return c.confirm }

// CanConfirm reports whether the confirm action is currently permitted.
func (c *Controller) CanConfirm() bool { return c.confirm.CanConfirm() }

// SetConfirmPhrase sets the phrase the user must type before the confirm
// action is enabled.
func (c *Controller) SetConfirmPhrase(phrase string) { c.confirm.RequiredPhrase = phrase }

// SetConfirmTyped records the phrase typed so far.
func (c *Controller) SetConfirmTyped(value string) { c.confirm.TypedValue = value }

// SubmitConfirm runs the confirm action if the gate permits it. At most one
// action is in flight per dialog: submits while pending, while the phrase
// does not match, or while the dialog is not open return nil without
// invoking action. The pending flag clears when the result message arrives,
// whether the action succeeded or failed.
func (c *Controller) SubmitConfirm(action func() error) tea.Cmd {
	if c.state != StateOpen || !c.confirm.CanConfirm() {
		return nil
	}
	c.confirm.Pending = true
	c.confirm.Err = nil
	c.pendingSeq = c.seq
	seq := c.seq
	return func() tea.Msg {
		return ConfirmResultMsg{seq: seq, err: action()}
	}
}

// handleConfirmResult settles a confirm action. Only the result of the
// submit that set Pending releases the flag, so a stale result from an
// abandoned cycle cannot unlock an action still in flight. Success requests
// the close; failure keeps the dialog open with the error shown inline so
// the user can retry. Failures are logged even when the result is stale.
func (c *Controller) handleConfirmResult(m ConfirmResultMsg) tea.Cmd {
	if m.err != nil {
		slog.Error("confirm action failed", "err", m.err)
	}
	if m.seq != c.pendingSeq {
		return nil
	}
	c.confirm.Pending = false
	if m.seq != c.seq || c.state != StateOpen {
		return nil
	}
	if m.err != nil {
		c.confirm.Err = m.err
		return nil
	}
	return c.RequestClose()
}
