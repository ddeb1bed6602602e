package overlay

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// State is the lifecycle state of a dialog.
type State int

const (
	// StateClosed means the dialog is not rendered at all.
	StateClosed State = iota
	// StateOpen means the dialog is visible and receiving input.
	StateOpen
	// StateClosing means a close was requested and the exit animation is
	// still running. The dialog is rendered from its retained content and
	// ignores input.
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

const (
	defaultEntryFrames   = 2
	defaultExitFrames    = 3
	defaultFrameInterval = 40 * time.Millisecond
)

// Controller owns the open/close lifecycle of a single dialog. Concrete
// dialogs embed it via Dialog; hosts interact with it through Open,
// RequestClose and Update.
//
// All transitions run on the Bubble Tea update loop; the controller itself
// performs no I/O. Close attempts are tagged with a sequence number so that
// animation frames belonging to an abandoned cycle can never finalize the
// current one.
type Controller struct {
	// OnClose is invoked exactly once per open→close cycle, after the exit
	// animation completes. Its command, if any, is returned from Update.
	OnClose func() tea.Cmd

	// OnRestoreFocus receives the focus owner captured when the dialog
	// opened, at the moment the dialog fully closes.
	OnRestoreFocus func(owner string)

	// EntryFrames, ExitFrames and FrameInterval control the animations.
	// Zero values fall back to the package defaults.
	EntryFrames   int
	ExitFrames    int
	FrameInterval time.Duration

	state      State
	content    any
	focusOwner string
	seq        int // bumped on every Open and RequestClose
	entryFrame int
	exitFrame  int

	confirm ConfirmState
	// pendingSeq is the seq at the moment SubmitConfirm set Pending. Only
	// the result carrying this seq may release the flag; results from
	// abandoned cycles must not unlock the current in-flight action.
	pendingSeq int
}

// animPhase distinguishes entry from exit frames. An entry frame completing
// must never finalize a close.
type animPhase int

const (
	animEntry animPhase = iota
	animExit
)

// FrameMsg advances a dialog animation. Hosts only need to route it into
// Update (or Stack.Update); stale frames are dropped by sequence number.
type FrameMsg struct {
	seq   int
	phase animPhase
	frame int
}

// ConfirmResultMsg carries the outcome of a confirm action started by
// SubmitConfirm.
type ConfirmResultMsg struct {
	seq int
	err error
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Visible reports whether the dialog occupies the screen, i.e. it is open
// or still playing its exit animation.
func (c *Controller) Visible() bool { return c.state != StateClosed }

// Content returns the retained content payload. It stays available through
// the whole closing phase so the exit frames render a coherent snapshot,
// and is nil once the dialog is fully closed.
func (c *Controller) Content() any { return c.content }

// FocusOwner returns the focus owner captured when the dialog opened.
func (c *Controller) FocusOwner() string { return c.focusOwner }

// Open transitions the dialog to open with the given content. The newest
// Open always wins: opening while an exit animation is running abandons
// that cycle without firing its OnClose, and keeps the focus owner captured
// when the dialog first became visible.
func (c *Controller) Open(content any, focusOwner string) tea.Cmd {
	if c.state == StateClosed {
		c.focusOwner = focusOwner
	}
	c.seq++
	c.state = StateOpen
	c.content = content
	c.entryFrame = 0
	c.exitFrame = 0
	c.confirm.Pending = false
	c.confirm.Err = nil
	return c.frameCmd(animEntry, 0)
}

// RequestClose begins the exit animation. It is a no-op unless the dialog
// is open: close attempts while already closing are dropped, not queued.
// While a confirm action is in flight the dialog cannot be dismissed
// either; the request is refused until the result arrives.
func (c *Controller) RequestClose() tea.Cmd {
	if c.state != StateOpen || c.confirm.Pending {
		return nil
	}
	c.state = StateClosing
	c.seq++
	c.exitFrame = 0
	return c.frameCmd(animExit, 0)
}

// Update consumes animation frames and confirm results addressed to this
// controller. Messages it does not recognise, and frames from abandoned
// cycles, are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case FrameMsg:
		return c.handleFrame(m)
	case ConfirmResultMsg:
		return c.handleConfirmResult(m)
	}
	return nil
}

func (c *Controller) handleFrame(m FrameMsg) tea.Cmd {
	if m.seq != c.seq {
		return nil
	}
	switch m.phase {
	case animEntry:
		if c.state != StateOpen {
			return nil
		}
		c.entryFrame = m.frame + 1
		if c.entryFrame >= c.entryFrames() {
			return nil
		}
		return c.frameCmd(animEntry, c.entryFrame)
	case animExit:
		if c.state != StateClosing {
			return nil
		}
		c.exitFrame = m.frame + 1
		if c.exitFrame < c.exitFrames() {
			return c.frameCmd(animExit, c.exitFrame)
		}
		return c.finishClose()
	}
	return nil
}

// finishClose is the only transition out of StateClosing. Safe to reach
// from racing animation events: anything but StateClosing is a no-op.
func (c *Controller) finishClose() tea.Cmd {
	if c.state != StateClosing {
		return nil
	}
	c.state = StateClosed
	c.content = nil
	c.confirm = ConfirmState{RequiredPhrase: c.confirm.RequiredPhrase}
	owner := c.focusOwner
	c.focusOwner = ""
	if c.OnRestoreFocus != nil && owner != "" {
		c.OnRestoreFocus(owner)
	}
	if c.OnClose != nil {
		return c.OnClose()
	}
	return nil
}

// ExitProgress returns how far the exit animation has advanced, in [0, 1].
// It is 0 while the dialog is open and 1 once it has fully closed.
func (c *Controller) ExitProgress() float64 {
	switch c.state {
	case StateClosing:
		return float64(c.exitFrame) / float64(c.exitFrames())
	case StateClosed:
		return 1
	default:
		return 0
	}
}

func (c *Controller) frameCmd(phase animPhase, frame int) tea.Cmd {
	seq := c.seq
	return tea.Tick(c.frameInterval(), func(time.Time) tea.Msg {
		return FrameMsg{seq: seq, phase: phase, frame: frame}
	})
}

func (c *Controller) entryFrames() int {
	if c.EntryFrames > 0 {
		return c.EntryFrames
	}
	return defaultEntryFrames
}

func (c *Controller) exitFrames() int {
	if c.ExitFrames > 0 {
		return c.ExitFrames
	}
	return defaultExitFrames
}

func (c *Controller) frameInterval() time.Duration {
	if c.FrameInterval > 0 {
		return c.FrameInterval
	}
	return defaultFrameInterval
}
