package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
)

// InputLock reference-counts ownership of the host's input while dialogs
// are visible. The host routes input to its panels only while the lock is
// free.
type InputLock struct {
	refs int
}

// Acquire takes one reference.
func (l *InputLock) Acquire() { l.refs++ }

// Release drops one reference. Releasing an unheld lock is a no-op, so
// teardown paths can release unconditionally.
func (l *InputLock) Release() {
	if l.refs > 0 {
		l.refs--
	}
}

// Held reports whether any dialog still owns the lock.
func (l *InputLock) Held() bool { return l.refs > 0 }

// Stack manages nested dialogs with explicit stack discipline: the top
// dialog alone receives input, Escape pops one level, and the input lock
// is reference-counted across levels so it releases only when the last
// dialog has fully closed.
type Stack struct {
	dialogs []*Dialog
	lock    InputLock
}

// Push opens d on top of the stack. If d is already stacked (a rapid
// reopen while its exit animation runs), the existing membership and lock
// reference are reused; the newest content still wins.
func (s *Stack) Push(d *Dialog, content any, focusOwner string) tea.Cmd {
	if !s.contains(d) {
		s.lock.Acquire()
		s.dialogs = append(s.dialogs, d)
	}
	return d.Open(content, focusOwner)
}

// Top returns the dialog that currently receives input, or nil.
func (s *Stack) Top() *Dialog {
	if len(s.dialogs) == 0 {
		return nil
	}
	return s.dialogs[len(s.dialogs)-1]
}

// Active reports whether any dialog is visible.
func (s *Stack) Active() bool { return s.lock.Held() }

// Depth returns the number of stacked dialogs.
func (s *Stack) Depth() int { return len(s.dialogs) }

// Update routes lifecycle messages to every stacked dialog and pops the
// ones that finished closing, releasing their lock reference. Sequence tags
// inside the messages keep cross-dialog frames harmless.
func (s *Stack) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, d := range append([]*Dialog(nil), s.dialogs...) {
		if cmd := d.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		// Closes only complete inside Update, so this observes every one.
		if d.State() == StateClosed && s.contains(d) {
			s.remove(d)
			s.lock.Release()
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Render composites every stacked dialog over the base view, bottom first.
func (s *Stack) Render(base string, screenW, screenH int) string {
	out := base
	for _, d := range s.dialogs {
		out = d.Render(out, screenW, screenH)
	}
	return out
}

// Reset force-releases everything. For teardown paths where animations
// can no longer run; no OnClose callbacks fire.
func (s *Stack) Reset() {
	for _, d := range s.dialogs {
		d.trap.Deactivate()
		d.state = StateClosed
		d.content = nil
		s.lock.Release()
	}
	s.dialogs = nil
}

func (s *Stack) contains(d *Dialog) bool {
	for _, cur := range s.dialogs {
		if cur == d {
			return true
		}
	}
	return false
}

func (s *Stack) remove(d *Dialog) {
	for i, cur := range s.dialogs {
		if cur == d {
			s.dialogs = append(s.dialogs[:i], s.dialogs[i+1:]...)
			return
		}
	}
}
