package overlay

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func stackDialog(closes *int) *Dialog {
	d := New("Stacked").AddSection(Buttons(Btn(" OK ", "ok")))
	d.FrameInterval = time.Millisecond
	d.OnClose = func() tea.Cmd {
		*closes++
		return nil
	}
	return d
}

func TestStackLockRefcounting(t *testing.T) {
	var s Stack
	var closes int

	if s.Active() {
		t.Fatal("empty stack reports active")
	}

	first := stackDialog(&closes)
	second := stackDialog(&closes)

	pump(t, &s, s.Push(first, "a", "panel"))
	if !s.Active() || s.Depth() != 1 {
		t.Fatalf("after first push: active=%v depth=%d", s.Active(), s.Depth())
	}

	pump(t, &s, s.Push(second, "b", ""))
	if s.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", s.Depth())
	}
	if s.Top() != second {
		t.Fatal("top is not the newest dialog")
	}

	// Closing the top dialog keeps the lock held for the one below.
	pump(t, &s, second.RequestClose())
	if s.Depth() != 1 || !s.Active() {
		t.Fatalf("after top close: active=%v depth=%d", s.Active(), s.Depth())
	}
	if s.Top() != first {
		t.Fatal("bottom dialog is not top after pop")
	}
	if closes != 1 {
		t.Fatalf("closes = %d, want 1", closes)
	}

	pump(t, &s, first.RequestClose())
	if s.Active() || s.Depth() != 0 {
		t.Fatalf("after final close: active=%v depth=%d", s.Active(), s.Depth())
	}
	if closes != 2 {
		t.Fatalf("closes = %d, want 2", closes)
	}
}

func TestStackRepushWhileClosing(t *testing.T) {
	var s Stack
	var closes int
	d := stackDialog(&closes)

	pump(t, &s, s.Push(d, "a", "panel"))
	d.RequestClose()

	// Re-push while the exit animation runs: newest content wins, no second
	// lock reference is taken.
	pump(t, &s, s.Push(d, "b", "other"))
	if s.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", s.Depth())
	}
	if d.State() != StateOpen || d.Content() != "b" {
		t.Fatalf("state=%v content=%v, want open/b", d.State(), d.Content())
	}
	if closes != 0 {
		t.Fatalf("OnClose fired %d times for the abandoned cycle", closes)
	}

	pump(t, &s, d.RequestClose())
	if closes != 1 {
		t.Fatalf("closes = %d, want 1", closes)
	}
	if s.Active() {
		t.Fatal("lock still held after the dialog closed")
	}
}

func TestStackUpdateRoutesFrames(t *testing.T) {
	var s Stack
	var closes int
	d := stackDialog(&closes)

	pump(t, &s, s.Push(d, "a", ""))
	cmd := d.RequestClose()

	// Drive the exit through the stack's Update, the way a host would.
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			break
		}
		cmd = s.Update(msg)
	}
	if d.State() != StateClosed {
		t.Fatalf("state = %v, want closed", d.State())
	}
	if closes != 1 {
		t.Fatalf("closes = %d, want 1", closes)
	}
}

func TestStackReset(t *testing.T) {
	var s Stack
	var closes int

	pump(t, &s, s.Push(stackDialog(&closes), "a", ""))
	pump(t, &s, s.Push(stackDialog(&closes), "b", ""))

	s.Reset()
	if s.Active() || s.Depth() != 0 {
		t.Fatalf("after reset: active=%v depth=%d", s.Active(), s.Depth())
	}
	if closes != 0 {
		t.Error("Reset fired OnClose callbacks")
	}
}

func TestStackRenderCompositesAllDialogs(t *testing.T) {
	var s Stack
	var closes int
	d := stackDialog(&closes)

	base := testBase()
	if got := s.Render(base, testScreenW, testScreenH); got != base {
		t.Error("empty stack altered the base view")
	}

	pump(t, &s, s.Push(d, "a", ""))
	if got := s.Render(base, testScreenW, testScreenH); got == base {
		t.Error("stack with a visible dialog rendered nothing")
	}
}

func TestInputLockReleaseSafety(t *testing.T) {
	var l InputLock
	l.Release() // releasing an unheld lock must be a no-op
	if l.Held() {
		t.Fatal("lock held after spurious release")
	}
	l.Acquire()
	l.Acquire()
	l.Release()
	if !l.Held() {
		t.Fatal("lock released too early")
	}
	l.Release()
	if l.Held() {
		t.Fatal("lock still held after balanced releases")
	}
}
