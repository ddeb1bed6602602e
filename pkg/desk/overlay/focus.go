package overlay

// FocusTrap constrains Tab cycling to the focusable elements of an active
// dialog. The element list is recomputed on every keypress rather than
// cached, because async content can add or remove focusables while the
// dialog is open.
type FocusTrap struct {
	active bool
	list   func() []string
}

// Activate begins trapping with the given element lister. The lister must
// return the ordered IDs of the currently visible focusable elements.
func (t *FocusTrap) Activate(list func() []string) {
	t.active = true
	t.list = list
}

// Deactivate stops trapping. Idempotent and safe from any state, including
// after the dialog content is gone.
func (t *FocusTrap) Deactivate() {
	t.active = false
	t.list = nil
}

// Active reports whether the trap is intercepting Tab presses.
func (t *FocusTrap) Active() bool { return t.active }

// Next returns the element that should receive focus after a Tab (shift
// false) or Shift+Tab (shift true) press while current holds focus. The
// second return is false when the trap leaves focus alone: trap inactive,
// no focusable elements, or current not in the set (focus moved outside the
// dialog by other means; the trap takes no corrective action).
func (t *FocusTrap) Next(current string, shift bool) (string, bool) {
	if !t.active || t.list == nil {
		return "", false
	}
	set := t.list()
	if len(set) == 0 {
		return "", false
	}

	idx := -1
	for i, id := range set {
		if id == current {
			idx = i
			break
		}
	}
	if idx == -1 {
		return "", false
	}

	if shift {
		if idx == 0 {
			return set[len(set)-1], true
		}
		return set[idx-1], true
	}
	if idx == len(set)-1 {
		return set[0], true
	}
	return set[idx+1], true
}
