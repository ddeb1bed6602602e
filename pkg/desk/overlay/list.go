package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ListEntry is one row of a list section.
type ListEntry struct {
	ID    string // unique within the list
	Label string
	Data  any
}

// ListOption configures a list section.
type ListOption func(*listSection)

// listSection renders a scrollable, selectable list. The list registers as
// a single focusable, so Tab moves past it instead of walking every row;
// rows are navigated with up/down while the list holds focus.
type listSection struct {
	id       string
	entries  []ListEntry
	selected *int
	visible  int
	offset   int
}

// List creates a list section. selected points at the selected index and
// may be shared with the caller.
func List(id string, entries []ListEntry, selected *int, opts ...ListOption) Section {
	s := &listSection{
		id:       id,
		entries:  entries,
		selected: selected,
		visible:  5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithVisibleRows caps how many rows render at once.
func WithVisibleRows(n int) ListOption {
	return func(s *listSection) {
		if n > 0 {
			s.visible = n
		}
	}
}

// scrollWindow adjusts the offset so the selection stays on screen and
// returns the number of rows that will render.
func (s *listSection) scrollWindow() int {
	rows := min(s.visible, len(s.entries))
	sel := 0
	if s.selected != nil {
		sel = *s.selected
	}
	if sel < s.offset {
		s.offset = sel
	} else if sel >= s.offset+rows {
		s.offset = sel - rows + 1
	}
	maxOffset := max(0, len(s.entries)-rows)
	s.offset = clamp(s.offset, 0, maxOffset)
	return rows
}

func (s *listSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if len(s.entries) == 0 {
		return RenderedSection{Content: MutedText.Render("(nothing here)")}
	}

	rows := s.scrollWindow()
	focused := focusID == s.id

	var sb strings.Builder
	height := 0
	for i := 0; i < rows; i++ {
		idx := s.offset + i
		if idx >= len(s.entries) {
			break
		}
		entry := s.entries[idx]
		isSelected := s.selected != nil && *s.selected == idx

		style := ListRowNormal
		switch {
		case isSelected && focused:
			style = ListRowFocused
		case isSelected, entry.ID == hoverID:
			style = ListRowSelected
		}

		cursor := "  "
		if isSelected {
			cursor = ListCursor.Render("> ")
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(cursor + style.Render(entry.Label))
		height++
	}

	content := sb.String()
	if s.offset > 0 {
		content = MutedText.Render("↑ more") + "\n" + content
		height++
	}
	if s.offset+rows < len(s.entries) {
		content = content + "\n" + MutedText.Render("↓ more")
		height++
	}

	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID:     s.id,
			Width:  contentWidth,
			Height: height,
		}},
	}
}

func (s *listSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id || s.selected == nil {
		return "", nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if *s.selected > 0 {
			*s.selected--
		}
	case "down", "j":
		if *s.selected < len(s.entries)-1 {
			*s.selected++
		}
	case "home":
		*s.selected = 0
	case "end":
		*s.selected = len(s.entries) - 1
	case "enter":
		if *s.selected >= 0 && *s.selected < len(s.entries) {
			return s.entries[*s.selected].ID, nil
		}
	}
	return "", nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
