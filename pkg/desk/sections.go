package desk

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/verdra/cadesk/pkg/desk/overlay"
)

// dynamicTextSection re-reads its text on every render, so dialogs built
// once can show state that changes while they are open.
type dynamicTextSection struct {
	text  func() string
	style lipgloss.Style
}

func dynamicText(text func() string) overlay.Section {
	return &dynamicTextSection{text: text, style: overlay.Body}
}

func dynamicMutedText(text func() string) overlay.Section {
	return &dynamicTextSection{text: text, style: overlay.MutedText}
}

func (s *dynamicTextSection) Render(contentWidth int, _, _ string) overlay.RenderedSection {
	return overlay.RenderedSection{Content: s.style.Width(contentWidth).Render(s.text())}
}

func (s *dynamicTextSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// viewportSection embeds a bubbles viewport for scrollable read-only
// content. It registers as a single focusable; scroll keys apply while it
// holds focus.
type viewportSection struct {
	id string
	vp *viewport.Model
}

func viewportOf(id string, vp *viewport.Model) overlay.Section {
	return &viewportSection{id: id, vp: vp}
}

func (s *viewportSection) Render(contentWidth int, focusID, _ string) overlay.RenderedSection {
	s.vp.Width = contentWidth
	content := s.vp.View()
	if focusID == s.id && s.vp.TotalLineCount() > s.vp.Height {
		content += "\n" + overlay.MutedText.Render("↑/↓ scroll")
	}
	return overlay.RenderedSection{
		Content: content,
		Focusables: []overlay.FocusableInfo{{
			ID:     s.id,
			Width:  contentWidth,
			Height: lipgloss.Height(content),
		}},
	}
}

func (s *viewportSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
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
	*s.vp, cmd = s.vp.Update(msg)
	return "", cmd
}

// formSection embeds a huh form inside a dialog. The form is a single
// focusable; huh handles field navigation internally while it holds focus.
type formSection struct {
	id   string
	form *huh.Form
}

func formOf(id string, form *huh.Form) overlay.Section {
	return &formSection{id: id, form: form}
}

func (s *formSection) Render(contentWidth int, _, _ string) overlay.RenderedSection {
	content := strings.TrimRight(s.form.WithWidth(contentWidth).View(), "\n")
	return overlay.RenderedSection{
		Content: content,
		Focusables: []overlay.FocusableInfo{{
			ID:     s.id,
			Width:  contentWidth,
			Height: lipgloss.Height(content),
		}},
	}
}

func (s *formSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "shift+tab", "esc":
			return "", nil
		}
	}
	model, cmd := s.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		s.form = f
	}
	return "", cmd
}

// renderMarkdown pre-renders markdown once. Falls back to the raw text when
// the renderer cannot be built, so content is never lost to styling.
func renderMarkdown(text string, width int) string {
	if text == "" {
		return ""
	}

	// Use dark style directly (avoid expensive auto-detection)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n\r\t ")
}
