package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Variant selects the visual style of a dialog.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

func (v Variant) borderColor() lipgloss.Color {
	switch v {
	case VariantDanger:
		return Error
	case VariantWarning:
		return Warning
	case VariantInfo:
		return Info
	default:
		return BorderNormal
	}
}

// Option configures a dialog at construction time.
type Option func(*Dialog)

// WithWidth sets the dialog width (default 50).
func WithWidth(w int) Option {
	return func(d *Dialog) { d.width = w }
}

// WithVariant sets the visual style.
func WithVariant(v Variant) Option {
	return func(d *Dialog) { d.variant = v }
}

// WithHints shows or hides the keyboard hint line (default shown).
func WithHints(show bool) Option {
	return func(d *Dialog) { d.showHints = show }
}

// WithPrimaryAction sets the action returned for an Enter press that no
// focused section claimed. The action's button, if gated, still applies.
func WithPrimaryAction(action string) Option {
	return func(d *Dialog) { d.primaryAction = action }
}

// WithCloseOnBackdropClick controls whether a click outside the dialog
// requests a close (default true).
func WithCloseOnBackdropClick(close bool) Option {
	return func(d *Dialog) { d.closeOnBackdrop = close }
}

// WithConfirmPhrase requires the phrase to be typed before the confirm
// action is permitted.
func WithConfirmPhrase(phrase string) Option {
	return func(d *Dialog) { d.SetConfirmPhrase(phrase) }
}

// rect is a screen-space rectangle.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(px, py int) bool {
	return px >= r.x && px < r.x+r.w && py >= r.y && py < r.y+r.h
}

// region is a focusable's absolute screen rectangle, measured from the last
// render.
type region struct {
	id string
	rect
}

// Dialog is a declarative modal dialog: a title, a column of sections, and
// the embedded lifecycle Controller. Hit regions are measured from the
// rendered output, never predicted, so hover and click targets cannot
// drift from what is on screen.
type Dialog struct {
	Controller

	title           string
	sections        []Section
	width           int
	variant         Variant
	showHints       bool
	primaryAction   string
	closeOnBackdrop bool

	trap    FocusTrap
	focusID string
	hoverID string

	rect    rect
	regions []region
}

// New creates a dialog.
func New(title string, opts ...Option) *Dialog {
	d := &Dialog{
		title:           title,
		width:           50,
		showHints:       true,
		closeOnBackdrop: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddSection appends a section and returns the dialog for chaining.
func (d *Dialog) AddSection(s Section) *Dialog {
	d.sections = append(d.sections, s)
	return d
}

// Open makes the dialog visible with the given content, arms the focus
// trap, and puts focus on the first focusable element.
func (d *Dialog) Open(content any, focusOwner string) tea.Cmd {
	cmd := d.Controller.Open(content, focusOwner)
	d.trap.Activate(d.focusableIDs)
	d.hoverID = ""
	d.focusID = ""
	if ids := d.focusableIDs(); len(ids) > 0 {
		d.focusID = ids[0]
	}
	return cmd
}

// Update consumes lifecycle messages and disarms the trap once the dialog
// has fully closed.
func (d *Dialog) Update(msg tea.Msg) tea.Cmd {
	cmd := d.Controller.Update(msg)
	if d.State() == StateClosed {
		d.trap.Deactivate()
		d.focusID = ""
		d.hoverID = ""
	}
	return cmd
}

// FocusID returns the ID of the focused element.
func (d *Dialog) FocusID() string { return d.focusID }

// Focus moves focus to the given element ID.
func (d *Dialog) Focus(id string) { d.focusID = id }

// HandleKey processes a key press. It returns a non-empty action when a
// button or list entry was activated; the returned command, when non-nil,
// must be dispatched. Input during the exit animation is dropped.
func (d *Dialog) HandleKey(msg tea.KeyMsg) (string, tea.Cmd) {
	if d.State() != StateOpen {
		return "", nil
	}

	switch msg.String() {
	case "esc":
		return "", d.RequestClose()
	case "tab":
		if next, ok := d.trap.Next(d.focusID, false); ok {
			d.focusID = next
		}
		return "", nil
	case "shift+tab":
		if next, ok := d.trap.Next(d.focusID, true); ok {
			d.focusID = next
		}
		return "", nil
	}

	for _, s := range d.visibleSections() {
		action, cmd := s.Update(msg, d.focusID)
		if action != "" || cmd != nil {
			return action, cmd
		}
	}

	// Implicit submit: Enter anywhere in the dialog triggers the primary
	// action, provided its button is currently activatable.
	if msg.String() == "enter" && d.primaryAction != "" {
		if b, ok := d.buttonByAction(d.primaryAction); ok && !b.activatable() {
			return "", nil
		}
		return d.primaryAction, nil
	}
	return "", nil
}

// HandleMouse processes a mouse event: hover tracking, backdrop-click
// dismissal, and click-to-activate on measured hit regions.
func (d *Dialog) HandleMouse(msg tea.MouseMsg) (string, tea.Cmd) {
	if d.State() != StateOpen {
		return "", nil
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		d.hoverID = d.regionAt(msg.X, msg.Y)
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return "", nil
		}
		if !d.rect.contains(msg.X, msg.Y) {
			if d.closeOnBackdrop {
				return "", d.RequestClose()
			}
			return "", nil
		}
		if id := d.regionAt(msg.X, msg.Y); id != "" {
			d.focusID = id
			if b, ok := d.buttonByAction(id); ok {
				if b.activatable() {
					return id, nil
				}
				return "", nil
			}
		}
	}
	return "", nil
}

// Render composites the dialog over the base view. While closing, the
// dialog collapses from the bottom over the exit frames, still showing the
// retained content.
func (d *Dialog) Render(base string, screenW, screenH int) string {
	if !d.Visible() {
		d.regions = nil
		return base
	}

	content, focusables := d.renderSections(d.contentWidth())

	var sb strings.Builder
	sb.WriteString(DialogTitle.Render(d.title))
	sb.WriteString("\n\n")
	sb.WriteString(content)
	if d.showHints {
		sb.WriteString("\n\n")
		sb.WriteString(MutedText.Render("tab: focus · enter: select · esc: close"))
	}

	borderColor := d.variant.borderColor()
	if !d.entryDone() {
		borderColor = Muted
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Width(d.width).
		Render(sb.String())

	fullH := lipgloss.Height(box)
	w := lipgloss.Width(box)
	x := max(0, (screenW-w)/2)
	y := max(0, (screenH-fullH)/2)

	if d.State() == StateClosing {
		lines := splitLines(box)
		keep := max(1, int(float64(len(lines))*(1-d.ExitProgress())))
		box = strings.Join(lines[:keep], "\n")
	}

	h := lipgloss.Height(box)
	d.rect = rect{x: x, y: y, w: w, h: h}
	d.measureRegions(focusables, x, y)

	return composite(base, box, x, y, screenW, screenH)
}

// contentWidth is the inner width available to sections: dialog width less
// the horizontal padding.
func (d *Dialog) contentWidth() int {
	return d.width - 4
}

// sectionPlacement is a section's rendered output plus its first content
// row, relative to the start of the section column.
type sectionPlacement struct {
	rendered RenderedSection
	row      int
}

// renderSections renders every visible section and returns the joined
// content plus the focusables with row offsets resolved to the section
// column.
func (d *Dialog) renderSections(contentWidth int) (string, []region) {
	var parts []string
	var placed []sectionPlacement
	row := 0

	for _, s := range d.sections {
		r := s.Render(contentWidth, d.focusID, d.hoverID)
		if r.Omit {
			continue
		}
		placed = append(placed, sectionPlacement{rendered: r, row: row})
		parts = append(parts, r.Content)
		row += lipgloss.Height(r.Content)
	}

	var regions []region
	for _, p := range placed {
		for _, f := range p.rendered.Focusables {
			regions = append(regions, region{
				id: f.ID,
				rect: rect{
					x: f.OffsetX,
					y: p.row + f.OffsetY,
					w: f.Width,
					h: f.Height,
				},
			})
		}
	}
	return strings.Join(parts, "\n"), regions
}

// measureRegions converts section-relative focusable rectangles into
// absolute screen coordinates. The section column starts after the border,
// the padding, the title and its blank line.
func (d *Dialog) measureRegions(focusables []region, boxX, boxY int) {
	const (
		contentOffsetX = 1 + 2 // border + horizontal padding
		contentOffsetY = 1 + 1 // border + vertical padding
		titleRows      = 2     // title line + blank line
	)
	d.regions = d.regions[:0]
	for _, f := range focusables {
		d.regions = append(d.regions, region{
			id: f.id,
			rect: rect{
				x: boxX + contentOffsetX + f.x,
				y: boxY + contentOffsetY + titleRows + f.y,
				w: f.w,
				h: f.h,
			},
		})
	}
}

// regionAt returns the focusable ID under the given screen position.
func (d *Dialog) regionAt(x, y int) string {
	for _, r := range d.regions {
		if r.contains(x, y) {
			return r.id
		}
	}
	return ""
}

// focusableIDs lists the ordered IDs of the currently visible focusable
// elements. The focus trap calls it on every Tab press, so sections added
// or removed while the dialog is open are always reflected.
func (d *Dialog) focusableIDs() []string {
	_, regions := d.renderSections(d.contentWidth())
	ids := make([]string, 0, len(regions))
	for _, r := range regions {
		ids = append(ids, r.id)
	}
	return ids
}

// visibleSections returns the sections that currently render, unwrapping
// conditional wrappers.
func (d *Dialog) visibleSections() []Section {
	var out []Section
	for _, s := range d.sections {
		if w, ok := s.(*whenSection); ok {
			if !w.cond() {
				continue
			}
			out = append(out, w.child)
			continue
		}
		out = append(out, s)
	}
	return out
}

// buttonByAction finds a button definition among the visible sections.
func (d *Dialog) buttonByAction(action string) (ButtonDef, bool) {
	for _, s := range d.visibleSections() {
		bs, ok := s.(*buttonsSection)
		if !ok {
			continue
		}
		for _, b := range bs.buttons {
			if b.Action == action {
				return b, true
			}
		}
	}
	return ButtonDef{}, false
}

func (c *Controller) entryDone() bool {
	return c.state != StateOpen || c.entryFrame >= c.entryFrames()
}
