package desk

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/verdra/cadesk/internal/models"
	"github.com/verdra/cadesk/internal/search"
)

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(m.renderTabs())
	sb.WriteString("\n\n")
	sb.WriteString(m.renderPanel())
	sb.WriteString("\n")
	sb.WriteString(m.renderStatusBar())

	base := lipgloss.Place(m.Width, m.Height, lipgloss.Left, lipgloss.Top, sb.String())
	return m.stack.Render(base, m.Width, m.Height)
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(" cadesk ")

	right := ""
	switch {
	case m.Loading:
		right = m.spin.View() + subtleStyle.Render("refreshing")
	case !m.LastRefresh.IsZero():
		right = subtleStyle.Render("refreshed " + m.LastRefresh.Format("15:04:05"))
	}

	gap := m.Width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + right
}

func (m Model) renderTabs() string {
	counts := [3]int{len(m.filteredUsers()), len(m.filteredDeposits()), len(m.filteredContacts())}

	var tabs []string
	for _, p := range []Panel{PanelUsers, PanelDeposits, PanelContacts} {
		label := fmt.Sprintf("%s (%d)", p, counts[p])
		if p == m.ActivePanel {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	row := strings.Join(tabs, " ")

	if m.Searching {
		return row + "  " + searchStyle.Render(m.searchInput.View())
	}
	if m.SearchQuery != "" {
		return row + "  " + searchStyle.Render("/"+m.SearchQuery) + subtleStyle.Render("  (esc clears)")
	}
	return row
}

// panelRows is how many data rows fit in the panel area.
func (m Model) panelRows() int {
	rows := m.Height - 8 // header, tabs, column header, status bar, padding
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m Model) renderPanel() string {
	if m.Err != nil {
		return statusErrStyle.Render("cannot reach server: "+m.Err.Error()) +
			"\n" + subtleStyle.Render("press r to retry")
	}

	switch m.ActivePanel {
	case PanelUsers:
		return m.renderUsers()
	case PanelDeposits:
		return m.renderDeposits()
	case PanelContacts:
		return m.renderContacts()
	}
	return ""
}

func (m Model) renderUsers() string {
	users := m.filteredUsers()
	if len(users) == 0 {
		return subtleStyle.Render("no users waiting for review")
	}

	header := headerRowStyle.Render(fmt.Sprintf("  %-32s %-24s %-8s %-10s", "EMAIL", "COMPANY", "COUNTRY", "STATUS"))
	rows := []string{header}

	cursor := m.cursors[PanelUsers]
	start, end := window(cursor, len(users), m.panelRows())
	for i := start; i < end; i++ {
		u := users[i]
		line := fmt.Sprintf("%-32s %-24s %-8s %s",
			truncate(u.Email, 32), truncate(u.Company, 24), truncate(u.Country, 8),
			kycStatusStyle(string(u.KycStatus)).Render(string(u.KycStatus)))
		rows = append(rows, renderRow(line, i == cursor))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderDeposits() string {
	deposits := m.filteredDeposits()
	if len(deposits) == 0 {
		return subtleStyle.Render("no deposits waiting for review")
	}

	header := headerRowStyle.Render(fmt.Sprintf("  %-14s %-32s %-16s %-10s", "AMOUNT", "USER", "REFERENCE", "STATUS"))
	rows := []string{header}

	cursor := m.cursors[PanelDeposits]
	start, end := window(cursor, len(deposits), m.panelRows())
	for i := start; i < end; i++ {
		d := deposits[i]
		line := fmt.Sprintf("%-14s %-32s %-16s %s",
			formatAmount(d.Amount, d.Currency), truncate(d.UserEmail, 32), truncate(d.Reference, 16),
			depositStatusStyle(string(d.Status)).Render(string(d.Status)))
		rows = append(rows, renderRow(line, i == cursor))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderContacts() string {
	contacts := m.filteredContacts()
	if len(contacts) == 0 {
		return subtleStyle.Render("no open contact requests")
	}

	header := headerRowStyle.Render(fmt.Sprintf("  %-24s %-40s %-10s", "FROM", "SUBJECT", "RECEIVED"))
	rows := []string{header}

	cursor := m.cursors[PanelContacts]
	start, end := window(cursor, len(contacts), m.panelRows())
	for i := start; i < end; i++ {
		c := contacts[i]
		line := fmt.Sprintf("%-24s %-40s %s",
			truncate(c.Email, 24), truncate(c.Subject, 40),
			subtleStyle.Render(c.CreatedAt.Format("Jan 02 15:04")))
		rows = append(rows, renderRow(line, i == cursor))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStatusBar() string {
	if m.StatusMessage != "" {
		if m.StatusIsError {
			return statusErrStyle.Render(m.StatusMessage)
		}
		return statusStyle.Render(m.StatusMessage)
	}

	hints := map[Panel]string{
		PanelUsers:    "enter:docs  s:claim  a:approve  x:reject  u:upload",
		PanelDeposits: "enter/c:confirm  x:cancel",
		PanelContacts: "enter:open",
	}
	return subtleStyle.Render(hints[m.ActivePanel] + "  ·  tab:panel  /:filter  r:refresh  ?:help  q:quit")
}

// renderRow renders one panel row with the selection cursor.
func renderRow(line string, selected bool) string {
	if selected {
		return selectedRowStyle.Render("> " + line)
	}
	return rowStyle.Render("  " + line)
}

// window returns the [start, end) slice bounds keeping cursor visible.
func window(cursor, total, visible int) (int, int) {
	if total <= visible {
		return 0, total
	}
	start := cursor - visible/2
	if start < 0 {
		start = 0
	}
	if start+visible > total {
		start = total - visible
	}
	return start, start + visible
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width-1, "…")
}

func formatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(cents)/100, currency)
}

// Filtered views. The fuzzy filter applies to the panel being shown; the
// cursor always indexes into the filtered slice.

func (m Model) filteredUsers() []models.User {
	return search.FilterUsers(m.Data.Users, m.SearchQuery)
}

func (m Model) filteredDeposits() []models.Deposit {
	if m.SearchQuery == "" {
		return m.Data.Deposits
	}
	query := strings.ToLower(m.SearchQuery)
	var out []models.Deposit
	for _, d := range m.Data.Deposits {
		if strings.Contains(strings.ToLower(d.UserEmail), query) ||
			strings.Contains(strings.ToLower(d.Reference), query) {
			out = append(out, d)
		}
	}
	return out
}

func (m Model) filteredContacts() []models.ContactRequest {
	return search.FilterContacts(m.Data.Contacts, m.SearchQuery)
}

func (m Model) panelLen(p Panel) int {
	switch p {
	case PanelUsers:
		return len(m.filteredUsers())
	case PanelDeposits:
		return len(m.filteredDeposits())
	case PanelContacts:
		return len(m.filteredContacts())
	}
	return 0
}

func (m *Model) clampCursors() {
	for _, p := range []Panel{PanelUsers, PanelDeposits, PanelContacts} {
		if n := m.panelLen(p); m.cursors[p] >= n {
			m.cursors[p] = n - 1
		}
		if m.cursors[p] < 0 {
			m.cursors[p] = 0
		}
	}
}

func (m Model) selectedUser() (models.User, bool) {
	users := m.filteredUsers()
	i := m.cursors[PanelUsers]
	if i < 0 || i >= len(users) {
		return models.User{}, false
	}
	return users[i], true
}

func (m Model) selectedDeposit() (models.Deposit, bool) {
	deposits := m.filteredDeposits()
	i := m.cursors[PanelDeposits]
	if i < 0 || i >= len(deposits) {
		return models.Deposit{}, false
	}
	return deposits[i], true
}

func (m Model) selectedContact() (models.ContactRequest, bool) {
	contacts := m.filteredContacts()
	i := m.cursors[PanelContacts]
	if i < 0 || i >= len(contacts) {
		return models.ContactRequest{}, false
	}
	return contacts[i], true
}
