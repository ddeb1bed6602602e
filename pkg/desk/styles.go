package desk

import "github.com/charmbracelet/lipgloss"

// Colors shared with pkg/desk/overlay/styles.go.
var (
	primaryColor = lipgloss.Color("42")  // green, allowance accent
	errorColor   = lipgloss.Color("196") // red
	warningColor = lipgloss.Color("214") // orange
	cyanColor    = lipgloss.Color("45")
	mutedColor   = lipgloss.Color("241")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	tabStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 2)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Underline(true).
			Padding(0, 2)

	headerRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("250"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Foreground(lipgloss.Color("255")).
				Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	statusErrStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	searchStyle = lipgloss.NewStyle().
			Foreground(cyanColor)
)

// kycStatusStyle picks the badge color for a KYC state.
func kycStatusStyle(status string) lipgloss.Style {
	switch status {
	case "pending":
		return lipgloss.NewStyle().Foreground(warningColor)
	case "in_review":
		return lipgloss.NewStyle().Foreground(cyanColor)
	case "approved":
		return lipgloss.NewStyle().Foreground(primaryColor)
	case "rejected":
		return lipgloss.NewStyle().Foreground(errorColor)
	default:
		return subtleStyle
	}
}

// depositStatusStyle picks the badge color for a deposit state.
func depositStatusStyle(status string) lipgloss.Style {
	switch status {
	case "announced":
		return lipgloss.NewStyle().Foreground(warningColor)
	case "received":
		return lipgloss.NewStyle().Foreground(cyanColor)
	case "confirmed":
		return lipgloss.NewStyle().Foreground(primaryColor)
	case "cancelled":
		return lipgloss.NewStyle().Foreground(errorColor)
	default:
		return subtleStyle
	}
}
