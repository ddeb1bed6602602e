package overlay

import "github.com/charmbracelet/lipgloss"

// Colors shared with the desk styles in pkg/desk/styles.go.
var (
	Primary      = lipgloss.Color("42")  // green, allowance accent
	Error        = lipgloss.Color("196") // red
	Warning      = lipgloss.Color("214") // orange
	Info         = lipgloss.Color("45")  // cyan
	Muted        = lipgloss.Color("241")
	BorderNormal = lipgloss.Color("240")
)

// Button styles.
var (
	Button = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("238")).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(Primary).
			Bold(true).
			Padding(0, 2)

	ButtonHover = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("245")).
			Padding(0, 2)

	ButtonDanger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 2)

	ButtonDangerFocused = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(Error).
				Bold(true).
				Padding(0, 2)

	ButtonDangerHover = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("203")).
				Padding(0, 2)

	ButtonDisabled = lipgloss.NewStyle().
			Foreground(Muted).
			Background(lipgloss.Color("236")).
			Padding(0, 2)

	ButtonDisabledFocused = lipgloss.NewStyle().
				Foreground(Muted).
				Background(lipgloss.Color("236")).
				Underline(true).
				Padding(0, 2)
)

// Text styles.
var (
	DialogTitle = lipgloss.NewStyle().Bold(true)
	MutedText   = lipgloss.NewStyle().Foreground(Muted)
	ErrorText   = lipgloss.NewStyle().Foreground(Error)
	Body        = lipgloss.NewStyle()
)

// List row styles.
var (
	ListRowNormal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	ListRowSelected = lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255"))

	ListRowFocused = lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	ListCursor = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)
