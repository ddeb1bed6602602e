package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users waiting for onboarding review",
	RunE:  runUsers,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.Flags().BoolP("plain", "p", false, "Force plain output (no colors)")
}

func runUsers(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	users, err := client.ListPendingUsers(context.Background())
	if err != nil {
		return err
	}

	plain, _ := cmd.Flags().GetBool("plain")
	styled := !plain && isTerminal()

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Email, u.Company, u.Country, string(u.KycStatus)})
	}
	printTable([]string{"ID", "EMAIL", "COMPANY", "COUNTRY", "STATUS"}, rows, styled)
	return nil
}

// isTerminal reports whether stdout is attached to a terminal. Piped
// output always gets the plain format.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))

// printTable writes an aligned table; styled adds the header emphasis.
func printTable(header []string, rows [][]string, styled bool) {
	fmt.Print(renderTable(header, rows, styled))
}

// renderTable builds an aligned table, one row per line. Every column is
// padded to its widest cell; trailing padding is trimmed.
func renderTable(header []string, rows [][]string, styled bool) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	formatRow := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var sb strings.Builder
	headerLine := formatRow(header)
	if styled {
		headerLine = tableHeaderStyle.Render(headerLine)
	}
	sb.WriteString(headerLine)
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(formatRow(row))
		sb.WriteString("\n")
	}
	return sb.String()
}
