package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List open contact requests",
	RunE:  runContacts,
}

func init() {
	rootCmd.AddCommand(contactsCmd)
	contactsCmd.Flags().BoolP("plain", "p", false, "Force plain output (no colors)")
}

func runContacts(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	contacts, err := client.ListContactRequests(context.Background())
	if err != nil {
		return err
	}

	plain, _ := cmd.Flags().GetBool("plain")
	styled := !plain && isTerminal()

	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, []string{
			c.ID, c.Email, c.Subject, string(c.Status),
			c.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	printTable([]string{"ID", "FROM", "SUBJECT", "STATUS", "RECEIVED"}, rows, styled)
	return nil
}
