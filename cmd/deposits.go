package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var depositsCmd = &cobra.Command{
	Use:   "deposits",
	Short: "List deposits waiting for review",
	RunE:  runDeposits,
}

func init() {
	rootCmd.AddCommand(depositsCmd)
	depositsCmd.Flags().BoolP("plain", "p", false, "Force plain output (no colors)")
}

func runDeposits(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	deposits, err := client.ListDeposits(context.Background())
	if err != nil {
		return err
	}

	plain, _ := cmd.Flags().GetBool("plain")
	styled := !plain && isTerminal()

	rows := make([][]string, 0, len(deposits))
	for _, d := range deposits {
		amount := fmt.Sprintf("%.2f %s", float64(d.Amount)/100, d.Currency)
		rows = append(rows, []string{d.ID, d.UserEmail, amount, d.Reference, string(d.Status)})
	}
	printTable([]string{"ID", "USER", "AMOUNT", "REFERENCE", "STATUS"}, rows, styled)
	return nil
}
