package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cadesk version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cadesk", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
