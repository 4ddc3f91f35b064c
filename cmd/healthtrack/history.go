// ABOUTME: CLI command for viewing a profile's records.
// ABOUTME: Prints a table, newest measurement first.
package main

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"hist", "h"},
	Short:   "Show the selected profile's records",
	Long: `Show every record for the selected profile, newest first.

OUTPUT FORMAT:

  MEASURED AT  BP (systolic/diastolic)  PULSE  WEIGHT  POSITION

EXAMPLES:

  healthtrack history
  healthtrack -p Bob history`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.history()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
