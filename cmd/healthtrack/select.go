// ABOUTME: CLI commands for choosing the default profile.
// ABOUTME: Persists the choice in the config file for later invocations.
package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:     "select <name|id>",
	Aliases: []string{"use"},
	Short:   "Select the default profile",
	Long: `Select the profile that later commands act as.

Each healthtrack command runs in its own process, so the choice is saved as
default_profile in the config file. Use --profile to override it for a
single command, or 'deselect' to clear it.

EXAMPLES:

  healthtrack select Alice
  healthtrack select 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := current.selectRef(args[0])
		if err != nil {
			return err
		}

		if err := current.saveDefaultProfile(p.Name); err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintf(current.out, "✓ Selected %s\n", p.Name)
		return nil
	},
}

var deselectCmd = &cobra.Command{
	Use:   "deselect",
	Short: "Clear the default profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		current.sess.ClearSelection()

		if err := current.saveDefaultProfile(""); err != nil {
			return err
		}

		color.New(color.FgYellow).Fprintln(current.out, "✗ No profile selected")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the selected profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.whoami()
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(deselectCmd)
	rootCmd.AddCommand(whoamiCmd)
}
