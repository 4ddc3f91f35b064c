// ABOUTME: CLI commands for managing profiles.
// ABOUTME: Supports add and list subcommands.
package main

import (
	"github.com/spf13/cobra"
)

var (
	profileAge    int
	profileGender string
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"profiles", "pr"},
	Short:   "Manage profiles",
	Long: `Profiles are the people whose measurements you track.

Each profile has a unique name and an optional age and gender. Records are
always logged against the selected profile.

COMMANDS:

  add      Create a new profile (it becomes the selected profile)
  list     List profiles; the selected one is marked with *`,
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new profile",
	Long: `Add a new profile. Names must be unique (case-sensitive).

Examples:
  healthtrack profile add Alice --age 30 --gender F
  healthtrack profile add "Grandpa Joe"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var age *int
		if cmd.Flags().Changed("age") {
			age = &profileAge
		}
		var gender *string
		if cmd.Flags().Changed("gender") {
			gender = &profileGender
		}
		p, err := current.addProfile(args[0], age, gender)
		if err != nil {
			return err
		}
		// Later invocations start as the new profile, like 'select'.
		return current.saveDefaultProfile(p.Name)
	},
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List profiles",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.listProfiles()
	},
}

func init() {
	profileAddCmd.Flags().IntVar(&profileAge, "age", 0, "age in years")
	profileAddCmd.Flags().StringVar(&profileGender, "gender", "", "gender (free-form)")

	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileListCmd)
	rootCmd.AddCommand(profileCmd)
}
