// ABOUTME: CLI command for logging a measurement record.
// ABOUTME: Weight is optional when a previous weight exists for the profile.
package main

import (
	"github.com/spf13/cobra"
)

var (
	logAt       string
	logPosition string
)

var logCmd = &cobra.Command{
	Use:     "log <systolic> <diastolic> <pulse> [weight]",
	Aliases: []string{"add", "a"},
	Short:   "Log blood pressure, pulse, and weight",
	Long: `Log a measurement for the selected profile.

Blood pressure is in mmHg, pulse in beats per minute, weight in kg. If the
weight is left out, the profile's most recent weight is reused; the first
record for a profile must include it.

The measurement time defaults to now (YYYY-MM-DD HH:MM:SS). Times given with
--at are stored as written and history is sorted by that text, so keep the
same zero-padded format.

Examples:
  healthtrack log 120 80 70 65.5
  healthtrack log 118 76 64 --position "sitting, left arm"
  healthtrack log 125 82 72 66 --at "2024-01-01 08:00:00"`,
	Args: cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var position *string
		if cmd.Flags().Changed("position") {
			position = &logPosition
		}
		return current.logRecord(args, logAt, position)
	},
}

func init() {
	logCmd.Flags().StringVar(&logAt, "at", "", "measurement time (YYYY-MM-DD HH:MM:SS)")
	logCmd.Flags().StringVar(&logPosition, "position", "", "posture or location, e.g. sitting")
	rootCmd.AddCommand(logCmd)
}
