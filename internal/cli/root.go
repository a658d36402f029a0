// Package cli implements the PurpleSchool command-line interface using Cobra.
// Each subcommand maps to one surface of the progress engine (stats, study,
// achievements, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "purpleschool",
	Short: "PurpleSchool — Learning progress engine",
	Long: `PurpleSchool tracks a student's learning journey: XP, levels,
streaks and achievements, stored locally and served to the dashboard UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
