package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codepulse",
	Short: "Personal coding-activity tracker for AI coding assistants",
	Long: `codepulse tracks your AI-assisted coding activity.

Coding assistants emit lifecycle events (prompt submitted, response
finished, session closed) through hooks; codepulse records them,
reconstructs work sessions, and serves weekly statistics to a local
dashboard.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
