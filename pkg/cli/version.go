package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	// version must work without a valid configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		info := map[string]string{
			"version":   Version,
			"commit":    Commit,
			"buildDate": BuildDate,
			"go":        runtime.Version(),
			"platform":  runtime.GOOS + "/" + runtime.GOARCH,
		}
		return printResult(cmd.OutOrStdout(), info, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "wirecheck %s (commit %s, built %s)\n", Version, Commit, BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", info["go"], info["platform"])
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
