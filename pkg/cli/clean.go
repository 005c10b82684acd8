package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete every stub and the request journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHarness()
		if err != nil {
			return err
		}
		if err := h.Clean(cmd.Context()); err != nil {
			return errors.New(FormatConnectionError(err))
		}
		return printResult(cmd.OutOrStdout(), map[string]any{"cleaned": true}, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Cleaned WireMock at %s\n", cfg.BaseURL)
		})
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
