package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/wirecheck/pkg/stub"
)

var loadCmd = &cobra.Command{
	Use:   "load <path>...",
	Short: "Register stub files with WireMock",
	Long: `Register stub files with WireMock. Each path is a file, a directory
(its JSON files, not recursive) or a glob such as "users/**/*.json",
relative to the stubs directory. Files are registered in sorted order and
loading stops at the first failure.`,
	Example: `  wirecheck load login.json
  wirecheck load --stubs-dir testdata/mocks checkout "users/*.json"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHarness()
		if err != nil {
			return err
		}

		var loaded []stubRow
		for _, path := range args {
			added, err := h.AddStubsFromPath(cmd.Context(), path)
			loaded = append(loaded, rowsFor(path, added)...)
			if err != nil {
				return errors.New(FormatConnectionError(err))
			}
		}

		return printResult(cmd.OutOrStdout(), loaded, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d stub(s) into %s\n", len(loaded), cfg.BaseURL)
			for _, r := range loaded {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", r.ID, r.Name)
			}
		})
	},
}

type stubRow struct {
	Path string `json:"path"`
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

func rowsFor(path string, stubs []stub.Stub) []stubRow {
	rows := make([]stubRow, 0, len(stubs))
	for _, s := range stubs {
		rows = append(rows, stubRow{Path: path, ID: s.ID(), Name: s.Name()})
	}
	return rows
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
