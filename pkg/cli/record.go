package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var recordSaveDir string

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record traffic proxied through WireMock",
	Long: `Start and stop WireMock recording sessions. While recording, WireMock
proxies every request to the target and captures a stub for each one.
Stopping with --save normalizes the captured stubs and writes one file per
stub, named by capture order and stub name.`,
}

var recordStartCmd = &cobra.Command{
	Use:     "start <target-url>",
	Short:   "Start recording with redirection to a target",
	Example: `  wirecheck record start https://api.example.com`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHarness()
		if err != nil {
			return err
		}
		if err := h.StartRecording(cmd.Context(), args[0]); err != nil {
			return errors.New(FormatConnectionError(err))
		}
		return printResult(cmd.OutOrStdout(), map[string]any{"recording": true, "target": args[0]}, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Recording traffic to %s\n", args[0])
		})
	},
}

var recordStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop recording, optionally saving the captured stubs",
	Example: `  wirecheck record stop
  wirecheck record stop --save recorded/checkout`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHarness()
		if err != nil {
			return err
		}

		if recordSaveDir == "" {
			result, err := h.StopRecording(cmd.Context())
			if err != nil {
				return errors.New(FormatConnectionError(err))
			}
			return printResult(cmd.OutOrStdout(), map[string]any{"recording": false, "captured": len(result.Mappings)}, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Recording stopped, %d stub(s) discarded\n", len(result.Mappings))
			})
		}

		paths, err := h.StopRecordingAndSave(cmd.Context(), recordSaveDir)
		if err != nil {
			return errors.New(FormatConnectionError(err))
		}
		return printFiles(cmd, paths)
	},
}

func printFiles(cmd *cobra.Command, paths []string) error {
	return printResult(cmd.OutOrStdout(), map[string]any{"files": paths}, func() {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d stub(s)\n", len(paths))
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
		}
	})
}

func init() {
	recordStopCmd.Flags().StringVar(&recordSaveDir, "save", "", "Directory, relative to the stubs directory, to save the captured stubs in")
	recordCmd.AddCommand(recordStartCmd, recordStopCmd)
	rootCmd.AddCommand(recordCmd)
}
