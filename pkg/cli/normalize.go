package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/wirecheck/pkg/recording"
)

var normalizeOut string

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Normalize a saved recording into stub files",
	Long: `Normalize a saved stop-recording response, or a bare JSON array of
mappings, into one stub file per mapping. Use "-" to read from stdin.
Nothing is written if any mapping is malformed.`,
	Example: `  curl -X POST localhost:8080/__admin/recordings/stop > rec.json
  wirecheck normalize rec.json --out recorded`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read recording: %w", err)
		}

		result, err := recording.DecodeResult(data)
		if err != nil {
			return err
		}
		n, err := newNormalizer(logger)
		if err != nil {
			return err
		}
		docs, err := n.Normalize(result.Mappings)
		if err != nil {
			return err
		}

		paths, err := recording.NewWriter(cfg.StubsDir, logger).WriteAll(normalizeOut, docs)
		if err != nil {
			return err
		}
		return printFiles(cmd, paths)
	},
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeOut, "out", "o", "", "Output directory, relative to the stubs directory (required)")
	_ = normalizeCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(normalizeCmd)
}
