package cli

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// configKeys lists the config keys in display order.
var configKeys = []string{
	"baseUrl", "timeout", "readyTimeout", "pollInterval", "stubsDir",
	"excludeParams", "stripPaths", "logLevel", "logFormat", "logFile",
}

type configEntry struct {
	Value  any    `json:"value"`
	Source string `json:"source,omitempty"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration and where each value came from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := map[string]any{
			"baseUrl":       cfg.BaseURL,
			"timeout":       cfg.Timeout.String(),
			"readyTimeout":  cfg.ReadyTimeout.String(),
			"pollInterval":  cfg.PollInterval.String(),
			"stubsDir":      cfg.StubsDir,
			"excludeParams": cfg.ExcludeParams,
			"stripPaths":    cfg.StripPaths,
			"logLevel":      cfg.LogLevel,
			"logFormat":     cfg.LogFormat,
			"logFile":       cfg.LogFile,
		}
		data := make(map[string]configEntry, len(values))
		for _, key := range configKeys {
			data[key] = configEntry{Value: values[key], Source: cfg.Source(key)}
		}

		return printResult(cmd.OutOrStdout(), data, func() {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Key", "Value", "Source")
			for _, key := range configKeys {
				_ = table.Append([]string{key, displayValue(values[key]), cfg.Source(key)})
			}
			_ = table.Render()
		})
	},
}

func displayValue(v any) string {
	if list, ok := v.([]string); ok {
		return strings.Join(list, ", ")
	}
	return fmt.Sprint(v)
}

func init() {
	rootCmd.AddCommand(configCmd)
}
