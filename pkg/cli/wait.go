package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/wirecheck/pkg/readiness"
)

var (
	waitTimeout  time.Duration
	waitInterval time.Duration
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait until the WireMock admin API answers",
	Long: `Poll the WireMock admin API until it answers, or fail once the ready
timeout has elapsed. Useful in CI right after starting the server.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		readyTimeout := cfg.ReadyTimeout.Std()
		if cmd.Flags().Changed("ready-timeout") {
			readyTimeout = waitTimeout
		}
		interval := cfg.PollInterval.Std()
		if cmd.Flags().Changed("interval") {
			interval = waitInterval
		}

		h, err := newHarness()
		if err != nil {
			return err
		}
		prober := readiness.NewProber(h.Client().Ping, readiness.NewTracker(), logger)

		start := time.Now()
		if err := prober.WaitUntilReady(cmd.Context(), readyTimeout, interval); err != nil {
			return errors.New(FormatConnectionError(err))
		}

		waited := time.Since(start).Round(time.Millisecond)
		return printResult(cmd.OutOrStdout(), map[string]any{
			"baseUrl": cfg.BaseURL,
			"ready":   true,
			"waited":  waited.String(),
		}, func() {
			passColor.Fprint(cmd.OutOrStdout(), "ready")
			fmt.Fprintf(cmd.OutOrStdout(), " %s (waited %s)\n", cfg.BaseURL, waited)
		})
	},
}

func init() {
	waitCmd.Flags().DurationVar(&waitTimeout, "ready-timeout", 0, "How long to wait before giving up (default: 60s)")
	waitCmd.Flags().DurationVar(&waitInterval, "interval", 0, "Delay between attempts (default: 1s)")
	rootCmd.AddCommand(waitCmd)
}
