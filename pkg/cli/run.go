package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/getmockd/wirecheck/pkg/config"
)

var (
	runStubs   []string
	runNoClean bool
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Run a test command against freshly loaded stubs and check coverage",
	Long: `Wait for WireMock, clean it, register the stubs named by --stubs, run
the command, then check that every registered stub was requested and that
every request was served by one of them.

The command inherits the environment with WIRECHECK_BASE_URL set to the
WireMock URL. Per-stub hit counts are printed after the command exits.
The exit status is the command's own if it failed, 1 if the coverage check
failed, and 0 otherwise.`,
	Example: `  wirecheck run --stubs checkout -- go test ./e2e/...
  wirecheck run --stubs "users/*.json" --stubs login.json -- npm test`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		h, err := newHarness()
		if err != nil {
			return err
		}

		if err := h.BeforeScenario(ctx); err != nil {
			return errors.New(FormatConnectionError(err))
		}
		if !runNoClean {
			if err := h.Clean(ctx); err != nil {
				return errors.New(FormatConnectionError(err))
			}
		}
		for _, path := range runStubs {
			if _, err := h.AddStubsFromPath(ctx, path); err != nil {
				return errors.New(FormatConnectionError(err))
			}
		}
		logger.Info("running command", "command", args[0], "stubs", h.Registry().Len())

		child := exec.CommandContext(ctx, args[0], args[1:]...)
		child.Env = append(os.Environ(), config.EnvBaseURL+"="+cfg.BaseURL)
		child.Stdin = cmd.InOrStdin()
		child.Stderr = cmd.ErrOrStderr()
		// stdout is reserved for the JSON report in --json mode
		child.Stdout = cmd.OutOrStdout()
		if jsonOutput {
			child.Stdout = cmd.ErrOrStderr()
		}
		runErr := child.Run()

		summary, err := h.Report(ctx)
		if err != nil {
			return errors.New(FormatConnectionError(err))
		}
		if err := printSummary(cmd.OutOrStdout(), summary); err != nil {
			return err
		}

		if runErr != nil {
			var exitErr *exec.ExitError
			if errors.As(runErr, &exitErr) && exitErr.ExitCode() > 0 {
				return &ExitError{Code: exitErr.ExitCode(), Err: fmt.Errorf("%s: %w", args[0], runErr)}
			}
			return fmt.Errorf("failed to run %s: %w", args[0], runErr)
		}
		if !summary.Passed() {
			if err := h.VerifyAllStubsMatched(ctx); err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			return &ExitError{Code: 1, Err: errCoverage}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringArrayVarP(&runStubs, "stubs", "s", nil, "Stub file, directory or glob to register, relative to the stubs directory (repeatable)")
	runCmd.Flags().BoolVar(&runNoClean, "no-clean", false, "Keep stubs and requests already on the server")
	rootCmd.AddCommand(runCmd)
}
