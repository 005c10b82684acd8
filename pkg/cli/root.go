package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/getmockd/wirecheck/pkg/config"
	"github.com/getmockd/wirecheck/pkg/harness"
	"github.com/getmockd/wirecheck/pkg/logging"
	"github.com/getmockd/wirecheck/pkg/readiness"
	"github.com/getmockd/wirecheck/pkg/recording"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	baseURL    string
	stubsDir   string
	timeout    time.Duration
	logLevel   string
	logFormat  string
	logFile    string
	jsonOutput bool
	noColor    bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// Resolved by setup before a subcommand runs.
var (
	cfg     *config.Config
	logger  = logging.Nop()
	logSink io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wirecheck",
	Short: "wirecheck drives a WireMock server from acceptance tests",
	Long: `wirecheck registers stubs on a WireMock server, checks that every stub
was requested and every request was stubbed, and turns recorded traffic
into stub files.

Configuration can be provided via flags, WIRECHECK_* environment variables,
or a .wirecheck.yaml file in the working directory.`,
	SilenceUsage:      true,
	SilenceErrors:     true, // We handle errors in Execute()
	PersistentPreRunE: setup,
}

// Execute runs the root command and exits with a non-zero status on
// failure. It is called by main.main().
func Execute() {
	err := execute()
	if err == nil {
		return
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(os.Stderr, exitErr.Err)
		}
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeLog()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to a config file (default: .wirecheck.yaml in the working directory)")
	pf.StringVar(&baseURL, "base-url", "", "WireMock base URL (default: "+config.DefaultBaseURL+")")
	pf.StringVar(&stubsDir, "stubs-dir", "", "Directory stub paths are resolved against (default: "+config.DefaultStubsDir+")")
	pf.DurationVar(&timeout, "timeout", 0, "Admin API request timeout (default: 30s)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&logFile, "log-file", "", "Also write a debug-level JSON log to this file")
	pf.BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// setup resolves the configuration from defaults, file, environment and
// flags, in that order, and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	if noColor {
		color.NoColor = true
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	loaded, err := config.Load(configPath, wd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	fromFlags := &config.Config{}
	if flags.Changed("base-url") {
		fromFlags.BaseURL = baseURL
	}
	if flags.Changed("stubs-dir") {
		fromFlags.StubsDir = stubsDir
	}
	if flags.Changed("timeout") {
		fromFlags.Timeout = config.Duration(timeout)
	}
	if flags.Changed("log-level") {
		fromFlags.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		fromFlags.LogFormat = logFormat
	}
	if flags.Changed("log-file") {
		fromFlags.LogFile = logFile
	}
	config.MergeConfig(loaded, fromFlags, config.SourceFlag)

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	cfg = loaded
	return initLogger(cmd.ErrOrStderr())
}

func initLogger(w io.Writer) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}

	lc := logging.Config{Level: level, Format: format, Output: w}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		lc.Mirror = f
		logSink = f
	}
	logger = logging.New(lc)
	return nil
}

func closeLog() {
	if logSink != nil {
		_ = logSink.Close()
		logSink = nil
	}
	logger = logging.Nop()
}

// newNormalizer builds the recording normalizer from the resolved config.
func newNormalizer(l *slog.Logger) (*recording.Normalizer, error) {
	return recording.NewNormalizer(
		recording.WithExcludedQueryParams(cfg.ExcludeParams...),
		recording.WithStripPaths(cfg.StripPaths...),
		recording.WithLogger(l),
	)
}

// newHarness builds a harness from the resolved config. Each invocation is
// its own process, so it always starts with a fresh readiness tracker.
func newHarness() (*harness.Harness, error) {
	n, err := newNormalizer(logger)
	if err != nil {
		return nil, err
	}
	return harness.New(harness.Config{
		BaseURL:      cfg.BaseURL,
		StubsDir:     cfg.StubsDir,
		ReadyTimeout: cfg.ReadyTimeout.Std(),
		PollInterval: cfg.PollInterval.Std(),
		Timeout:      cfg.Timeout.Std(),
	},
		harness.WithNormalizer(n),
		harness.WithLogger(logger),
		harness.WithTracker(readiness.NewTracker()),
	)
}
