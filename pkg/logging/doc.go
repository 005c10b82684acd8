// Package logging configures the structured loggers used across wirecheck.
//
// It wraps log/slog. Every component takes a *slog.Logger and falls back to
// Nop when none is given:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//	logger = logging.Component(logger, "harness")
//	logger.Info("stub registered", "id", id)
//
// Scenario-scoped work is tagged with Session so that lines belonging to the
// same scenario can be grouped when several suites share one mock server.
//
// Config.Mirror tees every record, at debug level and in JSON, to a second
// writer such as a log file kept as a CI artifact.
package logging
