package config

import (
	"fmt"
	"strings"
)

// Environment variables.
const (
	EnvBaseURL       = "WIRECHECK_BASE_URL"
	EnvStubsDir      = "WIRECHECK_STUBS_DIR"
	EnvTimeout       = "WIRECHECK_TIMEOUT"
	EnvReadyTimeout  = "WIRECHECK_READY_TIMEOUT"
	EnvPollInterval  = "WIRECHECK_POLL_INTERVAL"
	EnvExcludeParams = "WIRECHECK_EXCLUDE_PARAMS"
	EnvLogLevel      = "WIRECHECK_LOG_LEVEL"
	EnvLogFormat     = "WIRECHECK_LOG_FORMAT"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadEnvConfig applies WIRECHECK_* variables to cfg. Empty variables are
// ignored, except WIRECHECK_EXCLUDE_PARAMS where an empty value clears the
// list.
func LoadEnvConfig(cfg *Config, lookup LookupFunc) error {
	env := &Config{}

	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		env.BaseURL = v
	}
	if v, ok := lookup(EnvStubsDir); ok && v != "" {
		env.StubsDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		env.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		env.LogFormat = v
	}

	durations := []struct {
		key    string
		target *Duration
	}{
		{EnvTimeout, &env.Timeout},
		{EnvReadyTimeout, &env.ReadyTimeout},
		{EnvPollInterval, &env.PollInterval},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.target = parsed
	}

	if v, ok := lookup(EnvExcludeParams); ok {
		env.ExcludeParams = splitList(v)
	}

	MergeConfig(cfg, env, SourceEnv)
	return nil
}

// splitList splits a comma separated list, dropping blanks. It never
// returns nil.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
