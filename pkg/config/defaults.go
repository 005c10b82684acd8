package config

import (
	"github.com/getmockd/wirecheck/pkg/adminclient"
	"github.com/getmockd/wirecheck/pkg/readiness"
	"github.com/getmockd/wirecheck/pkg/recording"
)

// DefaultBaseURL is where a locally started mock server listens.
const DefaultBaseURL = "http://localhost:8080"

// DefaultStubsDir is the directory stub paths are resolved against.
const DefaultStubsDir = "features/mocks"

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	cfg := &Config{
		BaseURL:       DefaultBaseURL,
		Timeout:       Duration(adminclient.DefaultTimeout),
		ReadyTimeout:  Duration(readiness.DefaultTimeout),
		PollInterval:  Duration(readiness.DefaultInterval),
		StubsDir:      DefaultStubsDir,
		ExcludeParams: append([]string(nil), recording.DefaultExcludedQueryParams...),
		StripPaths:    append([]string(nil), recording.DefaultStripPaths...),
		LogLevel:      "info",
		LogFormat:     "text",
		Sources:       make(map[string]string),
	}

	for _, key := range []string{
		"baseUrl", "timeout", "readyTimeout", "pollInterval", "stubsDir",
		"excludeParams", "stripPaths", "logLevel", "logFormat",
	} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}
