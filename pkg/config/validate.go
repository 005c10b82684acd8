package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/wirecheck/pkg/logging"
)

// minPollInterval keeps a misconfigured interval from spinning.
const minPollInterval = 10 * time.Millisecond

// Validate checks the resolved configuration and returns every problem
// found, joined.
func (c *Config) Validate() error {
	var errs []error

	if c.BaseURL == "" {
		errs = append(errs, errors.New("baseUrl is required"))
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("baseUrl %q must be an absolute http(s) URL", c.BaseURL))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout %s must not be negative", c.Timeout))
	}
	if c.ReadyTimeout <= 0 {
		errs = append(errs, fmt.Errorf("readyTimeout %s must be positive", c.ReadyTimeout))
	}
	if c.PollInterval.Std() < minPollInterval {
		errs = append(errs, fmt.Errorf("pollInterval %s must be at least %s", c.PollInterval, minPollInterval))
	}

	for _, p := range c.StripPaths {
		if _, err := jp.ParseString(p); err != nil {
			errs = append(errs, fmt.Errorf("stripPaths: invalid JSONPath %q: %w", p, err))
		}
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("logLevel: %w", err))
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("logFormat: %w", err))
	}

	return errors.Join(errs...)
}

// Source returns where key's value came from, or "" if it was never set.
func (c *Config) Source(key string) string {
	return c.Sources[key]
}
