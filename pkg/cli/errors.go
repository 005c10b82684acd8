package cli

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/getmockd/wirecheck/pkg/adminclient"
	"github.com/getmockd/wirecheck/pkg/readiness"
)

// ExitError carries the process exit status for a failed command. Err,
// when set, is printed before exiting.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// errCoverage is returned by commands whose coverage check failed after
// the report was already printed.
var errCoverage = errors.New("coverage check failed")

// FormatConnectionError rewrites low-level dial errors into a hint about
// the mock server.
func FormatConnectionError(err error) string {
	var notReady *readiness.NotReadyError
	if errors.As(err, &notReady) {
		return fmt.Sprintf("WireMock at %s is not ready: %v", cfg.BaseURL, notReady)
	}

	var te *adminclient.TransportError
	if errors.As(err, &te) && te.StatusCode == 0 {
		var opErr *net.OpError
		var urlErr *url.Error
		if errors.As(err, &opErr) || errors.As(err, &urlErr) {
			return fmt.Sprintf("cannot connect to WireMock at %s (is it running?)", cfg.BaseURL)
		}
	}
	return err.Error()
}
