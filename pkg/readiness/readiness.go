// Package readiness waits for the mock server's admin API to answer before
// the first scenario of a process runs.
package readiness

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/getmockd/wirecheck/pkg/logging"
)

// Defaults match a mock server booting in a sibling container.
const (
	DefaultTimeout  = 60 * time.Second
	DefaultInterval = time.Second
)

// Tracker remembers that the mock server has been seen ready. Once set it
// stays set for the lifetime of the tracker. Share one tracker between all
// harnesses of a process so repeated scenarios do not re-probe.
type Tracker struct {
	ready atomic.Bool
}

// NewTracker returns an unset tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Ready reports whether MarkReady has been called.
func (t *Tracker) Ready() bool {
	return t.ready.Load()
}

// MarkReady sets the tracker. It reports whether this call changed it.
func (t *Tracker) MarkReady() bool {
	return t.ready.CompareAndSwap(false, true)
}

// ProbeFunc performs one readiness check. A nil result means ready; any
// error means try again.
type ProbeFunc func(ctx context.Context) error

// NotReadyError is returned when every probe attempt failed.
type NotReadyError struct {
	Attempts int
	Waited   time.Duration
	Last     error
}

func (e *NotReadyError) Error() string {
	msg := fmt.Sprintf("mock server not ready after %d attempts (%s)", e.Attempts, e.Waited.Round(time.Millisecond))
	if e.Last != nil {
		msg += ": " + e.Last.Error()
	}
	return msg
}

func (e *NotReadyError) Unwrap() error {
	return e.Last
}

// Prober polls a ProbeFunc until it succeeds.
type Prober struct {
	Probe   ProbeFunc
	Tracker *Tracker
	Logger  *slog.Logger
}

// NewProber creates a prober. A nil tracker gets a private one.
func NewProber(probe ProbeFunc, tracker *Tracker, logger *slog.Logger) *Prober {
	if tracker == nil {
		tracker = NewTracker()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Prober{Probe: probe, Tracker: tracker, Logger: logger}
}

// Attempts returns how many probes WaitUntilReady makes for the given
// timeout and interval. It is never less than one.
func Attempts(timeout, interval time.Duration) int {
	if interval <= 0 || timeout <= 0 {
		return 1
	}
	n := int(timeout / interval)
	if n < 1 {
		return 1
	}
	return n
}

// WaitUntilReady returns immediately if the tracker is already set.
// Otherwise it calls Probe up to Attempts(timeout, interval) times, sleeping
// interval between calls, and marks the tracker on the first success. There
// is no backoff. Cancelling ctx stops the wait with ctx.Err().
func (p *Prober) WaitUntilReady(ctx context.Context, timeout, interval time.Duration) error {
	if p.Tracker != nil && p.Tracker.Ready() {
		return nil
	}
	logger := p.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	attempts := Attempts(timeout, interval)
	start := time.Now()
	var last error

	for attempt := 1; attempt <= attempts; attempt++ {
		last = p.Probe(ctx)
		if last == nil {
			if p.Tracker != nil {
				p.Tracker.MarkReady()
			}
			logger.Info("mock server ready", "attempts", attempt, "waited", time.Since(start))
			return nil
		}
		logger.Debug("mock server not ready", "attempt", attempt, "of", attempts, "error", last)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}

	return &NotReadyError{Attempts: attempts, Waited: time.Since(start), Last: last}
}
