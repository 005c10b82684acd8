package readiness

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProbe fails until the call numbered succeedOn (1-based). Zero
// means it never succeeds.
func countingProbe(succeedOn int) (ProbeFunc, *int) {
	calls := 0
	return func(context.Context) error {
		calls++
		if succeedOn > 0 && calls >= succeedOn {
			return nil
		}
		return errors.New("connection refused")
	}, &calls
}

func TestTracker(t *testing.T) {
	tr := NewTracker()
	assert.False(t, tr.Ready())

	assert.True(t, tr.MarkReady())
	assert.True(t, tr.Ready())

	assert.False(t, tr.MarkReady(), "second MarkReady must not report a change")
	assert.True(t, tr.Ready())
}

func TestTracker_ConcurrentMarkReady(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	var mu sync.Mutex
	changed := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.MarkReady() {
				mu.Lock()
				changed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, changed)
}

func TestAttempts(t *testing.T) {
	assert.Equal(t, 60, Attempts(DefaultTimeout, DefaultInterval))
	assert.Equal(t, 3, Attempts(3500*time.Millisecond, time.Second))
	assert.Equal(t, 1, Attempts(100*time.Millisecond, time.Second))
	assert.Equal(t, 1, Attempts(0, time.Second))
	assert.Equal(t, 1, Attempts(time.Second, 0))
}

func TestWaitUntilReady_SucceedsAfterRetries(t *testing.T) {
	probe, calls := countingProbe(3)
	tr := NewTracker()
	p := NewProber(probe, tr, nil)

	err := p.WaitUntilReady(context.Background(), 10*time.Millisecond, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, *calls)
	assert.True(t, tr.Ready())
}

func TestWaitUntilReady_CachedAcrossCalls(t *testing.T) {
	probe, calls := countingProbe(1)
	tr := NewTracker()

	require.NoError(t, NewProber(probe, tr, nil).WaitUntilReady(context.Background(), time.Second, time.Millisecond))
	require.NoError(t, NewProber(probe, tr, nil).WaitUntilReady(context.Background(), time.Second, time.Millisecond))

	assert.Equal(t, 1, *calls, "a ready tracker must skip probing")
}

func TestWaitUntilReady_Exhausted(t *testing.T) {
	probe, calls := countingProbe(0)
	tr := NewTracker()
	p := NewProber(probe, tr, nil)

	err := p.WaitUntilReady(context.Background(), 5*time.Millisecond, time.Millisecond)

	var notReady *NotReadyError
	require.True(t, errors.As(err, &notReady), "got %v", err)
	assert.Equal(t, 5, notReady.Attempts)
	assert.Equal(t, 5, *calls)
	assert.EqualError(t, notReady.Last, "connection refused")
	assert.Contains(t, err.Error(), "after 5 attempts")
	assert.False(t, tr.Ready())
}

func TestWaitUntilReady_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	p := NewProber(func(context.Context) error {
		calls++
		cancel()
		return errors.New("not yet")
	}, nil, nil)

	err := p.WaitUntilReady(ctx, time.Hour, time.Second)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
