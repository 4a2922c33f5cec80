package remote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimiter(max int, window time.Duration) (*SlidingLimiter, *time.Time) {
	l := NewSlidingLimiter(max, window)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestSlidingLimiterWindow(t *testing.T) {
	l, now := testLimiter(3, 20*time.Second)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow())
		l.Record()
	}
	assert.False(t, l.Allow())

	// Requests age out as the window slides.
	*now = now.Add(21 * time.Second)
	assert.True(t, l.Allow())
}

func TestSlidingLimiterWaitTime(t *testing.T) {
	l, now := testLimiter(2, 20*time.Second)

	assert.Zero(t, l.WaitTime())

	l.Record()
	l.Record()

	// Oldest request just landed: wait the full window plus grace.
	assert.Equal(t, 20*time.Second+graceDelay, l.WaitTime())

	// Halfway through the window only the remainder is left.
	*now = now.Add(10 * time.Second)
	assert.Equal(t, 10*time.Second+graceDelay, l.WaitTime())

	*now = now.Add(11 * time.Second)
	assert.Zero(t, l.WaitTime())
}

func TestWaitFull(t *testing.T) {
	l := NewSlidingLimiter(100, 50*time.Millisecond)

	// Waits the whole window even though no request was recorded.
	start := time.Now()
	require.NoError(t, l.WaitFull(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	t.Run("cancellation cuts the wait short", func(t *testing.T) {
		l := NewSlidingLimiter(100, time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Error(t, l.WaitFull(ctx))
	})
}

func TestSlidingLimiterWaitReturnsImmediately(t *testing.T) {
	l := NewSlidingLimiter(5, 20*time.Second)

	done := make(chan struct{})
	go func() {
		_ = l.Wait(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked with an open window")
	}
}
