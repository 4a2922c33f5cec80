package remote

import (
	"context"
	"sync"
	"time"
)

// graceDelay is added to the computed wait so the oldest request has
// actually left the window by the time the caller retries.
const graceDelay = 100 * time.Millisecond

// SlidingLimiter is the cooperative rate limit toward the remote data
// service: at most maxRequests calls per window. Callers wait out the
// remainder of the window instead of failing, and the wait suspends
// only the calling goroutine.
type SlidingLimiter struct {
	maxRequests int
	window      time.Duration

	mu       sync.Mutex
	requests []time.Time
	now      func() time.Time // overridable in tests
}

func NewSlidingLimiter(maxRequests int, window time.Duration) *SlidingLimiter {
	return &SlidingLimiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// prune drops timestamps that have left the window. Callers hold mu.
func (l *SlidingLimiter) prune(now time.Time) {
	kept := l.requests[:0]
	for _, t := range l.requests {
		if now.Sub(t) < l.window {
			kept = append(kept, t)
		}
	}
	l.requests = kept
}

// Allow reports whether a request may be made right now.
func (l *SlidingLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.requests) < l.maxRequests
}

// Record registers a request against the window.
func (l *SlidingLimiter) Record() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, l.now())
}

// WaitTime returns how long a caller must wait before the window admits
// another request. Zero when a request is admissible immediately.
func (l *SlidingLimiter) WaitTime() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.prune(now)
	if len(l.requests) < l.maxRequests {
		return 0
	}
	oldest := l.requests[0]
	for _, t := range l.requests[1:] {
		if t.Before(oldest) {
			oldest = t
		}
	}
	wait := l.window - now.Sub(oldest) + graceDelay
	if wait < 0 {
		return 0
	}
	return wait
}

// WaitFull waits out one entire window plus grace, regardless of the
// local window's occupancy. Used when the remote itself signalled
// throttling: its window may be saturated even when ours is not.
func (l *SlidingLimiter) WaitFull(ctx context.Context) error {
	timer := time.NewTimer(l.window + graceDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Wait blocks until the window admits a request or ctx is done.
func (l *SlidingLimiter) Wait(ctx context.Context) error {
	for {
		wait := l.WaitTime()
		if wait == 0 {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
