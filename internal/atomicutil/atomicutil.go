// Package atomicutil provides small atomic helpers: a monotonic Counter,
// and the Countdown latch behind the dispatch queue's flush barrier.
package atomicutil

import "sync/atomic"

// Counter is a monotonically increasing uint64, safe for concurrent use.
type Counter struct {
	v atomic.Uint64
}

// Next returns the next value, starting from 0.
func (c *Counter) Next() uint64 {
	return c.v.Add(1) - 1
}

// Load returns the current value without advancing it.
func (c *Counter) Load() uint64 {
	return c.v.Load()
}

// Countdown is a release-triggered latch: it starts at n and calls done
// exactly once, the moment the n-th Release call brings it to zero.
// Used by the dispatch queue's flush barrier, where Release is called
// once per ingress slot as that slot's flush token is drained.
type Countdown struct {
	remaining atomic.Int64
	done      func()
	fired     atomic.Bool
}

// NewCountdown builds a Countdown that calls done once Release has been
// called n times. If n is 0, done fires immediately.
func NewCountdown(n int, done func()) *Countdown {
	c := &Countdown{done: done}
	c.remaining.Store(int64(n))
	if n == 0 {
		c.fire()
	}
	return c
}

// Release decrements the countdown, firing done on the transition to
// zero. Safe to call more times than n; only the zero-crossing fires.
func (c *Countdown) Release() {
	if c.remaining.Add(-1) == 0 {
		c.fire()
	}
}

func (c *Countdown) fire() {
	if c.fired.CompareAndSwap(false, true) {
		c.done()
	}
}
