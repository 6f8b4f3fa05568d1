package dispatch

import (
	"sync"
	"time"
)

// waitTicket is a producer's registration in a depot's waiter list: it
// blocks on ch until woken by a consumer freeing a cache, or until its
// own deadline elapses.
type waitTicket struct {
	ch chan struct{}
}

// depot serves a disjoint set of ingress slots with a pool of reader
// heads. It owns the ready queue of full caches awaiting drain, capped
// at maxReady, the spare queue of empty caches handed back to
// ingresses, capped at maxSpare, and the list of producers blocked
// because neither a ready slot nor a spare cache was available.
type depot struct {
	mu sync.Mutex

	ready [][]item
	spare [][]item

	maxReady int
	maxSpare int
	waiters  []*waitTicket

	// notify wakes any head sleeping in nextCache as soon as something
	// lands in ready, so a head's deadline is a ceiling on latency, not
	// the typical case.
	notify chan struct{}
}

func newDepot(maxReady, maxSpare int) *depot {
	return &depot{maxReady: maxReady, maxSpare: maxSpare, notify: make(chan struct{}, 1)}
}

func (d *depot) wakeHeads() {
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// takeSpareLocked must be called with d.mu held.
func (d *depot) takeSpareLocked() []item {
	n := len(d.spare)
	if n == 0 {
		return nil
	}
	s := d.spare[n-1]
	d.spare = d.spare[:n-1]
	return s[:0]
}

// pushReadyLocked must be called with d.mu held. It refuses the push
// once ready is at its cap, reporting false so the caller can fall back
// to waiting instead of growing the queue without bound. Callers should
// call wakeHeads after releasing the lock on a successful push.
func (d *depot) pushReadyLocked(full []item) bool {
	if len(d.ready) >= d.maxReady {
		return false
	}
	d.ready = append(d.ready, full)
	return true
}

// waitForSpace registers the calling producer as a waiter and blocks
// until woken or deadline elapses. Returns false on timeout.
func (d *depot) waitForSpace(deadline time.Time) bool {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return false
	}

	d.mu.Lock()
	w := &waitTicket{ch: make(chan struct{}, 1)}
	d.waiters = append(d.waiters, w)
	d.mu.Unlock()

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-w.ch:
		return true
	case <-timer.C:
		return false
	}
}

// wakeOneWaiterLocked must be called with d.mu held.
func (d *depot) wakeOneWaiterLocked() {
	if len(d.waiters) == 0 {
		return
	}
	w := d.waiters[0]
	d.waiters = d.waiters[1:]
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// recycleLocked returns a drained cache to the spare pool, dropping it
// instead if the pool is already at its cap, bounding steady-state
// allocation. Must be called with d.mu held.
func (d *depot) recycleLocked(cache []item) {
	if len(d.spare) >= d.maxSpare {
		return
	}
	d.spare = append(d.spare, cache[:0])
}

// popReadyLocked must be called with d.mu held. ready is drained
// oldest-first: a cache pushed before a later flush token, whether from
// the same ingress or not, is always popped first, which is what lets
// FlushBarrier.Wait truthfully report every pre-flush message
// delivered once it returns.
func (d *depot) popReadyLocked() ([]item, bool) {
	if len(d.ready) == 0 {
		return nil, false
	}
	cache := d.ready[0]
	d.ready = d.ready[1:]
	return cache, true
}
