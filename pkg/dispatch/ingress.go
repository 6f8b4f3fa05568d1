package dispatch

import (
	"sync"
	"time"
)

// ingress is one producer slot's bounded buffer: a ring held as a plain
// slice, swapped wholesale with a spare cache from the owning depot once
// it fills. Ingress slots are the unit of producer-order preservation —
// items inserted by way of the same ingress keep their relative order
// until the slot's cache is rotated into the depot.
type ingress struct {
	mu       sync.Mutex
	depot    *depot
	capacity int
	cur      []item
}

func newIngress(d *depot, capacity int) *ingress {
	return &ingress{depot: d, capacity: capacity, cur: make([]item, 0, capacity)}
}

// produce inserts it, blocking past a full local cache only long enough
// to rotate it into the depot or, failing that, up to deadline waiting
// for room. Returns false if deadline passed first.
func (in *ingress) produce(it item, deadline time.Time) bool {
	for {
		in.mu.Lock()
		if len(in.cur) < in.capacity {
			in.cur = append(in.cur, it)
			in.mu.Unlock()
			return true
		}

		// Cache is full. Rotating it into the depot's ready queue needs
		// both room in ready and a spare to replace it with; lacking
		// either, we fall back to waiting rather than rotating anyway,
		// which is what bounds the queue's memory under sustained
		// overload. Lock ordering is ingress-then-depot, via TryLock, so
		// we never block on the depot while holding this ingress's lock.
		if in.depot.mu.TryLock() {
			spare := in.depot.takeSpareLocked()
			if spare != nil {
				full := in.cur
				if in.depot.pushReadyLocked(full) {
					in.depot.mu.Unlock()
					in.depot.wakeHeads()

					in.cur = append(spare, it)
					in.mu.Unlock()
					return true
				}
				in.depot.recycleLocked(spare)
			}
			in.depot.mu.Unlock()
		}
		in.mu.Unlock()

		// Depot contended, ready is at capacity, or no spare is
		// available; release our lock and queue as a waiter instead of
		// spinning on TryLock.
		if !in.depot.waitForSpace(deadline) {
			return false
		}
		if !time.Now().Before(deadline) {
			return false
		}
	}
}

// drain empties the ingress's current cache into the depot's ready
// queue if it holds anything, used by a reader head's sweep when no
// cache has arrived in the depot on its own. Returns true if it moved
// something. If ready is at capacity the cache is left in place rather
// than discarded, to be retried on the next sweep.
func (in *ingress) drain() bool {
	in.mu.Lock()
	if len(in.cur) == 0 {
		in.mu.Unlock()
		return false
	}
	full := in.cur

	in.depot.mu.Lock()
	moved := in.depot.pushReadyLocked(full)
	in.depot.mu.Unlock()

	if !moved {
		in.mu.Unlock()
		return false
	}

	in.cur = make([]item, 0, in.capacity)
	in.mu.Unlock()
	in.depot.wakeHeads()
	return true
}
