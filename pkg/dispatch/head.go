package dispatch

import "time"

// head is one reader goroutine's drain state: the depot it serves, the
// subset of ingress slots it sweeps on a timeout, and its next wake
// deadline.
type head struct {
	depot     *depot
	ingresses []*ingress
	latency   time.Duration
	deadline  time.Time
}

// run drains ready caches from h.depot until stop reports true. recv is
// applied to every non-flush item; flush tokens release their
// countdown. stop is checked before each element and between drains, so
// it is the only cancellation mechanism — there is no separate context.
func (h *head) run(recv ReceiveFunc, stop func() bool) {
	h.deadline = time.Now().Add(h.latency)
	for !stop() {
		cache, ok := h.nextCache(stop)
		if !ok {
			continue
		}
		for _, it := range cache {
			if stop() {
				break
			}
			if it.flush != nil {
				it.flush.Release()
				continue
			}
			recv(it.site, it.sink, it.msg)
		}
		h.depot.mu.Lock()
		h.depot.recycleLocked(cache)
		h.depot.wakeOneWaiterLocked()
		h.depot.mu.Unlock()
	}
}

// nextCache returns the next ready cache to drain, sleeping until the
// head's deadline and sweeping its assigned ingresses if nothing showed
// up on its own.
func (h *head) nextCache(stop func() bool) ([]item, bool) {
	d := h.depot

	d.mu.Lock()
	if cache, ok := d.popReadyLocked(); ok {
		d.mu.Unlock()
		return cache, true
	}
	d.mu.Unlock()

	h.sleepUntilDeadline(stop)
	if stop() {
		return nil, false
	}

	d.mu.Lock()
	cache, ok := d.popReadyLocked()
	d.mu.Unlock()
	if ok {
		return cache, true
	}

	h.sweep()
	h.deadline = time.Now().Add(h.latency)

	d.mu.Lock()
	cache, ok = d.popReadyLocked()
	d.mu.Unlock()
	return cache, ok
}

// sweep visits every ingress slot assigned to this head's depot and
// rotates any non-empty cache into the ready queue.
func (h *head) sweep() {
	for _, in := range h.ingresses {
		in.drain()
	}
}

// sleepUntilDeadline blocks until h.depot.notify fires, h.deadline
// elapses, or stop starts reporting true — checked on a coarse poll
// interval since stop is a predicate, not a channel.
func (h *head) sleepUntilDeadline(stop func() bool) {
	const stopPoll = 5 * time.Millisecond
	for {
		remaining := time.Until(h.deadline)
		if remaining <= 0 || stop() {
			return
		}
		wait := remaining
		if wait > stopPoll {
			wait = stopPoll
		}
		timer := time.NewTimer(wait)
		select {
		case <-h.depot.notify:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
