package dispatch

import "github.com/AlexanderHaase/dynalog/internal/atomicutil"

// FlushBarrier is returned by Dispatcher.Flush. Wait blocks until one
// copy of the flush token has been drained from every ingress slot that
// existed when Flush was called — i.e. until every message that was
// already enqueued at that instant has been delivered to its sink.
// Messages enqueued after Flush began may or may not have been drained
// first; that race is inherent to a concurrent multi-producer queue and
// is not resolved here.
type FlushBarrier struct {
	countdown *atomicutil.Countdown
	done      chan struct{}
}

func newFlushBarrier(n int) *FlushBarrier {
	b := &FlushBarrier{done: make(chan struct{})}
	b.countdown = atomicutil.NewCountdown(n, func() { close(b.done) })
	return b
}

// Wait blocks until every token copy has been consumed.
func (b *FlushBarrier) Wait() {
	<-b.done
}

// Done reports whether Wait would return immediately.
func (b *FlushBarrier) Done() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}
