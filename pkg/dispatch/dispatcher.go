// Package dispatch implements the bounded-latency, multi-producer,
// multi-consumer queue that decouples a producing call site from a
// sink's formatting and I/O. Producers write into a per-slot ingress
// cache; reader heads drain their depot's ready queue, sweeping
// stalled ingresses on a latency deadline so nothing waits longer than
// configured even under light load.
package dispatch

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlexanderHaase/dynalog/pkg/dynalog"
	"github.com/AlexanderHaase/dynalog/pkg/message"
)

// Dispatcher owns a fixed topology of ingress slots and depots and the
// goroutines draining them. Construct with New, insert with Insert, and
// release resources with Close.
type Dispatcher struct {
	opts      Options
	ingresses []*ingress
	depots    []*depot
	rr        atomic.Uint64

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New builds and starts a Dispatcher with the given options layered
// over DefaultOptions, using EmitReceiver as its receive function.
func New(opts ...Option) *Dispatcher {
	return NewWithReceiver(EmitReceiver, opts...)
}

// NewWithReceiver is New, but lets the caller supply the function
// applied to every dequeued item instead of the default
// sink.Emit(site, msg) behaviour — useful for tests and metrics taps.
func NewWithReceiver(recv ReceiveFunc, opts ...Option) *Dispatcher {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Ingresses < o.Partitions {
		o.Ingresses = o.Partitions
	}

	d := &Dispatcher{opts: o, stop: make(chan struct{})}

	d.depots = make([]*depot, o.Partitions)
	ingressesPerPartition := (o.Ingresses + o.Partitions - 1) / o.Partitions
	maxSpare := ingressesPerPartition * o.SpareFactor
	if maxSpare < 1 {
		maxSpare = 1
	}
	// ready is bounded the same way as spare: a depot that let it grow
	// unboundedly under sustained overload would trade the queue's
	// whole point (bounded memory, backpressure on the producer)
	// for nothing.
	maxReady := ingressesPerPartition * o.SpareFactor
	if maxReady < 1 {
		maxReady = 1
	}
	for i := range d.depots {
		d.depots[i] = newDepot(maxReady, maxSpare)
	}

	d.ingresses = make([]*ingress, o.Ingresses)
	assigned := make([][]*ingress, o.Partitions)
	for i := range d.ingresses {
		dp := d.depots[i%o.Partitions]
		in := newIngress(dp, o.Capacity)
		d.ingresses[i] = in
		assigned[i%o.Partitions] = append(assigned[i%o.Partitions], in)
	}

	for i, dp := range d.depots {
		for h := 0; h < o.Heads; h++ {
			hd := &head{depot: dp, ingresses: assigned[i], latency: o.Latency}
			d.wg.Add(1)
			go func(hd *head) {
				defer d.wg.Done()
				hd.run(recv, d.stopped)
			}(hd)
		}
	}

	return d
}

func (d *Dispatcher) stopped() bool {
	select {
	case <-d.stop:
		return true
	default:
		return false
	}
}

// nextIngress picks a producer slot by round-robin. Go exposes no
// stable per-goroutine identity to hash on the way a thread ID would
// be used, so slot selection here is load-balanced but not
// producer-affine: a single goroutine's successive calls may land on
// different slots, unlike the single-thread-sticky assignment a
// thread-ID hash gives in a native implementation.
func (d *Dispatcher) nextIngress() *ingress {
	idx := d.rr.Add(1) - 1
	return d.ingresses[idx%uint64(len(d.ingresses))]
}

// Insert enqueues (site, sink, msg) for asynchronous delivery, blocking
// up to the dispatcher's configured insert timeout for room. Returns
// false if no room was available before the timeout.
func (d *Dispatcher) Insert(site *dynalog.Site, sink dynalog.Sink, msg *message.Message) bool {
	deadline := time.Now().Add(d.opts.InsertTimeout)
	return d.nextIngress().produce(item{site: site, sink: sink, msg: msg}, deadline)
}

// Flush inserts one flush-token copy into every ingress slot and
// returns a barrier whose Wait blocks until all of them have been
// drained. A copy that cannot be enqueued before the insert timeout
// counts as immediately satisfied rather than hanging Wait forever.
func (d *Dispatcher) Flush() *FlushBarrier {
	b := newFlushBarrier(len(d.ingresses))
	for _, in := range d.ingresses {
		deadline := time.Now().Add(d.opts.InsertTimeout)
		tok := item{flush: b.countdown}
		if !in.produce(tok, deadline) {
			b.countdown.Release()
		}
	}
	return b
}

// Close stops every reader head and waits for them to exit. It does not
// drain remaining queued items; callers that need that should call
// Flush and Wait first.
func (d *Dispatcher) Close() error {
	d.stopOnce.Do(func() { close(d.stop) })
	d.wg.Wait()
	return nil
}

// DeferredSink wraps a target sink and routes every Emit through a
// Dispatcher instead of calling the target directly, so formatting and
// I/O happen on a worker goroutine rather than the caller's.
type DeferredSink struct {
	dispatcher *Dispatcher
	target     dynalog.Sink
}

// NewDeferredSink builds a DeferredSink that enqueues onto d and, once
// drained, delivers to target.
func NewDeferredSink(d *Dispatcher, target dynalog.Sink) *DeferredSink {
	return &DeferredSink{dispatcher: d, target: target}
}

// Emit enqueues (site, msg) for target. On insert failure — the queue
// stayed full past the insert timeout — it writes a single diagnostic
// line to stderr and drops the message; the producing call is never
// informed.
func (s *DeferredSink) Emit(site *dynalog.Site, msg *message.Message) {
	if !s.dispatcher.Insert(site, s.target, msg) {
		fmt.Fprintf(os.Stderr, "dynalog: dispatch queue full, dropping message for tag %q\n", site.Tag)
	}
}
