package dispatch

import (
	"runtime"
	"time"
)

// Options parameterizes a Dispatcher's topology: how many producer
// ingress slots exist, how they're grouped into depots, how many reader
// heads drain each depot, and the latency/timeout bounds that govern
// both ends of the queue.
type Options struct {
	// Capacity is the per-ingress ring size before a producer must
	// rotate its cache into the owning depot.
	Capacity int

	// Latency bounds how long a message can sit in an ingress before a
	// reader head's sweep picks it up, even with no other traffic.
	Latency time.Duration

	// InsertTimeout bounds how long Insert blocks waiting for space
	// before it reports failure.
	InsertTimeout time.Duration

	// Heads is the number of reader goroutines per depot.
	Heads int

	// Partitions is the number of depots. Ingress slots are split
	// across them round-robin.
	Partitions int

	// Ingresses is the total number of producer slots. Defaults to
	// twice GOMAXPROCS.
	Ingresses int

	// SpareFactor bounds, per depot, how many empty caches are kept on
	// hand relative to Partitions' worth of ingresses, capping the
	// queue's steady-state allocation.
	SpareFactor int
}

// Option mutates an Options being built up by New.
type Option func(*Options)

// DefaultOptions returns the topology a Dispatcher uses if New is
// called with no options.
func DefaultOptions() Options {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return Options{
		Capacity:      256,
		Latency:       50 * time.Millisecond,
		InsertTimeout: 100 * time.Millisecond,
		Heads:         1,
		Partitions:    1,
		Ingresses:     2 * n,
		SpareFactor:   2,
	}
}

func WithCapacity(n int) Option { return func(o *Options) { o.Capacity = n } }

func WithLatency(d time.Duration) Option { return func(o *Options) { o.Latency = d } }

func WithInsertTimeout(d time.Duration) Option { return func(o *Options) { o.InsertTimeout = d } }

func WithHeads(n int) Option { return func(o *Options) { o.Heads = n } }

func WithPartitions(n int) Option { return func(o *Options) { o.Partitions = n } }

func WithIngresses(n int) Option { return func(o *Options) { o.Ingresses = n } }

func WithSpareFactor(n int) Option { return func(o *Options) { o.SpareFactor = n } }
