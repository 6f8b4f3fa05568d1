package dynalog

import (
	"sync"
	"sync/atomic"

	"github.com/AlexanderHaase/dynalog/pkg/level"
	"github.com/AlexanderHaase/dynalog/pkg/message"
)

// state bundles a site's sink and mask so both change atomically with a
// single pointer swap. Splitting them into two separate atomics would let
// a concurrent fast-path reader observe a sink from one policy paired
// with a mask from another.
type state struct {
	sink Sink
	mask level.Mask
}

// Site is the call-site record: one per physical log call, created once
// and never moved or destroyed. Everything except the state pointer is
// immutable for the record's lifetime.
type Site struct {
	st atomic.Pointer[state]

	Tag      string
	Location string
	Context  string

	registerOnce sync.Once
}

// NewSite creates a call-site record pointed at the bootstrap sink with
// an all-levels-enabled mask, matching every site's static-init state
// before any policy has run.
func NewSite(tag, location, context string) *Site {
	s := &Site{Tag: tag, Location: location, Context: context}
	s.st.Store(&state{sink: Bootstrap(), mask: level.All})
	return s
}

// Enabled reports whether the site currently has a non-none sink.
func (s *Site) Enabled() bool {
	st := s.st.Load()
	return st != nil && st.sink != nil
}

// Sink returns the site's current sink, or nil if disabled.
func (s *Site) Sink() Sink {
	st := s.st.Load()
	if st == nil {
		return nil
	}
	return st.sink
}

// Mask returns the site's current level mask.
func (s *Site) Mask() level.Mask {
	st := s.st.Load()
	if st == nil {
		return level.None
	}
	return st.mask
}

// Activate installs sink and mask as a single atomic update, enabling the
// site (unless sink is itself nil, in which case it behaves like
// Deactivate). Called only by a policy's Update under the engine's lock.
func (s *Site) Activate(sink Sink, mask level.Mask) {
	s.st.Store(&state{sink: sink, mask: mask})
}

// Deactivate clears the site's sink, disabling it. The mask is left in
// place; a subsequent Activate always supplies a fresh one anyway.
func (s *Site) Deactivate() {
	s.st.Store(&state{sink: nil, mask: s.Mask()})
}

// registerOnBootstrap runs fn exactly once for this site's lifetime,
// regardless of how many goroutines race to invoke it on the site's
// first-ever log call. Every racer blocks until fn has returned, so all
// of them observe the state that fn installed.
func (s *Site) registerOnBootstrap(fn func()) {
	s.registerOnce.Do(fn)
}

// Log is the fast-path predicate: one atomic load, one mask test, and
// (only when both pass) a message materialization and a sink call. This
// is the entire cost of a disabled call site beyond the load+branch.
func (s *Site) Log(lvl level.Level, args ...interface{}) {
	st := s.st.Load()
	if st == nil || st.sink == nil {
		return
	}
	if !st.mask.Has(lvl) {
		return
	}
	msg := message.Format(s.Tag, lvl, args...)
	st.sink.Emit(s, msg)
}
