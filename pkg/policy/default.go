// Package policy provides the two reference policies every
// configuration engine needs plus a glob-matching convenience
// constructor: DefaultPolicy (the lowest-priority catch-all),
// PredicatePolicy (a caller-supplied matcher over tag/location/context),
// and GlobPolicy (a PredicatePolicy preconfigured with `*`-wildcard
// glob matching on tag).
package policy

import (
	"sync"

	"github.com/AlexanderHaase/dynalog/pkg/dynalog"
	"github.com/AlexanderHaase/dynalog/pkg/level"
)

// DefaultPolicy matches every site it is offered. It is meant to be
// installed at the lowest priority in an engine so every site has
// somewhere to land even when no more specific policy wants it.
type DefaultPolicy struct {
	mu   sync.RWMutex
	sink dynalog.Sink
	mask level.Mask
}

// NewDefaultPolicy builds a DefaultPolicy with the given initial sink
// and mask. A nil sink means newly matched sites start disabled.
func NewDefaultPolicy(sink dynalog.Sink, mask level.Mask) *DefaultPolicy {
	return &DefaultPolicy{sink: sink, mask: mask}
}

// Match always returns every site it is given.
func (p *DefaultPolicy) Match(sites []*dynalog.Site) []*dynalog.Site {
	return sites
}

// Update applies the policy's current sink and mask to inserted and kept
// sites, and clears removed sites.
func (p *DefaultPolicy) Update(inserted, removed, kept []*dynalog.Site) {
	p.mu.RLock()
	sink, mask := p.sink, p.mask
	p.mu.RUnlock()

	apply := func(sites []*dynalog.Site) {
		for _, s := range sites {
			if sink == nil {
				s.Deactivate()
				continue
			}
			s.Activate(sink, mask)
		}
	}
	apply(inserted)
	apply(kept)
	for _, s := range removed {
		s.Deactivate()
	}
}

// Sink returns the policy's current sink.
func (p *DefaultPolicy) Sink() dynalog.Sink {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sink
}

// SetSink changes the policy's sink. A nil sink disables every site the
// policy currently retains once the owning engine's Update is called.
func (p *DefaultPolicy) SetSink(sink dynalog.Sink) {
	p.mu.Lock()
	p.sink = sink
	p.mu.Unlock()
}

// Mask returns the policy's current level mask.
func (p *DefaultPolicy) Mask() level.Mask {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mask
}

// SetMask changes the policy's level mask. Takes effect once the owning
// engine's Update is called for this policy's priority.
func (p *DefaultPolicy) SetMask(mask level.Mask) {
	p.mu.Lock()
	p.mask = mask
	p.mu.Unlock()
}
