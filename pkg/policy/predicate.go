package policy

import (
	"sync"

	"github.com/AlexanderHaase/dynalog/pkg/dynalog"
	"github.com/AlexanderHaase/dynalog/pkg/level"
	glob "github.com/ryanuber/go-glob"
)

// Predicate decides whether a site, identified by its tag, call
// location, and enclosing context, should be matched.
type Predicate func(tag, location, context string) bool

// PredicatePolicy matches sites for which Predicate returns true.
type PredicatePolicy struct {
	mu   sync.RWMutex
	pred Predicate
	sink dynalog.Sink
	mask level.Mask
}

// NewPredicatePolicy builds a PredicatePolicy with the given matcher,
// initial sink, and initial mask.
func NewPredicatePolicy(pred Predicate, sink dynalog.Sink, mask level.Mask) *PredicatePolicy {
	return &PredicatePolicy{pred: pred, sink: sink, mask: mask}
}

// NewGlobPolicy builds a PredicatePolicy that matches sites whose tag
// matches the given glob pattern, using github.com/ryanuber/go-glob.
// Only `*` is a wildcard; `?` and character classes match literally.
func NewGlobPolicy(pattern string, sink dynalog.Sink, mask level.Mask) *PredicatePolicy {
	return NewPredicatePolicy(func(tag, location, context string) bool {
		return glob.Glob(pattern, tag)
	}, sink, mask)
}

func (p *PredicatePolicy) Match(sites []*dynalog.Site) []*dynalog.Site {
	p.mu.RLock()
	pred := p.pred
	p.mu.RUnlock()

	var out []*dynalog.Site
	for _, s := range sites {
		if pred(s.Tag, s.Location, s.Context) {
			out = append(out, s)
		}
	}
	return out
}

func (p *PredicatePolicy) Update(inserted, removed, kept []*dynalog.Site) {
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

// SetSink changes the policy's sink. Takes effect once the owning
// engine's Update is called for this policy's priority.
func (p *PredicatePolicy) SetSink(sink dynalog.Sink) {
	p.mu.Lock()
	p.sink = sink
	p.mu.Unlock()
}

// SetMask changes the policy's level mask.
func (p *PredicatePolicy) SetMask(mask level.Mask) {
	p.mu.Lock()
	p.mask = mask
	p.mu.Unlock()
}

// SetPredicate swaps the matching predicate. The engine's Rescan must be
// called for this policy's priority afterward for the new criteria to
// take effect on already-managed or newly-orphaned sites.
func (p *PredicatePolicy) SetPredicate(pred Predicate) {
	p.mu.Lock()
	p.pred = pred
	p.mu.Unlock()
}
