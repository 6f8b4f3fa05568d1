package dynalog

import (
	"sync"

	"github.com/pkg/errors"
)

// node is one registered priority: its policy, and the set of sites that
// policy currently retains.
type node struct {
	priority int
	policy   Policy
	keep     map[*Site]struct{}
}

func (n *node) keepSlice() []*Site {
	out := make([]*Site, 0, len(n.keep))
	for s := range n.keep {
		out = append(out, s)
	}
	return out
}

// Engine is the priority-ordered set of policies. At any moment a site is
// managed by at most one policy: the highest-priority policy that
// currently matches it. All mutation is serialized under a single mutex;
// fast paths never take this lock and observe mutations only through
// each site's atomic state.
type Engine struct {
	mu    sync.Mutex
	nodes []*node // sorted descending by priority
}

// NewEngine returns an engine with no registered policies. Sites
// inserted before any policy exists simply stay on whatever sink they
// already carry (the bootstrap sink, for a fresh site).
func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) indexOf(priority int) int {
	for i, n := range e.nodes {
		if n.priority == priority {
			return i
		}
	}
	return -1
}

// insertNode keeps e.nodes sorted descending by priority.
func (e *Engine) insertNode(n *node) {
	i := 0
	for i < len(e.nodes) && e.nodes[i].priority > n.priority {
		i++
	}
	e.nodes = append(e.nodes, nil)
	copy(e.nodes[i+1:], e.nodes[i:])
	e.nodes[i] = n
}

func (e *Engine) removeNodeAt(idx int) {
	e.nodes = append(e.nodes[:idx], e.nodes[idx+1:]...)
}

func siteSet(sites []*Site) map[*Site]bool {
	m := make(map[*Site]bool, len(sites))
	for _, s := range sites {
		m[s] = true
	}
	return m
}

// transferDown lets p match against the kept sets of every node whose
// priority is strictly below priority, in descending order, removing
// anything p claims from its current owner and notifying that owner via
// Update before returning the union of everything claimed. Used by both
// InsertPolicy (the new policy stealing from existing lower policies)
// and Rescan (an existing policy stealing after its match criteria
// changed) — the same transfer shape either way.
func (e *Engine) transferDown(priority int, p Policy) []*Site {
	var claimed []*Site
	for _, n := range e.nodes {
		if n.priority >= priority || len(n.keep) == 0 {
			continue
		}
		sites := n.keepSlice()
		matched := p.Match(sites)
		if len(matched) == 0 {
			continue
		}
		for _, s := range matched {
			delete(n.keep, s)
		}
		n.policy.Update(nil, matched, nil)
		claimed = append(claimed, matched...)
	}
	return claimed
}

// adoptDown offers orphans (sites a removed or rescanned node no longer
// wants) to every node below priority, in descending order. Each node
// that claims some of them has them added to its keep set and is
// notified via Update. Returns whatever nobody claimed.
func (e *Engine) adoptDown(priority int, orphans []*Site) []*Site {
	remaining := orphans
	for _, n := range e.nodes {
		if len(remaining) == 0 {
			break
		}
		if n.priority >= priority {
			continue
		}
		matched := n.policy.Match(remaining)
		if len(matched) == 0 {
			continue
		}
		matchedSet := siteSet(matched)
		next := remaining[:0:0]
		for _, s := range remaining {
			if matchedSet[s] {
				n.keep[s] = struct{}{}
			} else {
				next = append(next, s)
			}
		}
		n.policy.Update(matched, nil, nil)
		remaining = next
	}
	return remaining
}

// InsertSite offers s to every node in priority order; the first match
// claims it. If no policy claims it, the site is left exactly as it was
// (normally still pointed at the bootstrap sink).
func (e *Engine) InsertSite(s *Site) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range e.nodes {
		if len(n.policy.Match([]*Site{s})) != 1 {
			continue
		}
		n.keep[s] = struct{}{}
		n.policy.Update([]*Site{s}, nil, nil)
		return
	}
}

// RemoveSite locates the node currently managing s and has it relinquish
// and disable the site. A no-op if no node currently manages s.
func (e *Engine) RemoveSite(s *Site) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range e.nodes {
		if _, ok := n.keep[s]; !ok {
			continue
		}
		delete(n.keep, s)
		n.policy.Update(nil, []*Site{s}, nil)
		return
	}
}

// InsertPolicy registers p at priority, stealing any sites p matches
// from lower-priority nodes first (so a concurrent fast path never
// observes a site disabled between the old owner relinquishing it and
// the new owner claiming it), then handing p everything it claimed.
func (e *Engine) InsertPolicy(priority int, p Policy) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.indexOf(priority) >= 0 {
		return errors.Wrapf(ErrPolicyConflict, "priority %d", priority)
	}
	claimed := e.transferDown(priority, p)
	n := &node{priority: priority, policy: p, keep: make(map[*Site]struct{}, len(claimed))}
	for _, s := range claimed {
		n.keep[s] = struct{}{}
	}
	if len(claimed) > 0 {
		p.Update(claimed, nil, nil)
	}
	e.insertNode(n)
	return nil
}

// RemovePolicy unregisters the policy at priority, offering its kept
// sites to lower-priority nodes first; whatever nobody adopts is
// disabled before the node itself is deleted.
func (e *Engine) RemovePolicy(priority int, p Policy) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexOf(priority)
	if idx < 0 {
		return errors.Wrapf(ErrUnknownPriority, "priority %d", priority)
	}
	n := e.nodes[idx]
	if n.policy != p {
		return errors.Wrapf(ErrPolicyNotFound, "priority %d", priority)
	}
	orphans := n.keepSlice()
	unclaimed := e.adoptDown(priority, orphans)
	if len(unclaimed) > 0 {
		n.policy.Update(nil, unclaimed, nil)
	}
	e.removeNodeAt(idx)
	return nil
}

// Rescan re-evaluates the policy registered at priority against its own
// current keep set (its matching criteria may have changed), offers
// whatever it no longer matches to lower-priority nodes, and lets it
// steal newly-matching sites away from those same lower nodes.
func (e *Engine) Rescan(priority int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexOf(priority)
	if idx < 0 {
		return errors.Wrapf(ErrUnknownPriority, "priority %d", priority)
	}
	n := e.nodes[idx]

	current := n.keepSlice()
	stillMatched := siteSet(n.policy.Match(current))
	var orphans []*Site
	for _, s := range current {
		if !stillMatched[s] {
			orphans = append(orphans, s)
			delete(n.keep, s)
		}
	}
	if len(orphans) > 0 {
		unclaimed := e.adoptDown(priority, orphans)
		if len(unclaimed) > 0 {
			n.policy.Update(nil, unclaimed, nil)
		}
	}

	stolen := e.transferDown(priority, n.policy)
	for _, s := range stolen {
		n.keep[s] = struct{}{}
	}
	if len(stolen) > 0 {
		n.policy.Update(stolen, nil, nil)
	}
	return nil
}

// Update forces priority's policy to be invoked on its entire keep set.
// Used when only a policy's effect (desired sink or mask) changed, not
// its matching criteria — a pure Rescan would find nothing to move.
func (e *Engine) Update(priority int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexOf(priority)
	if idx < 0 {
		return errors.Wrapf(ErrUnknownPriority, "priority %d", priority)
	}
	n := e.nodes[idx]
	n.policy.Update(nil, nil, n.keepSlice())
	return nil
}
