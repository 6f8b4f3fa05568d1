package policy

import (
	"testing"

	"github.com/AlexanderHaase/dynalog/pkg/dynalog"
	"github.com/AlexanderHaase/dynalog/pkg/level"
	"github.com/AlexanderHaase/dynalog/pkg/message"
)

type recordingSink struct {
	received []string
}

func (r *recordingSink) Emit(site *dynalog.Site, msg *message.Message) {
	r.received = append(r.received, msg.String())
}

func newTestSite(tag string) *dynalog.Site {
	s := dynalog.NewCallSite(tag)
	return s
}

func TestDefaultPolicyMatchesEverything(t *testing.T) {
	p := NewDefaultPolicy(&recordingSink{}, level.All)
	sites := []*dynalog.Site{newTestSite("a"), newTestSite("b")}
	matched := p.Match(sites)
	if len(matched) != 2 {
		t.Fatalf("expected DefaultPolicy to match all sites, got %d", len(matched))
	}
}

func TestDefaultPolicyUpdateActivatesInsertedAndKept(t *testing.T) {
	rs := &recordingSink{}
	p := NewDefaultPolicy(rs, level.All)
	s := newTestSite("a")

	p.Update([]*dynalog.Site{s}, nil, nil)
	s.Log(level.Info, "x=", 1)
	if len(rs.received) != 1 {
		t.Fatalf("expected inserted site to be activated")
	}

	kept := newTestSite("b")
	p.Update(nil, nil, []*dynalog.Site{kept})
	kept.Log(level.Info, "y=", 2)
	if len(rs.received) != 2 {
		t.Fatalf("expected kept site to be activated")
	}
}

func TestDefaultPolicyNilSinkDeactivates(t *testing.T) {
	p := NewDefaultPolicy(nil, level.All)
	s := newTestSite("a")
	s.Activate(&recordingSink{}, level.All)

	p.Update([]*dynalog.Site{s}, nil, nil)
	if s.Enabled() {
		t.Fatalf("expected nil-sink policy to leave inserted sites disabled")
	}
}

func TestDefaultPolicyUpdateDeactivatesRemoved(t *testing.T) {
	rs := &recordingSink{}
	p := NewDefaultPolicy(rs, level.All)
	s := newTestSite("a")
	s.Activate(rs, level.All)

	p.Update(nil, []*dynalog.Site{s}, nil)
	if s.Enabled() {
		t.Fatalf("expected removed site to be deactivated")
	}
}

func TestDefaultPolicySetSinkAndMask(t *testing.T) {
	p := NewDefaultPolicy(nil, level.None)
	rs := &recordingSink{}
	p.SetSink(rs)
	p.SetMask(level.All)
	if p.Sink() != rs {
		t.Fatalf("expected SetSink to change the policy's sink")
	}
	if p.Mask() != level.All {
		t.Fatalf("expected SetMask to change the policy's mask")
	}
}

func TestPredicatePolicyMatchesOnlyWhenPredicateTrue(t *testing.T) {
	pred := func(tag, location, context string) bool { return tag == "wanted" }
	p := NewPredicatePolicy(pred, &recordingSink{}, level.All)

	wanted := newTestSite("wanted")
	other := newTestSite("other")
	matched := p.Match([]*dynalog.Site{wanted, other})
	if len(matched) != 1 || matched[0] != wanted {
		t.Fatalf("expected only the matching site to be returned")
	}
}

func TestGlobPolicyMatchesByTagPattern(t *testing.T) {
	p := NewGlobPolicy("req*", &recordingSink{}, level.All)

	request := newTestSite("request")
	other := newTestSite("response")
	matched := p.Match([]*dynalog.Site{request, other})
	if len(matched) != 1 || matched[0] != request {
		t.Fatalf("expected glob \"req*\" to match only \"request\", got %d matches", len(matched))
	}
}

func TestPredicatePolicySetPredicateChangesMatching(t *testing.T) {
	p := NewPredicatePolicy(func(tag, location, context string) bool { return false }, nil, level.All)
	s := newTestSite("x")
	if len(p.Match([]*dynalog.Site{s})) != 0 {
		t.Fatalf("expected initial predicate to reject everything")
	}

	p.SetPredicate(func(tag, location, context string) bool { return true })
	if len(p.Match([]*dynalog.Site{s})) != 1 {
		t.Fatalf("expected updated predicate to accept everything")
	}
}
