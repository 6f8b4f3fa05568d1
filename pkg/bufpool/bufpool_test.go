package bufpool

import "testing"

func TestGetWithinClass(t *testing.T) {
	p := New(128, 512)
	b := p.Get(64)
	if cap(b.Data) < 64 {
		t.Fatalf("expected capacity >= 64, got %d", cap(b.Data))
	}
	b.Release()
}

func TestGetAboveLargestClassFallsBackToPlainAllocation(t *testing.T) {
	p := New(128, 512)
	b := p.Get(4096)
	if cap(b.Data) < 4096 {
		t.Fatalf("expected capacity >= 4096, got %d", cap(b.Data))
	}
	// Release on an overflow buffer is a no-op, not a crash.
	b.Release()
}

func TestReleaseIsIdempotent(t *testing.T) {
	p := New(128)
	b := p.Get(32)
	b.Release()
	b.Release() // must not panic or double-return to the pool
	if n := len(p.classes[0].free); n != 1 {
		t.Fatalf("expected exactly 1 cached buffer after two Releases, got %d", n)
	}
}

func TestReleasedBufferIsReused(t *testing.T) {
	p := New(128)
	b1 := p.Get(32)
	b1.Release()
	if n := len(p.classes[0].free); n != 1 {
		t.Fatalf("expected the released buffer to be cached, got %d cached", n)
	}

	b2 := p.Get(32)
	if n := len(p.classes[0].free); n != 0 {
		t.Fatalf("expected Get to take the cached buffer, %d still cached", n)
	}
	if cap(b2.Data) < 32 {
		t.Fatalf("expected capacity >= 32, got %d", cap(b2.Data))
	}
	b2.Release()
}

func TestClassDropsExcessOnReturn(t *testing.T) {
	c := newClass(128, 1)
	c.put(make([]byte, 0, 128))
	c.put(make([]byte, 0, 128)) // over the cap of 1, dropped silently
	if len(c.free) != 1 {
		t.Fatalf("expected exactly 1 cached buffer, got %d", len(c.free))
	}
}
