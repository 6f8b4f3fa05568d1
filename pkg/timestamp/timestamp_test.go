package timestamp

import (
	"testing"
	"time"
)

func TestFormatRendersISO8601UTCWithMilliseconds(t *testing.T) {
	tm := time.Date(2024, time.January, 2, 3, 4, 5, 678000000, time.FixedZone("EST", -5*60*60))
	got := Format(tm)
	want := "2024-01-02T08:04:05.678Z"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNowProducesParsableLayout(t *testing.T) {
	got := Now()
	if _, err := time.Parse(Layout, got); err != nil {
		t.Fatalf("Now() produced unparsable timestamp %q: %v", got, err)
	}
}
