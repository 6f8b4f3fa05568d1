package message

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AlexanderHaase/dynalog/pkg/level"
)

func TestFormatAndSerialize(t *testing.T) {
	m := Format("tag", level.Info, "x=", 1)
	var buf bytes.Buffer
	m.Serialize(&buf)
	if buf.String() != "x=1" {
		t.Fatalf("got %q, want %q", buf.String(), "x=1")
	}
}

func TestEmptyMessageSerializesToDiagnostic(t *testing.T) {
	m := Format("tag", level.Info)
	var buf bytes.Buffer
	m.Serialize(&buf)
	if !strings.HasPrefix(buf.String(), "<Empty") {
		t.Fatalf("expected diagnostic prefix, got %q", buf.String())
	}
}

func TestStringMatchesSerialize(t *testing.T) {
	m := Format("tag", level.Info, "a", 1, "b", 2)
	var buf bytes.Buffer
	m.Serialize(&buf)
	if m.String() != buf.String() {
		t.Fatalf("String() = %q, Serialize() produced %q", m.String(), buf.String())
	}
}

func TestSerializeIsIdempotent(t *testing.T) {
	m := Format("tag", level.Info, "x=", 1)
	var a, b bytes.Buffer
	m.Serialize(&a)
	m.Serialize(&b)
	if a.String() != b.String() {
		t.Fatalf("serializing twice produced different output: %q vs %q", a.String(), b.String())
	}
}

func TestLevel0FindsFirstCapturedLevel(t *testing.T) {
	m := Format("tag", level.Info, "a", level.Warning, level.Error)
	l, ok := m.Level0()
	if !ok {
		t.Fatalf("expected a captured level to be found")
	}
	if l != level.Warning {
		t.Fatalf("expected first captured level Warning, got %v", l)
	}
}

func TestLevel0AbsentWhenNoLevelCaptured(t *testing.T) {
	m := Format("tag", level.Info, "a", 1)
	if _, ok := m.Level0(); ok {
		t.Fatalf("expected no captured level")
	}
}

func TestLenAndAt(t *testing.T) {
	m := Format("tag", level.Info, "a", 1, true)
	if m.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", m.Len())
	}
	if m.At(0).Value != "a" {
		t.Fatalf("expected first element to be %q, got %v", "a", m.At(0).Value)
	}
}

func TestLenAndEmptyAreNilSafe(t *testing.T) {
	var m *Message
	if m.Len() != 0 {
		t.Fatalf("expected Len() == 0 on a nil message")
	}
	if !m.Empty() {
		t.Fatalf("expected a nil message to report Empty()")
	}
}
