package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexanderHaase/dynalog/pkg/level"
	"github.com/AlexanderHaase/dynalog/pkg/message"
)

func TestDiscardSinkDropsEverything(t *testing.T) {
	Discard.Emit(nil, message.Format("t", level.Info, "x"))
	// Nothing to assert; reaching this line without panicking is the test.
}

func TestWriterSinkAppendsNewlinePerMessage(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)
	s.Emit(nil, message.Format("t", level.Info, "a"))
	s.Emit(nil, message.Format("t", level.Info, "b"))

	if got, want := buf.String(), "a\nb\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFileSinkWritesAndCloses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	s, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	s.Emit(nil, message.Format("t", level.Info, "line1"))
	s.Emit(nil, message.Format("t", level.Info, "line2"))
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got, want := string(data), "line1\nline2\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFileSinkCreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "out.log")

	s, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("expected parent directory to be created: %v", err)
	}
}

func TestDevNullDiscardsWrites(t *testing.T) {
	s, err := DevNull()
	if err != nil {
		t.Fatalf("DevNull: %v", err)
	}
	defer s.Close()
	s.Emit(nil, message.Format("t", level.Info, "anything"))
}
