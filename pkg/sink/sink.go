// Package sink provides the concrete "external collaborator" sinks the
// core spec treats as out of scope: a discard sink, a plain io.Writer
// sink, and a process-safe file sink. None of them know about policies
// or the configuration engine; they only implement dynalog.Sink.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/AlexanderHaase/dynalog/pkg/bufpool"
	"github.com/AlexanderHaase/dynalog/pkg/dynalog"
	"github.com/AlexanderHaase/dynalog/pkg/message"
)

// scratchSize is the initial capacity requested from bufpool for a
// serialized message line; bufpool's size classes round this up.
const scratchSize = 128

// byteSliceWriter adapts a []byte for use as a message.Serialize target,
// appending rather than overwriting so the pooled buffer's existing
// (zero-length, full-capacity) backing array is reused without a copy.
type byteSliceWriter []byte

func (w *byteSliceWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}

// DiscardSink drops every message it receives.
type DiscardSink struct{}

func (DiscardSink) Emit(*dynalog.Site, *message.Message) {}

// Discard is the shared DiscardSink instance.
var Discard dynalog.Sink = DiscardSink{}

// WriterSink serializes each message to an io.Writer, one line per
// message, guarded by a mutex since a single sink instance is commonly
// shared across every site a policy manages.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Stdout returns a WriterSink over os.Stdout.
func Stdout() *WriterSink { return NewWriterSink(os.Stdout) }

// Stderr returns a WriterSink over os.Stderr.
func Stderr() *WriterSink { return NewWriterSink(os.Stderr) }

func (s *WriterSink) Emit(_ *dynalog.Site, msg *message.Message) {
	buf := bufpool.Default.Get(scratchSize)
	defer buf.Release()
	msg.Serialize((*byteSliceWriter)(&buf.Data))

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.w.Write(buf.Data)
	_, _ = io.WriteString(s.w, "\n")
}

const fileBufferSize = 32 * 1024

// FileSink writes messages to a file, guarded by both an in-process
// mutex and a gofrs/flock advisory lock so that multiple processes
// logging to the same path don't interleave partial lines.
type FileSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	lock   *flock.Flock
	path   string
}

// NewFileSink opens (creating if necessary) the file at path for
// append, taking ownership of it.
func NewFileSink(path string) (*FileSink, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("dynalog: create log directory: %w", err)
		}
	}
	clean := filepath.Clean(path)
	f, err := os.OpenFile(clean, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("dynalog: open log file: %w", err)
	}
	return &FileSink{
		file:   f,
		writer: bufio.NewWriterSize(f, fileBufferSize),
		lock:   flock.New(clean),
		path:   clean,
	}, nil
}

// DevNull returns a FileSink writing to the platform's null device,
// the target used by the priority-override scenario.
func DevNull() (*FileSink, error) {
	return NewFileSink(os.DevNull)
}

// Emit writes msg as a single line. Lock acquisition or write failures
// are reported as a single diagnostic line on stderr; the producing
// call is never informed, matching every other sink's error contract.
func (s *FileSink) Emit(_ *dynalog.Site, msg *message.Message) {
	buf := bufpool.Default.Get(scratchSize)
	defer buf.Release()
	msg.Serialize((*byteSliceWriter)(&buf.Data))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		fmt.Fprintf(os.Stderr, "dynalog: sink %s: lock: %v\n", s.path, err)
		return
	}
	defer func() { _ = s.lock.Unlock() }()

	_, _ = s.writer.Write(buf.Data)
	_ = s.writer.WriteByte('\n')
	if err := s.writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "dynalog: sink %s: write: %v\n", s.path, err)
	}
}

// Close flushes buffered output and closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.writer.Flush()
	return s.file.Close()
}
