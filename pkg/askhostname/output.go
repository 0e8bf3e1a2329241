// Package askhostname: serialized output sink for range scans.
package askhostname

import (
	"bytes"
	"io"
	"sync"
)

// SinkMode selects when appended lines reach the underlying writer.
type SinkMode int

const (
	// Immediate writes each line through as it is appended.
	Immediate SinkMode = iota
	// Deferred accumulates lines and writes them all on Flush.
	Deferred
)

// OutputSink is a text sink shared by concurrently completing per-host
// queries. Appends are serialized by a mutex held only for the duration of
// the append, never across a network call. Lines arrive in finish order,
// not address order.
type OutputSink struct {
	mu   sync.Mutex
	w    io.Writer
	mode SinkMode
	buf  bytes.Buffer
}

// NewOutputSink creates a sink writing to w in the given mode.
func NewOutputSink(w io.Writer, mode SinkMode) *OutputSink {
	return &OutputSink{w: w, mode: mode}
}

// Append adds one line of text, appending a newline.
func (s *OutputSink) Append(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == Immediate {
		_, _ = io.WriteString(s.w, line+"\n")
		return
	}
	s.buf.WriteString(line)
	s.buf.WriteByte('\n')
}

// Flush writes everything accumulated in deferred mode. In immediate mode it
// is a no-op.
func (s *OutputSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == Immediate || s.buf.Len() == 0 {
		return nil
	}
	_, err := s.w.Write(s.buf.Bytes())
	s.buf.Reset()
	return err
}
