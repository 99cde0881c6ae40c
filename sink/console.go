package sink

import (
	"io"
	"os"
	"sync"

	"github.com/lixenwraith/sinklog/core"
)

// consoleMu serializes every console sink so lines from stdout and stderr
// sinks never interleave mid-record
var consoleMu sync.Mutex

// Writer writes formatted records to an io.Writer
type Writer struct {
	base
	w io.Writer
}

// NewWriter returns a sink writing to w. If w implements Flush() error or
// Sync() error, Flush forwards to it.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	o := newOptions(opts)
	s := &Writer{w: w}
	s.init(o)
	return s
}

// NewStdout returns a sink writing to os.Stdout
func NewStdout(opts ...Option) *Writer {
	return NewWriter(os.Stdout, append([]Option{withConsoleLock()}, opts...)...)
}

// NewStderr returns a sink writing to os.Stderr
func NewStderr(opts ...Option) *Writer {
	return NewWriter(os.Stderr, append([]Option{withConsoleLock()}, opts...)...)
}

// NewConsole returns a stdout or stderr sink by target name
func NewConsole(target string, opts ...Option) (*Writer, error) {
	switch target {
	case "stdout", "":
		return NewStdout(opts...), nil
	case "stderr":
		return NewStderr(opts...), nil
	default:
		return nil, core.Errorf(core.ErrInvalidConfig, "invalid console target: '%s' (use stdout or stderr)", target)
	}
}

func withConsoleLock() Option {
	return func(o *options) {
		o.locker = &consoleMu
	}
}

// Log formats and writes rec
func (s *Writer) Log(rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.formatter.Format(rec)
	n, err := s.w.Write(data)
	if err != nil {
		return core.Errorf(core.ErrWriteFailed, "console write: %w", err)
	}
	if n != len(data) {
		return core.Errorf(core.ErrWriteFailed, "console write: short write %d of %d", n, len(data))
	}
	return nil
}

// Flush forwards to the writer's Flush or Sync when available
func (s *Writer) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch w := s.w.(type) {
	case interface{ Flush() error }:
		if err := w.Flush(); err != nil {
			return core.Errorf(core.ErrFlushFailed, "writer flush: %w", err)
		}
	case *os.File:
		// Terminals and pipes reject fsync; os.File writes are unbuffered
		return nil
	case interface{ Sync() error }:
		if err := w.Sync(); err != nil {
			return core.Errorf(core.ErrFlushFailed, "writer sync: %w", err)
		}
	}
	return nil
}
