package sink

import (
	"sync/atomic"

	"github.com/lixenwraith/sinklog/core"
)

// Ringbuffer keeps the last n formatted records in memory
type Ringbuffer struct {
	base
	lines []string
	head  int
	count int
}

// NewRingbuffer returns a sink retaining at most n records
func NewRingbuffer(n int, opts ...Option) (*Ringbuffer, error) {
	if n <= 0 {
		return nil, core.Errorf(core.ErrInvalidConfig, "ringbuffer sink: capacity must be positive: %d", n)
	}
	o := newOptions(opts)
	s := &Ringbuffer{lines: make([]string, n)}
	s.init(o)
	return s, nil
}

// Log stores the formatted record, overwriting the oldest when full
func (s *Ringbuffer) Log(rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := string(s.formatter.Format(rec))
	idx := (s.head + s.count) % len(s.lines)
	s.lines[idx] = line
	if s.count < len(s.lines) {
		s.count++
	} else {
		s.head = (s.head + 1) % len(s.lines)
	}
	return nil
}

// Flush is a no-op
func (s *Ringbuffer) Flush() error {
	return nil
}

// Last returns up to limit of the most recent records, oldest first.
// limit <= 0 returns everything retained.
func (s *Ringbuffer) Last(limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]string, 0, n)
	for i := s.count - n; i < s.count; i++ {
		out = append(out, s.lines[(s.head+i)%len(s.lines)])
	}
	return out
}

// Callback passes each record to a function; no formatting is applied
type Callback struct {
	base
	fn func(rec core.Record) error
}

// NewCallback returns a sink invoking fn for every record
func NewCallback(fn func(rec core.Record) error, opts ...Option) *Callback {
	o := newOptions(opts)
	s := &Callback{fn: fn}
	s.init(o)
	return s
}

// Log invokes the callback
func (s *Callback) Log(rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fn(rec); err != nil {
		return core.Errorf(core.ErrDestination, "callback sink: %w", err)
	}
	return nil
}

// Flush is a no-op
func (s *Callback) Flush() error {
	return nil
}

// Null discards records while counting them
type Null struct {
	base
	count atomic.Uint64
}

// NewNull returns a discarding sink
func NewNull(opts ...Option) *Null {
	s := &Null{}
	s.init(newOptions(opts))
	return s
}

// Log counts and drops rec
func (s *Null) Log(core.Record) error {
	s.count.Add(1)
	return nil
}

// Flush is a no-op
func (s *Null) Flush() error {
	return nil
}

// Count returns how many records were received
func (s *Null) Count() uint64 {
	return s.count.Load()
}
