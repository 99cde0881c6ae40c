package sink

import (
	"slices"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/formatter"
)

// Dist fans records out to a changeable set of child sinks. Every child is
// attempted; their errors are joined.
type Dist struct {
	base
	sinks []Sink
}

// NewDist returns a fan-out sink
func NewDist(sinks []Sink, opts ...Option) *Dist {
	s := &Dist{sinks: slices.Clone(sinks)}
	s.init(newOptions(opts))
	return s
}

// Add appends a child sink
func (s *Dist) Add(child Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, child)
}

// Remove detaches a child sink
func (s *Dist) Remove(child Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = slices.DeleteFunc(s.sinks, func(c Sink) bool { return c == child })
}

// Sinks returns a snapshot of the children
func (s *Dist) Sinks() []Sink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sinks)
}

// Log forwards rec to every child whose level admits it
func (s *Dist) Log(rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for _, child := range s.sinks {
		if child.ShouldLog(rec.Level) {
			err = core.CombineErrors(err, child.Log(rec))
		}
	}
	return err
}

// Flush flushes every child
func (s *Dist) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for _, child := range s.sinks {
		err = core.CombineErrors(err, child.Flush())
	}
	return err
}

// SetFormatter gives every child its own copy of f
func (s *Dist) SetFormatter(f *formatter.Formatter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, child := range s.sinks {
		child.SetFormatter(f.Clone())
	}
}
