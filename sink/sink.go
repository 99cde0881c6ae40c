// Package sink defines log destinations and the file-backed implementations:
// plain, size-rotating, daily/hourly bucketed, console, lumberjack-managed
// and in-memory sinks.
package sink

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/formatter"
)

// Sink is a log destination. Log and Flush may be called from worker
// goroutines; ShouldLog is called before Log on every dispatch.
type Sink interface {
	Log(rec core.Record) error
	Flush() error
	ShouldLog(level core.Level) bool
	SetLevel(level core.Level)
	Level() core.Level
	SetFormatter(f *formatter.Formatter)
}

// nullLocker satisfies sync.Locker without locking, for sinks that are only
// ever driven by one goroutine
type nullLocker struct{}

func (nullLocker) Lock()   {}
func (nullLocker) Unlock() {}

// Option configures a sink at construction
type Option func(*options)

type options struct {
	level        core.Level
	formatter    *formatter.Formatter
	locker       sync.Locker
	truncate     bool
	maxFiles     int
	rotateOnOpen bool
	filenameFunc FilenameFunc
	events       FileEvents
}

func newOptions(opts []Option) *options {
	o := &options{
		level:  core.LevelTrace,
		locker: &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.formatter == nil {
		o.formatter = formatter.New()
	}
	return o
}

// WithLevel sets the sink's minimum level
func WithLevel(level core.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithFormatter sets the record formatter
func WithFormatter(f *formatter.Formatter) Option {
	return func(o *options) {
		o.formatter = f
	}
}

// WithoutLocking selects the no-op lock. Only safe when a single goroutine
// drives the sink, e.g. one pool worker or a single-threaded sync logger.
func WithoutLocking() Option {
	return func(o *options) {
		o.locker = nullLocker{}
	}
}

// WithLocking selects between the mutex and the no-op lock
func WithLocking(threadSafe bool) Option {
	if threadSafe {
		return func(o *options) { o.locker = &sync.Mutex{} }
	}
	return WithoutLocking()
}

// WithTruncate truncates files when a sink opens them
func WithTruncate(truncate bool) Option {
	return func(o *options) {
		o.truncate = truncate
	}
}

// WithMaxFiles bounds the number of retained files; 0 keeps everything
func WithMaxFiles(n int) Option {
	return func(o *options) {
		o.maxFiles = n
	}
}

// WithRotateOnOpen rotates existing files when the rotating sink is created
func WithRotateOnOpen() Option {
	return func(o *options) {
		o.rotateOnOpen = true
	}
}

// WithFilenameFunc overrides the bucket filename calculator of time based sinks
func WithFilenameFunc(fn FilenameFunc) Option {
	return func(o *options) {
		o.filenameFunc = fn
	}
}

// WithFileEvents installs file lifecycle hooks
func WithFileEvents(events FileEvents) Option {
	return func(o *options) {
		o.events = events
	}
}

// base carries the state shared by every sink: level, formatter and lock.
// The formatter is only touched while mu is held.
type base struct {
	mu        sync.Locker
	level     atomic.Int64
	formatter *formatter.Formatter
}

func (b *base) init(o *options) {
	b.mu = o.locker
	b.formatter = o.formatter
	b.level.Store(int64(o.level))
}

func (b *base) ShouldLog(level core.Level) bool {
	return core.Level(b.level.Load()).Enabled(level)
}

func (b *base) SetLevel(level core.Level) {
	b.level.Store(int64(level))
}

func (b *base) Level() core.Level {
	return core.Level(b.level.Load())
}

func (b *base) SetFormatter(f *formatter.Formatter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.formatter = f
}
