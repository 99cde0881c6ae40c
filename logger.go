// FILE: lixenwraith/sinklog/logger.go
package log

import (
	"context"
	"sync/atomic"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/formatter"
	"github.com/lixenwraith/sinklog/sink"
)

// Logger is the logging front-end. It filters by level, renders the message
// on the calling goroutine and then writes to its sinks, either inline or
// through a Pool when created with NewAsyncLogger.
type Logger struct {
	name          string
	sinks         []sink.Sink
	pool          *Pool
	level         atomic.Int64
	flushLevel    atomic.Int64
	traceDepth    atomic.Int64
	errHandler    atomic.Pointer[ErrorHandler]
	captureCaller bool
}

// LoggerOption configures a Logger at construction
type LoggerOption func(*Logger)

// WithLevel sets the initial level threshold
func WithLevel(level core.Level) LoggerOption {
	return func(l *Logger) { l.level.Store(int64(level)) }
}

// WithFlushLevel flushes the sinks after every record at or above level
func WithFlushLevel(level core.Level) LoggerOption {
	return func(l *Logger) { l.flushLevel.Store(int64(level)) }
}

// WithErrorHandler replaces the default stderr error reporter
func WithErrorHandler(h ErrorHandler) LoggerOption {
	return func(l *Logger) { l.SetErrorHandler(h) }
}

// WithCaller records the call site of every record
func WithCaller(enable bool) LoggerOption {
	return func(l *Logger) { l.captureCaller = enable }
}

// WithTraceDepth attaches a call chain of depth frames to every record
func WithTraceDepth(depth int) LoggerOption {
	return func(l *Logger) { l.SetTraceDepth(depth) }
}

// NewLogger creates a synchronous logger: records are written to the sinks
// on the calling goroutine
func NewLogger(name string, sinks []sink.Sink, opts ...LoggerOption) *Logger {
	l := &Logger{
		name:  name,
		sinks: append([]sink.Sink(nil), sinks...),
	}
	l.level.Store(int64(core.LevelInfo))
	l.flushLevel.Store(int64(core.LevelOff))
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewAsyncLogger creates a logger whose records are written by the workers
// of pool. Several loggers may share one pool.
func NewAsyncLogger(name string, pool *Pool, sinks []sink.Sink, opts ...LoggerOption) (*Logger, error) {
	if pool == nil {
		return nil, core.Errorf(core.ErrInvalidConfig, "async logger '%s' requires a pool", name)
	}
	l := NewLogger(name, sinks, opts...)
	l.pool = pool
	return l, nil
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// Sinks returns the sinks of the logger. The slice must not be modified.
func (l *Logger) Sinks() []sink.Sink {
	return l.sinks
}

// Pool returns the pool of an async logger, nil for sync loggers
func (l *Logger) Pool() *Pool {
	return l.pool
}

// IsAsync reports whether records are handed to a pool
func (l *Logger) IsAsync() bool {
	return l.pool != nil
}

// SetLevel changes the level threshold for future records
func (l *Logger) SetLevel(level core.Level) {
	l.level.Store(int64(level))
}

// Level returns the level threshold
func (l *Logger) Level() core.Level {
	return core.Level(l.level.Load())
}

// ShouldLog reports whether a record at level passes the threshold
func (l *Logger) ShouldLog(level core.Level) bool {
	return l.Level().Enabled(level)
}

// SetFlushLevel sets the level at or above which sinks are flushed after
// each record. LevelOff disables it.
func (l *Logger) SetFlushLevel(level core.Level) {
	l.flushLevel.Store(int64(level))
}

// FlushLevel returns the automatic flush level
func (l *Logger) FlushLevel() core.Level {
	return core.Level(l.flushLevel.Load())
}

// SetTraceDepth sets the default call chain depth, clamped to core.MaxTraceDepth
func (l *Logger) SetTraceDepth(depth int) {
	if depth < 0 {
		depth = 0
	}
	if depth > core.MaxTraceDepth {
		depth = core.MaxTraceDepth
	}
	l.traceDepth.Store(int64(depth))
}

// SetErrorHandler replaces the error handler. nil restores the default
// rate limited stderr reporter.
func (l *Logger) SetErrorHandler(h ErrorHandler) {
	if h == nil {
		l.errHandler.Store(nil)
		return
	}
	l.errHandler.Store(&h)
}

// SetFormatter gives every sink its own copy of f
func (l *Logger) SetFormatter(f *formatter.Formatter) {
	for _, s := range l.sinks {
		s.SetFormatter(f.Clone())
	}
}

// Clone returns a logger with the same sinks, pool and settings under a new name
func (l *Logger) Clone(name string) *Logger {
	c := &Logger{
		name:          name,
		sinks:         append([]sink.Sink(nil), l.sinks...),
		pool:          l.pool,
		captureCaller: l.captureCaller,
	}
	c.level.Store(l.level.Load())
	c.flushLevel.Store(l.flushLevel.Load())
	c.traceDepth.Store(l.traceDepth.Load())
	c.errHandler.Store(l.errHandler.Load())
	return c
}

// Flush writes out everything logged so far. For async loggers it waits
// until the workers have dispatched every record enqueued before the call.
func (l *Logger) Flush() error {
	return l.FlushContext(context.Background())
}

// FlushContext is Flush bounded by ctx
func (l *Logger) FlushContext(ctx context.Context) error {
	if l.pool == nil {
		return l.flushSinks()
	}
	return l.pool.flush(ctx, l)
}

// dispatch writes rec to every sink that accepts its level. A failing or
// panicking sink is reported and does not stop the others.
func (l *Logger) dispatch(rec core.Record) {
	for _, s := range l.sinks {
		if !s.ShouldLog(rec.Level) {
			continue
		}
		if err := l.sinkLog(s, rec); err != nil {
			l.handleError(err)
		}
	}
	if l.FlushLevel().Enabled(rec.Level) {
		l.flushSinks()
	}
}

func (l *Logger) sinkLog(s sink.Sink, rec core.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.Errorf(core.ErrDestination, "logger '%s': sink panicked: %v", l.name, r)
		}
	}()
	if err := s.Log(rec); err != nil {
		return core.Errorf(core.ErrDestination, "logger '%s': %w", l.name, err)
	}
	return nil
}

// flushSinks flushes every sink, reporting and collecting failures
func (l *Logger) flushSinks() error {
	var errs error
	for _, s := range l.sinks {
		if err := l.sinkFlush(s); err != nil {
			l.handleError(err)
			errs = core.CombineErrors(errs, err)
		}
	}
	return errs
}

func (l *Logger) sinkFlush(s sink.Sink) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.Errorf(core.ErrDestination, "logger '%s': sink flush panicked: %v", l.name, r)
		}
	}()
	if err := s.Flush(); err != nil {
		return core.Errorf(core.ErrDestination, "logger '%s': %w", l.name, err)
	}
	return nil
}

func (l *Logger) handleError(err error) {
	var h ErrorHandler
	if p := l.errHandler.Load(); p != nil {
		h = *p
	}
	callErrorHandler(h, l.name, err)
}

// Close flushes the logger and closes every sink implementing io.Closer.
// Sinks shared with other loggers are closed too.
func (l *Logger) Close() error {
	err := l.Flush()
	for _, s := range l.sinks {
		if c, ok := s.(interface{ Close() error }); ok {
			err = core.CombineErrors(err, c.Close())
		}
	}
	return err
}
