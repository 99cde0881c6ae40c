// FILE: lixenwraith/sinklog/registry.go
package log

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/sink"
)

// Registry is a named set of loggers sharing defaults, an optional worker
// pool and background flushing. Loggers can also be used without one.
type Registry struct {
	mu            sync.RWMutex
	loggers       map[string]*Logger
	defaultLogger *Logger
	pool          *Pool

	level      core.Level
	flushLevel core.Level
	errHandler ErrorHandler

	flusher      *periodicWorker
	heartbeat    *periodicWorker
	heartbeatSeq atomic.Uint64
	shutdown     bool
}

// NewRegistry creates an empty registry with level Info and no auto flush
func NewRegistry() *Registry {
	return &Registry{
		loggers:    make(map[string]*Logger),
		level:      core.LevelInfo,
		flushLevel: core.LevelOff,
	}
}

// Register adds l under its name. Names are unique.
func (r *Registry) Register(l *Logger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(l)
}

func (r *Registry) registerLocked(l *Logger) error {
	if r.shutdown {
		return core.Errorf(core.ErrInvalidConfig, "registry is shut down")
	}
	if _, exists := r.loggers[l.Name()]; exists {
		return core.Errorf(core.ErrInvalidConfig, "logger with name '%s' already exists", l.Name())
	}
	r.loggers[l.Name()] = l
	return nil
}

// Create builds a sync logger with the registry defaults and registers it.
// opts are applied after the defaults.
func (r *Registry) Create(name string, sinks []sink.Sink, opts ...LoggerOption) (*Logger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := NewLogger(name, sinks, r.defaultOptionsLocked(opts)...)
	if err := r.registerLocked(l); err != nil {
		return nil, err
	}
	return l, nil
}

// CreateAsync builds an async logger on the registry pool, creating a
// default pool if InitPool was never called
func (r *Registry) CreateAsync(name string, sinks []sink.Sink, opts ...LoggerOption) (*Logger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool == nil {
		if err := r.initPoolLocked(DefaultPoolConfig()); err != nil {
			return nil, err
		}
	}
	l, err := NewAsyncLogger(name, r.pool, sinks, r.defaultOptionsLocked(opts)...)
	if err != nil {
		return nil, err
	}
	if err := r.registerLocked(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *Registry) defaultOptionsLocked(opts []LoggerOption) []LoggerOption {
	defaults := []LoggerOption{
		WithLevel(r.level),
		WithFlushLevel(r.flushLevel),
	}
	if r.errHandler != nil {
		defaults = append(defaults, WithErrorHandler(r.errHandler))
	}
	return append(defaults, opts...)
}

// Get returns the logger registered under name
func (r *Registry) Get(name string) (*Logger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loggers[name]
	return l, ok
}

// Names returns the registered logger names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Drop removes the logger registered under name. The logger stays usable.
func (r *Registry) Drop(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defaultLogger != nil && r.defaultLogger.Name() == name {
		r.defaultLogger = nil
	}
	delete(r.loggers, name)
}

// DropAll removes every logger
func (r *Registry) DropAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loggers = make(map[string]*Logger)
	r.defaultLogger = nil
}

// SetDefault registers l if needed and makes it the default logger
func (r *Registry) SetDefault(l *Logger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.loggers[l.Name()]; !ok {
		if err := r.registerLocked(l); err != nil {
			return err
		}
	} else if existing != l {
		return core.Errorf(core.ErrInvalidConfig, "another logger is registered as '%s'", l.Name())
	}
	r.defaultLogger = l
	return nil
}

// Default returns the default logger, nil if none was set
func (r *Registry) Default() *Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultLogger
}

// Apply calls fn for every registered logger
func (r *Registry) Apply(fn func(*Logger)) {
	for _, l := range r.snapshot() {
		fn(l)
	}
}

func (r *Registry) snapshot() []*Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Logger, 0, len(r.loggers))
	for _, l := range r.loggers {
		out = append(out, l)
	}
	return out
}

// FlushAll flushes every registered logger, collecting the failures
func (r *Registry) FlushAll() error {
	return r.FlushAllContext(context.Background())
}

// FlushAllContext is FlushAll bounded by ctx
func (r *Registry) FlushAllContext(ctx context.Context) error {
	var errs error
	for _, l := range r.snapshot() {
		errs = core.CombineErrors(errs, l.FlushContext(ctx))
	}
	return errs
}

// FlushEvery flushes all loggers periodically. A non-positive interval
// stops the periodic flusher.
func (r *Registry) FlushEvery(interval time.Duration) {
	r.mu.Lock()
	old := r.flusher
	r.flusher = nil
	if interval > 0 && !r.shutdown {
		r.flusher = startPeriodic(interval, func() {
			if err := r.FlushAll(); err != nil {
				internalLog("periodic flush failed: %v\n", err)
			}
		})
	}
	r.mu.Unlock()
	old.Stop()
}

// SetDefaultLevel sets the level of every registered logger and of loggers
// created later through Create
func (r *Registry) SetDefaultLevel(level core.Level) {
	r.mu.Lock()
	r.level = level
	r.mu.Unlock()
	r.Apply(func(l *Logger) { l.SetLevel(level) })
}

// SetFlushLevel sets the automatic flush level of every registered logger
// and of loggers created later
func (r *Registry) SetFlushLevel(level core.Level) {
	r.mu.Lock()
	r.flushLevel = level
	r.mu.Unlock()
	r.Apply(func(l *Logger) { l.SetFlushLevel(level) })
}

// SetErrorHandler installs h on every registered logger and on loggers
// created later
func (r *Registry) SetErrorHandler(h ErrorHandler) {
	r.mu.Lock()
	r.errHandler = h
	r.mu.Unlock()
	r.Apply(func(l *Logger) { l.SetErrorHandler(h) })
}

// InitPool creates the registry pool used by CreateAsync. The pool can be
// created once per registry.
func (r *Registry) InitPool(cfg PoolConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initPoolLocked(cfg)
}

func (r *Registry) initPoolLocked(cfg PoolConfig) error {
	if r.shutdown {
		return core.Errorf(core.ErrInvalidConfig, "registry is shut down")
	}
	if r.pool != nil {
		return core.Errorf(core.ErrInvalidConfig, "pool already initialized")
	}
	p, err := NewPool(cfg)
	if err != nil {
		return err
	}
	r.pool = p
	return nil
}

// ensurePool creates the registry pool from cfg unless one exists
func (r *Registry) ensurePool(cfg PoolConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pool != nil {
		return nil
	}
	return r.initPoolLocked(cfg)
}

// Pool returns the registry pool, nil before InitPool or CreateAsync
func (r *Registry) Pool() *Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pool
}

// Shutdown stops the background workers, flushes every logger, drains and
// stops the pool, closes the sinks of all registered loggers and drops them.
// Sinks must tolerate repeated Close calls when shared between loggers.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		return nil
	}
	r.shutdown = true
	flusher, heartbeat := r.flusher, r.heartbeat
	r.flusher, r.heartbeat = nil, nil
	pool := r.pool
	r.mu.Unlock()

	flusher.Stop()
	heartbeat.Stop()

	err := r.FlushAllContext(ctx)
	if pool != nil {
		err = core.CombineErrors(err, pool.Shutdown(ctx))
	}

	for _, l := range r.snapshot() {
		for _, s := range l.Sinks() {
			if c, ok := s.(interface{ Close() error }); ok {
				err = core.CombineErrors(err, c.Close())
			}
		}
	}
	r.DropAll()
	return err
}
