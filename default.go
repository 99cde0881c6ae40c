// FILE: lixenwraith/sinklog/default.go
package log

import (
	"context"
	"sync/atomic"

	"github.com/lixenwraith/sinklog/sink"
)

// Global registry for package-level functions
var defaultRegistry atomic.Pointer[Registry]

func init() {
	defaultRegistry.Store(NewRegistry())
}

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	return defaultRegistry.Load()
}

// SetDefaultRegistry replaces the process-wide registry and returns the
// previous one, which the caller is responsible for shutting down
func SetDefaultRegistry(r *Registry) *Registry {
	return defaultRegistry.Swap(r)
}

// Default package-level functions that delegate to the default registry

// Get returns a logger of the default registry
func Get(name string) (*Logger, bool) {
	return DefaultRegistry().Get(name)
}

// Register adds l to the default registry
func Register(l *Logger) error {
	return DefaultRegistry().Register(l)
}

// Create builds and registers a sync logger in the default registry
func Create(name string, sinks ...sink.Sink) (*Logger, error) {
	return DefaultRegistry().Create(name, sinks)
}

// CreateAsync builds and registers an async logger in the default registry
func CreateAsync(name string, sinks ...sink.Sink) (*Logger, error) {
	return DefaultRegistry().CreateAsync(name, sinks)
}

// Drop removes a logger from the default registry
func Drop(name string) {
	DefaultRegistry().Drop(name)
}

// SetLevel sets the level of every logger in the default registry
func SetLevel(level Level) {
	DefaultRegistry().SetDefaultLevel(level)
}

// FlushAll flushes every logger in the default registry
func FlushAll() error {
	return DefaultRegistry().FlushAll()
}

// Shutdown flushes and stops the default registry and installs a fresh one
func Shutdown(ctx context.Context) error {
	return SetDefaultRegistry(NewRegistry()).Shutdown(ctx)
}

// SetDefault makes l the default logger of the default registry
func SetDefault(l *Logger) error {
	return DefaultRegistry().SetDefault(l)
}

// Debug logs a message at debug level on the default logger
func Debug(args ...any) {
	if l := DefaultRegistry().Default(); l != nil {
		l.Debug(args...)
	}
}

// Info logs a message at info level on the default logger
func Info(args ...any) {
	if l := DefaultRegistry().Default(); l != nil {
		l.Info(args...)
	}
}

// Warn logs a message at warning level on the default logger
func Warn(args ...any) {
	if l := DefaultRegistry().Default(); l != nil {
		l.Warn(args...)
	}
}

// Error logs a message at error level on the default logger
func Error(args ...any) {
	if l := DefaultRegistry().Default(); l != nil {
		l.Error(args...)
	}
}

// Critical logs a message at critical level on the default logger
func Critical(args ...any) {
	if l := DefaultRegistry().Default(); l != nil {
		l.Critical(args...)
	}
}

// Infof logs a printf style message at info level on the default logger
func Infof(format string, args ...any) {
	if l := DefaultRegistry().Default(); l != nil {
		l.Infof(format, args...)
	}
}

// Errorf logs a printf style message at error level on the default logger
func Errorf(format string, args ...any) {
	if l := DefaultRegistry().Default(); l != nil {
		l.Errorf(format, args...)
	}
}
