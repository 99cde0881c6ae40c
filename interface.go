// FILE: lixenwraith/sinklog/interface.go
package log

import (
	"github.com/lixenwraith/sinklog/core"
)

// Log logs args at level. Arguments are joined with spaces.
func (l *Logger) Log(level core.Level, args ...any) {
	l.log(level, l.depth(), func() (string, error) { return renderArgs(args) })
}

// Logf logs a printf style message at level
func (l *Logger) Logf(level core.Level, format string, args ...any) {
	l.log(level, l.depth(), func() (string, error) { return renderf(format, args) })
}

// TryLog is Log reporting the failure, if any, to the caller as well as to
// the error handler
func (l *Logger) TryLog(level core.Level, args ...any) error {
	return l.log(level, l.depth(), func() (string, error) { return renderArgs(args) })
}

// LogAt logs msg at level with an explicit call site, for adapters that
// know the source location better than the runtime does
func (l *Logger) LogAt(loc core.SourceLoc, level core.Level, msg string) error {
	if !l.ShouldLog(level) {
		return nil
	}
	rec := core.NewRecord(l.name, level, msg)
	rec.Source = loc
	return l.submit(rec)
}

// depth returns the configured trace depth
func (l *Logger) depth() int {
	return int(l.traceDepth.Load())
}

// Trace logs a message at trace level.
func (l *Logger) Trace(args ...any) {
	l.log(core.LevelTrace, l.depth(), func() (string, error) { return renderArgs(args) })
}

// Tracef logs a printf style message at trace level.
func (l *Logger) Tracef(format string, args ...any) {
	l.log(core.LevelTrace, l.depth(), func() (string, error) { return renderf(format, args) })
}

// Debug logs a message at debug level.
func (l *Logger) Debug(args ...any) {
	l.log(core.LevelDebug, l.depth(), func() (string, error) { return renderArgs(args) })
}

// Debugf logs a printf style message at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.log(core.LevelDebug, l.depth(), func() (string, error) { return renderf(format, args) })
}

// Info logs a message at info level.
func (l *Logger) Info(args ...any) {
	l.log(core.LevelInfo, l.depth(), func() (string, error) { return renderArgs(args) })
}

// Infof logs a printf style message at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.log(core.LevelInfo, l.depth(), func() (string, error) { return renderf(format, args) })
}

// Warn logs a message at warning level.
func (l *Logger) Warn(args ...any) {
	l.log(core.LevelWarn, l.depth(), func() (string, error) { return renderArgs(args) })
}

// Warnf logs a printf style message at warning level.
func (l *Logger) Warnf(format string, args ...any) {
	l.log(core.LevelWarn, l.depth(), func() (string, error) { return renderf(format, args) })
}

// Error logs a message at error level.
func (l *Logger) Error(args ...any) {
	l.log(core.LevelError, l.depth(), func() (string, error) { return renderArgs(args) })
}

// Errorf logs a printf style message at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.log(core.LevelError, l.depth(), func() (string, error) { return renderf(format, args) })
}

// Critical logs a message at critical level.
func (l *Logger) Critical(args ...any) {
	l.log(core.LevelCritical, l.depth(), func() (string, error) { return renderArgs(args) })
}

// Criticalf logs a printf style message at critical level.
func (l *Logger) Criticalf(format string, args ...any) {
	l.log(core.LevelCritical, l.depth(), func() (string, error) { return renderf(format, args) })
}

// DebugTrace logs a debug message with function call trace.
func (l *Logger) DebugTrace(depth int, args ...any) {
	l.log(core.LevelDebug, depth, func() (string, error) { return renderArgs(args) })
}

// InfoTrace logs an info message with function call trace.
func (l *Logger) InfoTrace(depth int, args ...any) {
	l.log(core.LevelInfo, depth, func() (string, error) { return renderArgs(args) })
}

// WarnTrace logs a warning message with function call trace.
func (l *Logger) WarnTrace(depth int, args ...any) {
	l.log(core.LevelWarn, depth, func() (string, error) { return renderArgs(args) })
}

// ErrorTrace logs an error message with function call trace.
func (l *Logger) ErrorTrace(depth int, args ...any) {
	l.log(core.LevelError, depth, func() (string, error) { return renderArgs(args) })
}

// CriticalTrace logs a critical message with function call trace.
func (l *Logger) CriticalTrace(depth int, args ...any) {
	l.log(core.LevelCritical, depth, func() (string, error) { return renderArgs(args) })
}
