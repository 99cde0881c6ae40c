// FILE: lixenwraith/sinklog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	log "github.com/lixenwraith/sinklog"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter wraps a sinklog Logger to implement the fasthttp Logger interface
type FastHTTPAdapter struct {
	logger        *log.Logger
	defaultLevel  log.Level
	levelDetector func(string) (log.Level, bool) // Detects the level from message content
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *log.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  log.LevelInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when no level is detected
func WithDefaultLevel(level log.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message
// content; nil disables detection
func WithLevelDetector(detector func(string) (log.Level, bool)) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected, ok := a.levelDetector(msg); ok {
			level = detected
		}
	}

	a.logger.Log(level, msg)
}

// DetectLogLevel guesses the level of a fasthttp message from its keywords
func DetectLogLevel(msg string) (log.Level, bool) {
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "panic") || strings.Contains(msgLower, "fatal"):
		return log.LevelCritical, true
	case strings.Contains(msgLower, "error") || strings.Contains(msgLower, "failed"):
		return log.LevelError, true
	case strings.Contains(msgLower, "warn") || strings.Contains(msgLower, "deprecated"):
		return log.LevelWarn, true
	case strings.Contains(msgLower, "debug"):
		return log.LevelDebug, true
	case strings.Contains(msgLower, "trace"):
		return log.LevelTrace, true
	}
	return log.LevelInfo, false
}
