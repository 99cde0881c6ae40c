// FILE: lixenwraith/sinklog/compat/gnet.go
package compat

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	log "github.com/lixenwraith/sinklog"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// fatalFlushTimeout bounds the flush performed before the fatal handler runs
const fatalFlushTimeout = 100 * time.Millisecond

// GnetAdapter wraps a sinklog Logger to implement the gnet logging.Logger interface
type GnetAdapter struct {
	logger       *log.Logger
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *log.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.Logf(log.LevelDebug, format, args...)
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.Logf(log.LevelInfo, format, args...)
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logger.Logf(log.LevelWarn, format, args...)
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logger.Logf(log.LevelError, format, args...)
}

// Fatalf logs at critical level, flushes and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Critical(msg)

	// Ensure log is flushed before exit
	ctx, cancel := context.WithTimeout(context.Background(), fatalFlushTimeout)
	_ = a.logger.FlushContext(ctx)
	cancel()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
