// FILE: lixenwraith/sinklog/errhandler.go
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrorHandler receives failures that cannot be returned to a caller: sink
// errors on worker goroutines, format failures, and enqueue failures.
// It may be called concurrently from several goroutines.
type ErrorHandler func(err error)

// defaultErrorReporter writes failures to a stream, at most one line per
// errorReportInterval. Suppressed failures still advance the counter.
type defaultErrorReporter struct {
	mu      sync.Mutex
	w       io.Writer
	limiter *rate.Limiter
	counter atomic.Uint64
}

func newDefaultErrorReporter(w io.Writer) *defaultErrorReporter {
	return &defaultErrorReporter{
		w:       w,
		limiter: rate.NewLimiter(rate.Every(errorReportInterval), 1),
	}
}

// defaultReporter is shared by every logger without a custom handler
var defaultReporter = newDefaultErrorReporter(os.Stderr)

func (r *defaultErrorReporter) report(loggerName string, err error) {
	n := r.counter.Add(1)
	if !r.limiter.Allow() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "[*** LOG ERROR #%04d ***] [%s] [%s] %v\n",
		n, time.Now().Format("2006-01-02 15:04:05"), loggerName, err)
}

// Count returns the number of failures seen, reported or not
func (r *defaultErrorReporter) Count() uint64 {
	return r.counter.Load()
}

// callErrorHandler invokes h, falling back to the default reporter if h is
// nil or panics
func callErrorHandler(h ErrorHandler, loggerName string, err error) {
	if h == nil {
		defaultReporter.report(loggerName, err)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			defaultReporter.report(loggerName, fmtErrorf("error handler panicked: %v (handling: %w)", r, err))
		}
	}()
	h(err)
}
