// FILE: lixenwraith/sinklog/record.go
package log

import (
	"fmt"
	"regexp"
	"time"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/formatter"
)

// callerSkip is the number of frames between a public logging method and
// the capture in log
const callerSkip = 2

// badVerb matches the markers fmt leaves for wrong types, missing or extra
// operands, malformed verbs and panicking String methods
var badVerb = regexp.MustCompile(`%!(?:[a-zA-Z]\((?:MISSING\)|PANIC=|BADARGNUM\)|[^()=]+=)|\((?:EXTRA |NOVERB\)|BADWIDTH\)|BADPREC\)|BADINDEX\)))`)

// renderArgs renders args the way Info(args...) does
func renderArgs(args []any) (msg string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.Errorf(core.ErrFormatFailed, "panic rendering arguments: %v", r)
		}
	}()
	return formatter.Sprint(args...), nil
}

// renderf renders a printf style message, rejecting results that carry fmt
// error markers absent from the format string itself
func renderf(format string, args []any) (msg string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.Errorf(core.ErrFormatFailed, "panic formatting %q: %v", format, r)
		}
	}()
	msg = fmt.Sprintf(format, args...)
	if badVerb.MatchString(msg) && !badVerb.MatchString(format) {
		return "", core.Errorf(core.ErrFormatFailed, "bad format string %q: %s", format, msg)
	}
	return msg, nil
}

// log is the shared path of every logging method: level check, render on the
// calling goroutine, then dispatch inline or hand off to the pool.
// render is only invoked when the level is enabled.
func (l *Logger) log(level core.Level, traceDepth int, render func() (string, error)) error {
	if !l.ShouldLog(level) {
		return nil
	}

	msg, err := render()
	if err != nil {
		l.handleError(err)
		return err
	}

	rec := core.Record{
		Time:       time.Now(),
		LoggerName: l.name,
		Level:      level,
		Message:    msg,
	}
	if l.captureCaller {
		rec.Source = core.Caller(callerSkip)
	}
	if traceDepth > 0 {
		rec.Trace = core.Trace(traceDepth, callerSkip)
	}

	return l.submit(rec)
}

// submit dispatches rec inline for sync loggers or enqueues it on the pool
func (l *Logger) submit(rec core.Record) error {
	if l.pool == nil {
		l.dispatch(rec)
		return nil
	}
	if err := l.pool.post(l, rec); err != nil {
		l.handleError(err)
		return err
	}
	return nil
}
