// FILE: lixenwraith/sinklog/compat/slog.go
package compat

import (
	"context"
	"log/slog"
	"runtime"

	log "github.com/lixenwraith/sinklog"
	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/formatter"
)

var _ slog.Handler = (*SlogHandler)(nil)

// SlogHandler implements slog.Handler on top of a sinklog Logger. Attributes
// are appended to the message as key=value pairs.
type SlogHandler struct {
	logger *log.Logger
	prefix string // Rendered WithAttrs attributes
	group  string
}

// NewSlogHandler creates a slog.Handler writing through logger
func NewSlogHandler(logger *log.Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// Enabled reports whether the logger accepts records at level
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.ShouldLog(SlogLevel(level))
}

// Handle renders the record and logs it with the slog call site
func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, len(r.Message)+len(h.prefix)+64)
	buf = append(buf, r.Message...)
	buf = append(buf, h.prefix...)
	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, h.group, a)
		return true
	})

	var loc core.SourceLoc
	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		loc = core.SourceLoc{File: frame.File, Line: frame.Line, Function: frame.Function}
	}
	return h.logger.LogAt(loc, SlogLevel(r.Level), string(buf))
}

// WithAttrs returns a handler that appends attrs to every record
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	buf := []byte(h.prefix)
	for _, a := range attrs {
		buf = appendAttr(buf, h.group, a)
	}
	return &SlogHandler{logger: h.logger, prefix: string(buf), group: h.group}
}

// WithGroup returns a handler qualifying later attribute keys with name
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &SlogHandler{logger: h.logger, prefix: h.prefix, group: group}
}

// SlogLevel maps a slog level onto the logger levels. The named slog levels
// share their numeric values with the logger; anything below debug is trace.
func SlogLevel(level slog.Level) log.Level {
	switch {
	case level >= slog.LevelError+4:
		return log.LevelCritical
	case level >= slog.LevelError:
		return log.LevelError
	case level >= slog.LevelWarn:
		return log.LevelWarn
	case level >= slog.LevelInfo:
		return log.LevelInfo
	case level >= slog.LevelDebug:
		return log.LevelDebug
	default:
		return log.LevelTrace
	}
}

// appendAttr appends " key=value", flattening groups into dotted keys
func appendAttr(buf []byte, group string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}

	key := a.Key
	if group != "" && key != "" {
		key = group + "." + key
	} else if key == "" {
		key = group
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			buf = appendAttr(buf, key, ga)
		}
		return buf
	}

	buf = append(buf, ' ')
	buf = append(buf, key...)
	buf = append(buf, '=')
	return formatter.AppendValue(buf, a.Value.Any())
}
