// Package formatter turns records into output bytes and renders log call
// arguments into message text.
package formatter

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/sanitizer"
)

// Output formats
const (
	FormatTxt  = "txt"
	FormatJSON = "json"
	FormatRaw  = "raw"
)

// Formatter renders records. It reuses an internal buffer and must be
// guarded by its owner; sinks format under their own lock.
type Formatter struct {
	sanitizer       *sanitizer.Sanitizer
	format          string
	timestampFormat string
	showTimestamp   bool
	showLevel       bool
	showLogger      bool
	showSource      bool
	buf             []byte
}

// New creates a txt formatter with the provided sanitizer
func New(s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New()
	}
	return &Formatter{
		sanitizer:       san,
		format:          FormatTxt,
		timestampFormat: time.RFC3339Nano,
		showTimestamp:   true,
		showLevel:       true,
		showLogger:      true,
		buf:             make([]byte, 0, 1024),
	}
}

// Type sets the output format ("txt", "json", or "raw")
func (f *Formatter) Type(format string) *Formatter {
	f.format = format
	return f
}

// TimestampFormat sets the timestamp layout
func (f *Formatter) TimestampFormat(format string) *Formatter {
	if format != "" {
		f.timestampFormat = format
	}
	return f
}

// ShowLevel sets whether to include level in output
func (f *Formatter) ShowLevel(show bool) *Formatter {
	f.showLevel = show
	return f
}

// ShowTimestamp sets whether to include timestamp in output
func (f *Formatter) ShowTimestamp(show bool) *Formatter {
	f.showTimestamp = show
	return f
}

// ShowLogger sets whether to include the logger name in output
func (f *Formatter) ShowLogger(show bool) *Formatter {
	f.showLogger = show
	return f
}

// ShowSource sets whether to include file:line when the record carries it
func (f *Formatter) ShowSource(show bool) *Formatter {
	f.showSource = show
	return f
}

// Kind returns the configured output format
func (f *Formatter) Kind() string {
	return f.format
}

// Clone returns an independent formatter with the same settings
func (f *Formatter) Clone() *Formatter {
	c := *f
	c.sanitizer = f.sanitizer.Clone()
	c.buf = make([]byte, 0, 1024)
	return &c
}

// Validate reports an unknown output format
func Validate(format string) error {
	switch format {
	case FormatTxt, FormatJSON, FormatRaw:
		return nil
	default:
		return core.Errorf(core.ErrInvalidConfig, "invalid format: '%s' (use txt, json, or raw)", format)
	}
}

// Format renders rec. The returned slice is valid until the next call.
func (f *Formatter) Format(rec core.Record) []byte {
	f.buf = f.buf[:0]

	switch f.format {
	case FormatRaw:
		f.buf = f.sanitizer.AppendSanitized(f.buf, rec.Message)
	case FormatJSON:
		f.formatJSON(rec)
	default:
		f.formatTxt(rec)
	}
	return f.buf
}

func (f *Formatter) formatTxt(rec core.Record) {
	needsSpace := false
	space := func() {
		if needsSpace {
			f.buf = append(f.buf, ' ')
		}
		needsSpace = true
	}

	if f.showTimestamp {
		space()
		f.buf = rec.Time.AppendFormat(f.buf, f.timestampFormat)
	}
	if f.showLevel {
		space()
		f.buf = append(f.buf, rec.Level.String()...)
	}
	if f.showLogger && rec.LoggerName != "" {
		space()
		f.buf = append(f.buf, '[')
		f.buf = f.sanitizer.AppendSanitized(f.buf, rec.LoggerName)
		f.buf = append(f.buf, ']')
	}
	if f.showSource && !rec.Source.IsZero() {
		space()
		f.buf = append(f.buf, rec.Source.ShortFile()...)
		f.buf = append(f.buf, ':')
		f.buf = strconv.AppendInt(f.buf, int64(rec.Source.Line), 10)
	}
	if rec.Trace != "" {
		space()
		f.buf = f.sanitizer.AppendSanitized(f.buf, rec.Trace)
	}
	space()
	f.buf = f.sanitizer.AppendSanitized(f.buf, rec.Message)
	f.buf = append(f.buf, '\n')
}

func (f *Formatter) formatJSON(rec core.Record) {
	f.buf = append(f.buf, '{')
	needsComma := false
	field := func(key string) {
		if needsComma {
			f.buf = append(f.buf, ',')
		}
		needsComma = true
		f.buf = append(f.buf, '"')
		f.buf = append(f.buf, key...)
		f.buf = append(f.buf, '"', ':')
	}

	if f.showTimestamp {
		field("time")
		f.buf = append(f.buf, '"')
		f.buf = rec.Time.AppendFormat(f.buf, f.timestampFormat)
		f.buf = append(f.buf, '"')
	}
	if f.showLevel {
		field("level")
		f.buf = append(f.buf, '"')
		f.buf = append(f.buf, rec.Level.String()...)
		f.buf = append(f.buf, '"')
	}
	if f.showLogger && rec.LoggerName != "" {
		field("logger")
		f.buf = appendJSONString(f.buf, rec.LoggerName)
	}
	if f.showSource && !rec.Source.IsZero() {
		field("source")
		f.buf = appendJSONString(f.buf, rec.Source.ShortFile()+":"+strconv.Itoa(rec.Source.Line))
		if rec.Source.Function != "" {
			field("func")
			f.buf = appendJSONString(f.buf, rec.Source.Function)
		}
	}
	if rec.Trace != "" {
		field("trace")
		f.buf = appendJSONString(f.buf, rec.Trace)
	}
	field("msg")
	f.buf = appendJSONString(f.buf, rec.Message)
	f.buf = append(f.buf, '}', '\n')
}

// appendJSONString writes s as a quoted JSON string
func appendJSONString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= ' ' && c != '"' && c != '\\' && c < 0x7f {
			start := i
			for i < len(s) && s[i] >= ' ' && s[i] != '"' && s[i] != '\\' && s[i] < 0x7f {
				i++
			}
			buf = append(buf, s[start:i]...)
			continue
		}
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				buf = append(buf, `�`...)
			} else {
				buf = append(buf, s[i:i+size]...)
			}
			i += size
			continue
		}
		switch c {
		case '\\', '"':
			buf = append(buf, '\\', c)
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		default:
			buf = append(buf, fmt.Sprintf("\\u%04x", c)...)
		}
		i++
	}
	return append(buf, '"')
}

var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Sprint renders call arguments as space separated text
func Sprint(args ...any) string {
	if len(args) == 1 {
		if s, ok := args[0].(string); ok {
			return s
		}
	}
	return string(AppendArgs(make([]byte, 0, 64), args...))
}

// AppendArgs appends the text form of each argument separated by spaces.
// Scalars use strconv, composite values fall back to a compact spew dump.
func AppendArgs(buf []byte, args ...any) []byte {
	for i, arg := range args {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = AppendValue(buf, arg)
	}
	return buf
}

// AppendValue appends the text form of a single value
func AppendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case []byte:
		return append(buf, val...)
	case rune:
		return utf8.AppendRune(buf, val)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "<nil>"...)
	case time.Time:
		return val.AppendFormat(buf, time.RFC3339Nano)
	case time.Duration:
		return append(buf, val.String()...)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	case int8, int16, uint8, uint16, uint32:
		return fmt.Append(buf, val)
	default:
		return append(buf, dumper.Sprintf("%+v", val)...)
	}
}
