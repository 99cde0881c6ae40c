package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is the severity of a record. Values follow the log/slog spacing so
// that levels map onto slog.Level without translation tables.
type Level int64

// Log level constants
const (
	LevelTrace    Level = -8
	LevelDebug    Level = -4
	LevelInfo     Level = 0
	LevelWarn     Level = 4
	LevelError    Level = 8
	LevelCritical Level = 12
	LevelOff      Level = 16
)

// String returns the upper case level name used in formatted output
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	case LevelOff:
		return "OFF"
	default:
		return fmt.Sprintf("LEVEL(%d)", int64(l))
	}
}

// ShortString returns the single letter form of the level
func (l Level) ShortString() string {
	switch l {
	case LevelTrace:
		return "T"
	case LevelDebug:
		return "D"
	case LevelInfo:
		return "I"
	case LevelWarn:
		return "W"
	case LevelError:
		return "E"
	case LevelCritical:
		return "C"
	case LevelOff:
		return "O"
	default:
		return "?"
	}
}

// Enabled reports whether a record at level passes a threshold of l.
// LevelOff as a threshold disables everything.
func (l Level) Enabled(level Level) bool {
	return l != LevelOff && level >= l
}

// ParseLevel converts a level name or its numeric value to a Level.
func ParseLevel(levelStr string) (Level, error) {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	switch s {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error", "err":
		return LevelError, nil
	case "critical", "crit", "fatal":
		return LevelCritical, nil
	case "off", "none":
		return LevelOff, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Level(n), nil
	}
	return LevelInfo, fmt.Errorf("log: invalid level string: '%s' (use trace, debug, info, warn, error, critical, off)", levelStr)
}

// MarshalText implements encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(l.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
