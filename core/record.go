package core

import (
	"path/filepath"
	"time"
)

// SourceLoc identifies the call site that produced a record
type SourceLoc struct {
	File     string
	Line     int
	Function string
}

// IsZero reports whether no call site was captured
func (s SourceLoc) IsZero() bool {
	return s.Line == 0 && s.File == ""
}

// ShortFile returns the base name of the source file
func (s SourceLoc) ShortFile() string {
	if s.File == "" {
		return ""
	}
	return filepath.Base(s.File)
}

// Record is a single log event with its message already rendered.
// A Record is passed by value and never mutated after construction.
type Record struct {
	Time       time.Time
	LoggerName string
	Level      Level
	Source     SourceLoc
	Trace      string
	Message    string
}

// NewRecord creates a record stamped with the current time
func NewRecord(loggerName string, level Level, msg string) Record {
	return Record{
		Time:       time.Now(),
		LoggerName: loggerName,
		Level:      level,
		Message:    msg,
	}
}
