// FILE: lixenwraith/sinklog/constant.go
package log

import (
	"time"

	"github.com/lixenwraith/sinklog/core"
)

// Level is the record severity, re-exported from core
type Level = core.Level

// Log level constants
const (
	LevelTrace    = core.LevelTrace
	LevelDebug    = core.LevelDebug
	LevelInfo     = core.LevelInfo
	LevelWarn     = core.LevelWarn
	LevelError    = core.LevelError
	LevelCritical = core.LevelCritical
	LevelOff      = core.LevelOff
)

// Pool defaults
const (
	DefaultQueueSize = 8192
	DefaultWorkers   = 1
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// Minimum spacing between default error handler reports
	errorReportInterval = time.Second
)

// Size multiplier for KB
const sizeMultiplier = 1024
