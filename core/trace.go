package core

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// MaxTraceDepth bounds the number of frames rendered by Trace
const MaxTraceDepth = 10

// Caller returns the call site skip frames above the caller of Caller
func Caller(skip int) SourceLoc {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return SourceLoc{}
	}
	loc := SourceLoc{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		loc.Function = fn.Name()
	}
	return loc
}

// Trace returns the call chain above the caller as "outer -> inner".
// Anonymous functions are shown as "(anonymous in pkg.Func)".
func Trace(depth int, skip int) string {
	if depth <= 0 || depth > MaxTraceDepth {
		return ""
	}
	pc := make([]uintptr, depth+skip)
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return "(unknown)"
	}
	frames := runtime.CallersFrames(pc[:n])
	trace := make([]string, 0, depth)
	for len(trace) < depth {
		frame, more := frames.Next()
		if frame.Function != "" {
			trace = append(trace, shortFuncName(frame.Function))
		}
		if !more {
			break
		}
	}
	if len(trace) == 0 {
		return "(unknown)"
	}
	for i, j := 0, len(trace)-1; i < j; i, j = i+1, j-1 {
		trace[i], trace[j] = trace[j], trace[i]
	}
	return strings.Join(trace, " -> ")
}

func shortFuncName(function string) string {
	funcName := filepath.Base(function)
	parts := strings.Split(funcName, ".")
	lastPart := parts[len(parts)-1]
	if !strings.HasPrefix(lastPart, "func") || len(lastPart) <= 4 {
		return lastPart
	}
	for _, r := range lastPart[4:] {
		if !unicode.IsDigit(r) {
			return lastPart
		}
	}
	return fmt.Sprintf("(anonymous in %s)", strings.Join(parts[:len(parts)-1], "."))
}
