// FILE: lixenwraith/sinklog/utility.go
package log

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

// internalErrorsToStderr gates library diagnostics that have no logger to
// report through
var internalErrorsToStderr atomic.Bool

// SetInternalErrorsToStderr enables or disables library diagnostics on stderr
func SetInternalErrorsToStderr(enable bool) {
	internalErrorsToStderr.Store(enable)
}

// internalLog writes a library diagnostic to stderr when enabled
func internalLog(format string, args ...any) {
	if !internalErrorsToStderr.Load() {
		return
	}
	if !strings.HasPrefix(format, "log: ") {
		format = "log: " + format
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "log: ") {
		format = "log: " + format
	}
	return fmt.Errorf(format, args...)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}
