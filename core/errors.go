package core

import (
	"errors"
	"fmt"
	"syscall"
)

// Error kinds. Every error produced by the library wraps exactly one of these
// and can be classified with errors.Is.
var (
	ErrOpenFailed    = errors.New("open failed")
	ErrWriteFailed   = errors.New("write failed")
	ErrFlushFailed   = errors.New("flush failed")
	ErrFormatFailed  = errors.New("format failed")
	ErrQueueClosed   = errors.New("queue closed")
	ErrTimeout       = errors.New("timeout")
	ErrDestination   = errors.New("destination error")
	ErrRotateFailed  = errors.New("rotate failed")
	ErrRetention     = errors.New("retention failed")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Errorf returns an error of the given kind. The format may use %w to keep
// the underlying cause reachable.
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("log: %w: "+format, append([]any{kind}, args...)...)
}

// Errno extracts the OS error number carried by err, if any
func Errno(err error) (syscall.Errno, bool) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno, true
	}
	return 0, false
}

// CombineErrors joins two possibly nil errors
func CombineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return errors.Join(err1, err2)
}
