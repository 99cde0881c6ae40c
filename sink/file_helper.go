package sink

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v5"

	"github.com/lixenwraith/sinklog/core"
)

// File open retry parameters
const (
	OpenTries    = 5
	OpenInterval = 10 * time.Millisecond
)

const (
	fileMode   os.FileMode = 0644
	dirMode    os.FileMode = 0755
	bufferSize             = 32 * 1024
)

// FileEvents are optional hooks around file open and close
type FileEvents struct {
	BeforeOpen  func(filename string)
	AfterOpen   func(filename string, f *os.File)
	BeforeClose func(filename string, f *os.File)
	AfterClose  func(filename string)
}

// FileHelper owns one open log file: buffered writes, size tracking and
// bounded open retries. It is not safe for concurrent use; sinks guard it
// with their lock.
type FileHelper struct {
	file         *os.File
	writer       *bufio.Writer
	filename     string
	size         int64
	events       FileEvents
	openTries    uint
	openInterval time.Duration
}

// NewFileHelper creates a helper with no file open
func NewFileHelper(events FileEvents) *FileHelper {
	return &FileHelper{
		events:       events,
		openTries:    OpenTries,
		openInterval: OpenInterval,
	}
}

// Open opens filename for appending, creating parent directories. With
// truncate the file is emptied first. Any previously open file is closed.
func (h *FileHelper) Open(filename string, truncate bool) error {
	if err := h.Close(); err != nil {
		return err
	}
	h.filename = filename

	err := retry.New(
		retry.Attempts(h.openTries),
		retry.Delay(h.openInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	).Do(func() error {
		return h.openOnce(filename, truncate)
	})
	if err != nil {
		return core.Errorf(core.ErrOpenFailed, "failed opening file %s for writing: %w", filename, err)
	}
	return nil
}

func (h *FileHelper) openOnce(filename string, truncate bool) error {
	if h.events.BeforeOpen != nil {
		h.events.BeforeOpen(filename)
	}
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return err
		}
	}
	if truncate {
		// Truncate through a short-lived handle, then append like any other open
		tf, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
		if err != nil {
			return err
		}
		if err := tf.Close(); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, fileMode)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	h.file = f
	h.size = info.Size()
	h.writer = bufio.NewWriterSize(f, bufferSize)
	if h.events.AfterOpen != nil {
		h.events.AfterOpen(filename, f)
	}
	return nil
}

// Reopen reopens the last opened filename
func (h *FileHelper) Reopen(truncate bool) error {
	if h.filename == "" {
		return core.Errorf(core.ErrOpenFailed, "failed re opening file: file was not opened before")
	}
	return h.Open(h.filename, truncate)
}

// Write appends p to the file buffer
func (h *FileHelper) Write(p []byte) error {
	if h.writer == nil {
		return core.Errorf(core.ErrWriteFailed, "failed writing to file %s: file is not open", h.filename)
	}
	n, err := h.writer.Write(p)
	h.size += int64(n)
	if err != nil {
		return core.Errorf(core.ErrWriteFailed, "failed writing to file %s: %w", h.filename, err)
	}
	if n != len(p) {
		return core.Errorf(core.ErrWriteFailed, "failed writing to file %s: short write %d of %d", h.filename, n, len(p))
	}
	return nil
}

// Flush pushes buffered bytes to the OS
func (h *FileHelper) Flush() error {
	if h.writer == nil {
		return nil
	}
	if err := h.writer.Flush(); err != nil {
		return core.Errorf(core.ErrFlushFailed, "failed flush to file %s: %w", h.filename, err)
	}
	return nil
}

// Sync flushes and then fsyncs the file
func (h *FileHelper) Sync() error {
	if err := h.Flush(); err != nil {
		return err
	}
	if h.file == nil {
		return nil
	}
	if err := h.file.Sync(); err != nil {
		return core.Errorf(core.ErrFlushFailed, "failed to fsync file %s: %w", h.filename, err)
	}
	return nil
}

// Close flushes and closes the file. Closing a closed helper is a no-op.
func (h *FileHelper) Close() error {
	if h.file == nil {
		return nil
	}
	if h.events.BeforeClose != nil {
		h.events.BeforeClose(h.filename, h.file)
	}
	flushErr := h.Flush()
	closeErr := h.file.Close()
	h.file = nil
	h.writer = nil
	if h.events.AfterClose != nil {
		h.events.AfterClose(h.filename)
	}
	if closeErr != nil {
		closeErr = core.Errorf(core.ErrFlushFailed, "failed closing file %s: %w", h.filename, closeErr)
	}
	return core.CombineErrors(flushErr, closeErr)
}

// Size returns the file size including buffered bytes
func (h *FileHelper) Size() int64 {
	return h.size
}

// Filename returns the last opened filename
func (h *FileHelper) Filename() string {
	return h.filename
}

// IsOpen reports whether a file handle is held
func (h *FileHelper) IsOpen() bool {
	return h.file != nil
}

// SplitByExtension splits a path into stem and extension.
// "mylog.txt" -> ("mylog", ".txt"); "mylog" -> ("mylog", "");
// ".mylog" -> (".mylog", ""); "my.folder/mylog" -> ("my.folder/mylog", "");
// "/dir1/dir2/.mylog.txt" -> ("/dir1/dir2/.mylog", ".txt").
func SplitByExtension(filename string) (string, string) {
	extIndex := strings.LastIndexByte(filename, '.')

	// no valid extension found: no dot, leading dot or trailing dot
	if extIndex <= 0 || extIndex == len(filename)-1 {
		return filename, ""
	}

	// treat cases like "/etc/rc.d/somelogfile" or "/abc/.hiddenfile"
	folderIndex := strings.LastIndexAny(filename, `/\`)
	if folderIndex >= 0 && folderIndex >= extIndex-1 {
		return filename, ""
	}

	return filename[:extIndex], filename[extIndex:]
}
