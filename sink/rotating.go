package sink

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/avast/retry-go/v5"

	"github.com/lixenwraith/sinklog/core"
)

// MaxRotatingFiles caps the number of backups a rotating sink may keep
const MaxRotatingFiles = 200000

const renameRetryDelay = 100 * time.Millisecond

// Rotating writes to base and rotates by size: base -> base.1 -> base.2 ...
// up to base.<maxFiles>, the oldest kept.
type Rotating struct {
	base
	file         *FileHelper
	baseFilename string
	maxSize      int64
	maxFiles     int
}

// RotatingFilename returns the name of backup index. Index 0 is the active
// file: ("logs/app.txt", 3) -> "logs/app.3.txt", ("logs/app", 3) -> "logs/app.3".
func RotatingFilename(filename string, index int) string {
	if index == 0 {
		return filename
	}
	stem, ext := SplitByExtension(filename)
	return stem + "." + strconv.Itoa(index) + ext
}

// NewRotating opens baseFilename for appending and returns a size rotating sink
func NewRotating(baseFilename string, maxSize int64, maxFiles int, opts ...Option) (*Rotating, error) {
	if maxSize <= 0 {
		return nil, core.Errorf(core.ErrInvalidConfig, "rotating sink constructor: maximum file size must be greater than 0")
	}
	if maxFiles < 0 || maxFiles > MaxRotatingFiles {
		return nil, core.Errorf(core.ErrInvalidConfig, "rotating sink constructor: max files must be between 0 and %d", MaxRotatingFiles)
	}

	o := newOptions(opts)
	s := &Rotating{
		file:         NewFileHelper(o.events),
		baseFilename: baseFilename,
		maxSize:      maxSize,
		maxFiles:     maxFiles,
	}
	s.init(o)

	if err := s.file.Open(RotatingFilename(baseFilename, 0), false); err != nil {
		return nil, err
	}
	if o.rotateOnOpen && s.file.Size() > 0 {
		if err := s.rotate(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Log writes rec, rotating first when the write would exceed the size limit.
// A failed rename still writes the record to a truncated base file and
// returns ErrRotateFailed.
func (s *Rotating) Log(rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.formatter.Format(rec)
	var rotateErr error
	if s.file.Size()+int64(len(data)) > s.maxSize {
		if err := s.file.Flush(); err != nil {
			return err
		}
		if s.file.Size() > 0 {
			rotateErr = s.rotate()
		}
	}
	if !s.file.IsOpen() {
		return core.CombineErrors(rotateErr, core.Errorf(core.ErrWriteFailed, "failed writing to file %s: file is not open", s.baseFilename))
	}
	return core.CombineErrors(rotateErr, s.file.Write(data))
}

// Rotate forces a rotation regardless of the current size
func (s *Rotating) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotate()
}

// Flush pushes buffered data to the OS
func (s *Rotating) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Flush()
}

// Filename returns the active file path
func (s *Rotating) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Filename()
}

// Close flushes and closes the active file
func (s *Rotating) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// rotate shifts every backup one index up and reopens base truncated.
// Must be called with mu held.
func (s *Rotating) rotate() error {
	if err := s.file.Close(); err != nil {
		return err
	}
	for i := s.maxFiles; i > 0; i-- {
		src := RotatingFilename(s.baseFilename, i-1)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		target := RotatingFilename(s.baseFilename, i)
		if err := renameFile(src, target); err != nil {
			// Keep logging into a fresh base file so later records are not lost
			reopenErr := s.file.Open(s.baseFilename, true)
			return core.CombineErrors(
				core.Errorf(core.ErrRotateFailed, "rotating sink: failed renaming %s to %s: %w", src, target, err),
				reopenErr,
			)
		}
	}
	return s.file.Open(s.baseFilename, true)
}

// renameFile replaces target with src, retrying once after a short delay
func renameFile(src, target string) error {
	return retry.New(
		retry.Attempts(2),
		retry.Delay(renameRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	).Do(func() error {
		if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return os.Rename(src, target)
	})
}
