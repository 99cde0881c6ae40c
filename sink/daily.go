package sink

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/sinklog/core"
)

// FilenameFunc maps a base filename and a time inside a bucket to the file
// for that bucket. It must be pure.
type FilenameFunc func(base string, t time.Time) string

// DailyFilename returns "stem_YYYY-MM-DD.ext"
func DailyFilename(base string, t time.Time) string {
	stem, ext := SplitByExtension(base)
	return fmt.Sprintf("%s_%04d-%02d-%02d%s", stem, t.Year(), int(t.Month()), t.Day(), ext)
}

// HourlyFilename returns "stem_YYYY-MM-DD_HH.ext"
func HourlyFilename(base string, t time.Time) string {
	stem, ext := SplitByExtension(base)
	return fmt.Sprintf("%s_%04d-%02d-%02d_%02d%s", stem, t.Year(), int(t.Month()), t.Day(), t.Hour(), ext)
}

// StrftimeFilename treats pattern as a strftime style template.
// Supported: %Y %m %d %H %M %S %j %y %b and %% for a literal percent.
// Unknown verbs are kept verbatim.
func StrftimeFilename(pattern string, t time.Time) string {
	var sb strings.Builder
	sb.Grow(len(pattern) + 16)
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' || i == len(pattern)-1 {
			sb.WriteByte(c)
			continue
		}
		i++
		switch pattern[i] {
		case 'Y':
			fmt.Fprintf(&sb, "%04d", t.Year())
		case 'y':
			fmt.Fprintf(&sb, "%02d", t.Year()%100)
		case 'm':
			fmt.Fprintf(&sb, "%02d", int(t.Month()))
		case 'b':
			sb.WriteString(t.Month().String()[:3])
		case 'd':
			fmt.Fprintf(&sb, "%02d", t.Day())
		case 'j':
			fmt.Fprintf(&sb, "%03d", t.YearDay())
		case 'H':
			fmt.Fprintf(&sb, "%02d", t.Hour())
		case 'M':
			fmt.Fprintf(&sb, "%02d", t.Minute())
		case 'S':
			fmt.Fprintf(&sb, "%02d", t.Second())
		case '%':
			sb.WriteByte('%')
		default:
			sb.WriteByte('%')
			sb.WriteByte(pattern[i])
		}
	}
	return sb.String()
}

// bucket describes the calendar period of a time based sink
type bucket struct {
	name string
	// next returns the first rotation point strictly after t
	next func(t time.Time) time.Time
	// prev steps one bucket back, used to find existing files
	prev func(t time.Time) time.Time
}

func dailyBucket(hour, minute int) bucket {
	return bucket{
		name: "daily",
		next: func(t time.Time) time.Time {
			rt := time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
			if rt.After(t) {
				return rt
			}
			return rt.AddDate(0, 0, 1)
		},
		prev: func(t time.Time) time.Time { return t.AddDate(0, 0, -1) },
	}
}

func hourlyBucket() bucket {
	return bucket{
		name: "hourly",
		next: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location()).Add(time.Hour)
		},
		prev: func(t time.Time) time.Time { return t.Add(-time.Hour) },
	}
}

// Daily writes to one file per calendar bucket (a day starting at a
// configurable hour:minute, or an hour) and optionally keeps only the most
// recent maxFiles bucket files.
type Daily struct {
	base
	file         *FileHelper
	baseFilename string
	bucket       bucket
	filenameFunc FilenameFunc
	truncate     bool
	maxFiles     int
	rotationTime time.Time
	// filenames holds the retained bucket files, oldest first
	filenames []string
}

// NewDaily creates a sink rotating every day at rotationHour:rotationMinute
func NewDaily(baseFilename string, rotationHour, rotationMinute int, opts ...Option) (*Daily, error) {
	if rotationHour < 0 || rotationHour > 23 || rotationMinute < 0 || rotationMinute > 59 {
		return nil, core.Errorf(core.ErrInvalidConfig, "daily sink: invalid rotation time %s:%s",
			strconv.Itoa(rotationHour), strconv.Itoa(rotationMinute))
	}
	o := newOptions(opts)
	if o.filenameFunc == nil {
		o.filenameFunc = DailyFilename
	}
	return newTimeBucketed(baseFilename, dailyBucket(rotationHour, rotationMinute), o, time.Now())
}

// NewHourly creates a sink rotating at the start of every hour
func NewHourly(baseFilename string, opts ...Option) (*Daily, error) {
	o := newOptions(opts)
	if o.filenameFunc == nil {
		o.filenameFunc = HourlyFilename
	}
	return newTimeBucketed(baseFilename, hourlyBucket(), o, time.Now())
}

func newTimeBucketed(baseFilename string, b bucket, o *options, now time.Time) (*Daily, error) {
	if o.maxFiles < 0 || o.maxFiles > MaxRotatingFiles {
		return nil, core.Errorf(core.ErrInvalidConfig, "%s sink: max files must be between 0 and %d", b.name, MaxRotatingFiles)
	}
	s := &Daily{
		file:         NewFileHelper(o.events),
		baseFilename: baseFilename,
		bucket:       b,
		filenameFunc: o.filenameFunc,
		truncate:     o.truncate,
		maxFiles:     o.maxFiles,
	}
	s.init(o)

	if err := s.file.Open(s.filenameFunc(baseFilename, now), s.truncate); err != nil {
		return nil, err
	}
	s.rotationTime = b.next(now)
	if s.maxFiles > 0 {
		s.seedFilenames(now)
	}
	return s, nil
}

// seedFilenames walks back bucket by bucket collecting existing files until
// the first gap, so that retention covers files from earlier runs
func (s *Daily) seedFilenames(now time.Time) {
	var found []string
	t := now
	for len(found) < s.maxFiles {
		name := s.filenameFunc(s.baseFilename, t)
		if _, err := os.Stat(name); err != nil {
			break
		}
		if len(found) > 0 && found[len(found)-1] == name {
			break
		}
		found = append(found, name)
		t = s.bucket.prev(t)
	}
	s.filenames = make([]string, 0, s.maxFiles)
	for i := len(found) - 1; i >= 0; i-- {
		s.filenames = append(s.filenames, found[i])
	}
}

// Log writes rec into the file of its bucket, rotating when rec.Time is at
// or past the rotation point. Retention failures are returned as
// ErrRetention after the record has been written.
func (s *Daily) Log(rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shouldRotate := !rec.Time.Before(s.rotationTime)
	if shouldRotate {
		if err := s.file.Open(s.filenameFunc(s.baseFilename, rec.Time), s.truncate); err != nil {
			return err
		}
		s.rotationTime = s.bucket.next(rec.Time)
	}
	if err := s.file.Write(s.formatter.Format(rec)); err != nil {
		return err
	}
	if shouldRotate && s.maxFiles > 0 {
		return s.deleteOld()
	}
	return nil
}

// deleteOld drops the oldest retained file when the set is full and records
// the current file. Must be called with mu held.
func (s *Daily) deleteOld() error {
	current := s.file.Filename()
	if n := len(s.filenames); n > 0 && s.filenames[n-1] == current {
		return nil
	}

	var err error
	if len(s.filenames) >= s.maxFiles {
		oldest := s.filenames[0]
		s.filenames = s.filenames[1:]
		if oldest != current {
			if rmErr := os.Remove(oldest); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				err = core.Errorf(core.ErrRetention, "failed removing %s file %s: %w", s.bucket.name, oldest, rmErr)
			}
		}
	}
	s.filenames = append(s.filenames, current)
	return err
}

// Flush pushes buffered data to the OS
func (s *Daily) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Flush()
}

// Filename returns the active bucket file
func (s *Daily) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Filename()
}

// RetainedFiles returns the tracked bucket files, oldest first
func (s *Daily) RetainedFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.filenames))
	copy(out, s.filenames)
	return out
}

// Close flushes and closes the active file
func (s *Daily) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
